// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitestore provides a SQLite-backed intake.Store. Applicant
// states and pending applications survive process restarts, so active
// questionnaires and undecided applications are not lost on redeploy.
//
// Answer lists are stored as a single CBOR blob per row rather than a
// child table: they are only ever read and written whole, in question
// order.
package sqlitestore
