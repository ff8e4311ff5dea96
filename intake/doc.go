// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package intake implements doorman's join-request state machine: the
// questionnaire an applicant fills in, the review-and-confirm step,
// and the moderation workflow that resolves a submitted application
// to accepted or rejected.
//
// The package is the core of the bot and is transport-agnostic: it
// talks to the messaging platform only through the narrow [Transport]
// interface and persists state only through [Store]. The telegram
// package and cmd/doorman supply the production implementations;
// tests supply fakes.
//
// Per-applicant state moves through a single path:
//
//	(none) → Questioning(step 1..N) → Reviewing →
//	    Submitted/Pending → accepted | rejected
//
// with cancel from Reviewing discarding the state wholesale. Accept
// and reject race-safety hangs on one rule: the pending application is
// removed from the store before any side effect of a resolution, so a
// duplicate or competing button press finds nothing and becomes a
// no-op.
//
// Events are processed one at a time by a single worker (see
// telegram.RunUpdateLoop), so the state machine needs no internal
// locking; the stores lock independently to stay safe for tooling and
// tests.
package intake
