// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides doorman's standard CBOR encoding.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, so stored rows are
// byte-comparable. The decoder ignores unknown fields for forward
// compatibility with older database files.
//
// The SQLite store uses this package for the answer snapshots embedded
// in applicant and pending rows.
package codec
