// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides doorman's SQLite connection pool.
//
// It wraps zombiezen.com/go/sqlite with settings suited to a
// single-process bot with one writer and occasional reads: WAL journal
// mode, NORMAL synchronous for process-crash durability without
// fsync-per-commit overhead, and a busy timeout so a slow write never
// surfaces SQLITE_BUSY to the dispatcher.
//
// Callers [Pool.Take] a connection, perform work, and [Pool.Put] it
// back. Connections are not safe for concurrent use — each goroutine
// must hold its own connection for the duration of its work. Doorman's
// single-worker dispatch loop means contention is rare, but the pool
// keeps the store safe for future callers (admin tooling, tests).
package sqlitepool
