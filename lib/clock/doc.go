// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time operations for testability.
//
// Production code injects [Real]; tests inject [Fake] and drive time
// forward deterministically with Advance. Anything in doorman that
// sleeps or backs off (the update loop's retry backoff, most notably)
// takes a [Clock] instead of calling the time package directly.
package clock
