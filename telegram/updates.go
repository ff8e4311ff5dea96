// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/doorman-bot/doorman/lib/clock"
)

// UpdateHandler is called once per update, in arrival order. The next
// update is not dispatched until the handler returns, so any state the
// handler mutates needs no locking against its own future calls.
type UpdateHandler func(ctx context.Context, update Update)

// UpdateLoopConfig configures the getUpdates long-poll loop.
type UpdateLoopConfig struct {
	// Timeout is the server-side long-poll hold in seconds.
	// Default: 60.
	Timeout int

	// MaxBackoff is the maximum delay between retries on a transient
	// getUpdates error. Backoff starts at one second and doubles.
	// Default: 30 seconds.
	MaxBackoff time.Duration
}

// RunUpdateLoop runs the long-poll fetch-and-dispatch loop until ctx
// is cancelled. Each batch is processed in order; the offset then
// advances past the highest update ID seen, so a fully handled update
// is never fetched again. A handler crash mid-batch would re-deliver
// the remainder of the batch on restart — the dispatcher's
// state-machine guards make re-processing safe.
//
// Fetch errors are logged and retried with exponential backoff under
// clk; idle connections are reset first so the retry opens a fresh
// socket. Errors never escape the loop.
func RunUpdateLoop(ctx context.Context, client *Client, config UpdateLoopConfig, handler UpdateHandler, clk clock.Clock, logger *slog.Logger) {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60
	}
	maxBackoff := config.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = 30 * time.Second
	}

	var offset int64
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := client.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("getUpdates failed, retrying", "error", err, "backoff", backoff)
			client.CloseIdleConnections()
			select {
			case <-ctx.Done():
				return
			case <-clk.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			handler(ctx, update)
		}
	}
}
