// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import "context"

// Button is one inline button: a label and the callback payload
// delivered back when it is pressed.
type Button struct {
	Label string
	Data  string
}

// Transport is the outbound surface of the messaging platform. The
// telegram package's client satisfies it via a thin adapter in
// cmd/doorman; tests use a recording fake.
//
// Sends are best effort from the state machine's point of view: a
// transport failure is logged by the caller and never rolls back a
// state mutation that was already applied. State and delivered
// messages can therefore drift apart on failure — an accepted design
// risk.
type Transport interface {
	// SendText sends text to a chat, optionally with an inline
	// keyboard (nil for none), and returns the sent message's ID.
	SendText(ctx context.Context, chatID int64, text string, buttons [][]Button) (int, error)

	// DisableButtons removes the inline keyboard from an earlier
	// message, spending its buttons.
	DisableButtons(ctx context.Context, chatID int64, messageID int) error

	// AnswerCallback acknowledges a button press, clearing the
	// pending-action indicator on the presser's client.
	AnswerCallback(ctx context.Context, callbackID string) error
}
