// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/doorman-bot/doorman/intake"
	"github.com/doorman-bot/doorman/telegram"
)

// clientTransport adapts the Telegram client to the intake.Transport
// interface, translating the intake button grid into the platform's
// inline keyboard type.
type clientTransport struct {
	client *telegram.Client
}

var _ intake.Transport = (*clientTransport)(nil)

func (t *clientTransport) SendText(ctx context.Context, chatID int64, text string, buttons [][]intake.Button) (int, error) {
	return t.client.SendMessage(ctx, chatID, text, keyboardFor(buttons))
}

func (t *clientTransport) DisableButtons(ctx context.Context, chatID int64, messageID int) error {
	return t.client.DisableButtons(ctx, chatID, messageID)
}

func (t *clientTransport) AnswerCallback(ctx context.Context, callbackID string) error {
	return t.client.AnswerCallback(ctx, callbackID)
}

// keyboardFor converts a button grid to an inline keyboard, or nil
// for a plain message.
func keyboardFor(buttons [][]intake.Button) *telegram.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	markup := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: make([][]telegram.InlineKeyboardButton, len(buttons)),
	}
	for i, row := range buttons {
		converted := make([]telegram.InlineKeyboardButton, len(row))
		for j, button := range row {
			converted[j] = telegram.InlineKeyboardButton{
				Text:         button.Label,
				CallbackData: button.Data,
			}
		}
		markup.InlineKeyboard[i] = converted
	}
	return markup
}
