// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package telegram wraps the Telegram Bot API surface doorman needs.
//
// [Client] is a thin HTTP client over the Bot API: getMe for the
// startup credential check, getUpdates for long-polling, sendMessage,
// editMessageReplyMarkup for disabling spent inline keyboards, and
// answerCallbackQuery for acknowledging button presses. Requests are
// JSON-encoded POSTs; messages are sent with HTML parse mode and link
// previews disabled, so callers must escape user-supplied text (see
// the intake package's renderer).
//
// All API errors are returned as [*APIError] carrying the Bot API
// error_code and description plus the HTTP status. [IsAPIError] tests
// for a specific error code.
//
// [RunUpdateLoop] is the single-worker long-poll loop: it fetches
// update batches, hands each update to a handler in arrival order,
// and advances the offset past the highest update ID seen. Transient
// fetch errors retry with exponential backoff under an injected
// clock; the loop exits only on context cancellation.
package telegram
