// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

// Update is one inbound event from getUpdates. Exactly one of the
// payload pointers is set per update (for the update types doorman
// subscribes to: messages, edited messages, and callback queries).
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	EditedMessage *Message       `json:"edited_message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is an inbound or just-sent chat message.
type Message struct {
	MessageID int   `json:"message_id"`
	From      *User `json:"from,omitempty"`
	Chat      Chat  `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// Chat identifies the conversation a message belongs to. Private
// chats have positive IDs equal to the peer's user ID; group chats
// are negative.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

// User identifies a message sender or button presser. Username may be
// empty — callers needing a display name must synthesize a fallback.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// CallbackQuery is an inline keyboard button press. Data carries the
// callback payload that was attached to the button.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// InlineKeyboardMarkup is a grid of inline buttons attached to a
// message. An empty grid removes the keyboard when used with
// editMessageReplyMarkup.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one button: a label and the callback payload
// delivered when it is pressed.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// SendMessageRequest holds sendMessage parameters. ParseMode,
// link-preview suppression, and notification behavior are fixed by the
// client — callers supply only the destination, text, and an optional
// keyboard.
type SendMessageRequest struct {
	ChatID              int64                 `json:"chat_id"`
	Text                string                `json:"text"`
	ParseMode           string                `json:"parse_mode,omitempty"`
	DisableWebPreview   bool                  `json:"disable_web_page_preview,omitempty"`
	DisableNotification bool                  `json:"disable_notification,omitempty"`
	ReplyMarkup         *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// editMarkupRequest holds editMessageReplyMarkup parameters.
type editMarkupRequest struct {
	ChatID      int64                `json:"chat_id"`
	MessageID   int                  `json:"message_id"`
	ReplyMarkup InlineKeyboardMarkup `json:"reply_markup"`
}

// answerCallbackRequest holds answerCallbackQuery parameters.
type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
}

// getUpdatesRequest holds getUpdates parameters. Timeout is the
// server-side long-poll hold in seconds.
type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates"`
}
