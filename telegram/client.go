// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Token is the bot credential. Required.
	Token string
	// APIURL is the base URL of the Bot API (e.g.,
	// "https://api.telegram.org"). Required; tests point it at an
	// httptest server.
	APIURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used. The update loop's long-poll calls need a client whose
	// timeout exceeds the long-poll hold, or no timeout at all
	// (context deadlines bound each call instead).
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is a Telegram Bot API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Bot API client. The token is embedded in request
// paths (the Bot API's auth scheme) and never logged.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("telegram: Token is required")
	}
	if config.APIURL == "" {
		return nil, fmt.Errorf("telegram: APIURL is required")
	}
	if _, err := url.Parse(config.APIURL); err != nil {
		return nil, fmt.Errorf("telegram: invalid APIURL %q: %w", config.APIURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.APIURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// GetMe verifies the bot credential and returns the bot's own user.
// Called once at startup: a rejected token is a fatal configuration
// error, not something to retry at runtime.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	body, err := c.call(ctx, "getMe", nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: getMe failed: %w", err)
	}
	var me User
	if err := json.Unmarshal(body, &me); err != nil {
		return nil, fmt.Errorf("telegram: failed to parse getMe response: %w", err)
	}
	return &me, nil
}

// GetUpdates long-polls for new updates after the given offset.
// timeout is the server-side hold in seconds; the server returns
// immediately when updates are available. Subscribes to messages and
// callback queries only.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	request := getUpdatesRequest{
		Offset:         offset,
		Timeout:        timeout,
		AllowedUpdates: []string{"message", "edited_message", "callback_query"},
	}
	body, err := c.call(ctx, "getUpdates", request)
	if err != nil {
		return nil, fmt.Errorf("telegram: getUpdates failed: %w", err)
	}
	var updates []Update
	if err := json.Unmarshal(body, &updates); err != nil {
		return nil, fmt.Errorf("telegram: failed to parse updates: %w", err)
	}
	return updates, nil
}

// SendMessage sends text to a chat, optionally with an inline
// keyboard, and returns the sent message's ID. Text is rendered with
// HTML parse mode — callers must escape user-supplied content before
// embedding it. Link previews are always suppressed.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) (int, error) {
	request := SendMessageRequest{
		ChatID:            chatID,
		Text:              text,
		ParseMode:         "HTML",
		DisableWebPreview: true,
		ReplyMarkup:       keyboard,
	}
	body, err := c.call(ctx, "sendMessage", request)
	if err != nil {
		return 0, fmt.Errorf("telegram: sendMessage to %d failed: %w", chatID, err)
	}
	var sent Message
	if err := json.Unmarshal(body, &sent); err != nil {
		return 0, fmt.Errorf("telegram: failed to parse sendMessage response: %w", err)
	}
	return sent.MessageID, nil
}

// DisableButtons removes the inline keyboard from a previously sent
// message by editing its reply markup to an empty grid. Used to spend
// confirm/cancel and accept/reject buttons once acted on.
func (c *Client) DisableButtons(ctx context.Context, chatID int64, messageID int) error {
	request := editMarkupRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}},
	}
	if _, err := c.call(ctx, "editMessageReplyMarkup", request); err != nil {
		return fmt.Errorf("telegram: disabling buttons on %d/%d failed: %w", chatID, messageID, err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query, clearing the
// pending-action indicator on the presser's client. Must be called for
// every callback regardless of whether the press has any effect.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := c.call(ctx, "answerCallbackQuery", answerCallbackRequest{CallbackQueryID: callbackID}); err != nil {
		return fmt.Errorf("telegram: answerCallbackQuery failed: %w", err)
	}
	return nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's pool. The update loop calls this after a fetch error so
// the next attempt opens a fresh socket instead of reusing a poisoned
// pooled connection.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// apiResponse is the Bot API's uniform envelope: ok plus either a
// result payload or an error code and description.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// call performs a Bot API method call and returns the raw result
// payload. On ok=false or a non-2xx status, returns a *APIError.
func (c *Client) call(ctx context.Context, method string, requestBody any) (json.RawMessage, error) {
	requestURL := c.baseURL + "/bot" + c.token + "/" + method

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", method, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(responseBody, &envelope); err != nil {
		// Non-JSON response. Should not happen with the real API, but
		// fail loud with the status rather than guessing.
		return nil, fmt.Errorf("unexpected %d response from %s: %s",
			response.StatusCode, method, string(responseBody))
	}

	if !envelope.OK {
		return nil, &APIError{
			Code:        envelope.ErrorCode,
			Description: envelope.Description,
			StatusCode:  response.StatusCode,
		}
	}
	return envelope.Result, nil
}
