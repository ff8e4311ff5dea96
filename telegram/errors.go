// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"errors"
	"fmt"
)

// APIError represents a structured error response from the Bot API.
// Callers can use errors.As to extract the structured information:
//
//	var apiErr *telegram.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.Code == http.StatusForbidden { ... }
//	}
type APIError struct {
	// Code is the Bot API error_code (e.g., 400, 403). For blocked
	// bots this is 403; for malformed requests 400.
	Code int `json:"error_code"`
	// Description is the human-readable error from the API.
	Description string `json:"description"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: api error %d (http %d): %s", e.Code, e.StatusCode, e.Description)
}

// IsAPIError checks whether err is a *APIError with the given
// error_code.
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
