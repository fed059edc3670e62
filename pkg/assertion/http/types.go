// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package http

import (
	"github.com/jeremyhahn/go-passkey/pkg/assertion"
)

// HeaderUserID is the header carrying the base64url user ID on the result
// request.
const HeaderUserID = "X-User-Id"

// OptionsRequest is the request body for starting an assertion ceremony.
type OptionsRequest struct {
	// UserID is the base64url-encoded user ID (required).
	UserID string `json:"user_id"`
}

// ResultRequest is the request body for completing an assertion ceremony:
// the wire envelope, optionally wrapping the user ID when the X-User-Id
// header is not used.
type ResultRequest struct {
	// UserID is the base64url-encoded user ID (optional, alternative to
	// the X-User-Id header).
	UserID string `json:"user_id,omitempty"`

	assertion.CredentialAssertionResponse
}

// ResultResponse reports the ceremony outcome. Message is deliberately
// generic on failure.
type ResultResponse struct {
	// Success indicates whether the assertion was accepted.
	Success bool `json:"success"`

	// Token is the authentication token on success.
	Token string `json:"token,omitempty"`

	// Message is a human-readable outcome description.
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the response format for errors.
type ErrorResponse struct {
	// Error is the error code.
	Error string `json:"error"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeVerificationFailed = "verification_failed"
	ErrorCodeInternalError      = "internal_error"
)
