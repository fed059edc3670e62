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
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jeremyhahn/go-passkey/pkg/assertion"
)

// Handler provides HTTP handlers for the assertion ceremony. These
// handlers can be mounted on any HTTP router.
type Handler struct {
	service *assertion.Service
	logger  *slog.Logger
}

// NewHandler creates a new assertion HTTP handler.
func NewHandler(service *assertion.Service) *Handler {
	return &Handler{
		service: service,
		logger:  slog.Default(),
	}
}

// WithLogger sets a custom logger for the handler.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// AssertionOptions handles POST /assertion/options
//
// Request body:
//
//	{
//	    "user_id": "base64url-user-id"
//	}
//
// Response: PublicKeyCredentialRequestOptions wire object with the
// challenge, rpId, timeout, and allowed credential IDs.
func (h *Handler) AssertionOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "user_id is required")
		return
	}

	userID, err := base64.RawURLEncoding.DecodeString(req.UserID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid user ID encoding")
		return
	}

	options, err := h.service.BeginLogin(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, options)
}

// AssertionResult handles POST /assertion/result
//
// Header: X-User-Id (base64url user ID; alternatively a user_id body field)
// Request body: assertion wire envelope from the credential API
// Response: {"success": true, "token": "..."} or a generic failure.
func (h *Handler) AssertionResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}

	userIDStr := r.Header.Get(HeaderUserID)
	if userIDStr == "" {
		userIDStr = req.UserID
	}
	if userIDStr == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "user ID is required")
		return
	}

	userID, err := base64.RawURLEncoding.DecodeString(userIDStr)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid user ID encoding")
		return
	}

	token, err := h.service.FinishLogin(r.Context(), userID, &req.CredentialAssertionResponse)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ResultResponse{
		Success: true,
		Token:   token,
		Message: "Authentication successful!",
	})
}

// handleServiceError maps service errors to HTTP responses. Verification
// rejections always produce the same generic response regardless of which
// check failed.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assertion.ErrMalformedEncoding):
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid assertion response")
	case errors.Is(err, assertion.ErrNoCredentials):
		// Indistinguishable from any other bad request, so the options
		// endpoint cannot be used to probe which user IDs have
		// registered credentials.
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request")
	case errors.Is(err, assertion.ErrVerificationFailed):
		h.writeJSON(w, http.StatusUnauthorized, ResultResponse{
			Success: false,
			Message: "Authentication failed.",
		})
	default:
		h.logger.Error("assertion service error", "error", err)
		h.writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal server error")
	}
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response headers already written, can only log the error
		h.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status)
	}
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
