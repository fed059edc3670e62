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

package assertion

import (
	"time"
)

// Credential represents one authenticator bound to one user, as stored by
// the Relying Party.
type Credential struct {
	// ID is the credential identifier assigned by the authenticator.
	// Unique across the whole store so a lookup by ID is unambiguous.
	ID []byte `json:"id"`

	// UserID is the user handle this credential belongs to.
	UserID []byte `json:"user_id"`

	// PublicKey is the credential's public key in COSE format.
	PublicKey []byte `json:"public_key"`

	// SignCount is the monotonically non-decreasing signature counter used
	// for clone detection. Zero if the authenticator has no counter.
	SignCount uint32 `json:"sign_count"`

	// Transports lists the transports hinted by the authenticator at
	// registration time ("usb", "nfc", "ble", "internal").
	Transports []string `json:"transports,omitempty"`

	// CreatedAt is when the credential was registered.
	CreatedAt time.Time `json:"created_at"`

	// LastUsedAt is when the credential was last used for authentication.
	LastUsedAt time.Time `json:"last_used_at,omitempty"`
}

// ClientData is the client-collaborator-produced payload describing what
// the authenticator signed. Ephemeral; exists only for one verification.
//
// https://www.w3.org/TR/webauthn-3/#dictionary-client-data
type ClientData struct {
	Type        string              `json:"type"`
	Challenge   clientDataChallenge `json:"challenge"`
	Origin      string              `json:"origin"`
	CrossOrigin bool                `json:"crossOrigin,omitempty"`

	// TokenBinding is optional and unused by verification, retained so
	// envelopes carrying it still parse.
	TokenBinding *TokenBinding `json:"tokenBinding,omitempty"`
}

// TokenBinding is the deprecated clientData tokenBinding member.
type TokenBinding struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// Reason classifies a verification rejection. Each verification step maps
// to a distinct reason; the taxonomy is logged and counted but never
// surfaced to clients.
type Reason int

// Rejection reasons, in verification step order.
const (
	ReasonNone Reason = iota
	ReasonMalformedEncoding
	ReasonUnknownCredential
	ReasonWrongCeremonyType
	ReasonChallengeMismatch
	ReasonChallengeExpired
	ReasonOriginMismatch
	ReasonRPIDMismatch
	ReasonUserNotPresentOrVerified
	ReasonSignatureInvalid
	ReasonCloneDetected
)

var reasonStrings = map[Reason]string{
	ReasonNone:                     "none",
	ReasonMalformedEncoding:        "malformed_encoding",
	ReasonUnknownCredential:        "unknown_credential",
	ReasonWrongCeremonyType:        "wrong_ceremony_type",
	ReasonChallengeMismatch:        "challenge_mismatch",
	ReasonChallengeExpired:         "challenge_expired",
	ReasonOriginMismatch:           "origin_mismatch",
	ReasonRPIDMismatch:             "rpid_mismatch",
	ReasonUserNotPresentOrVerified: "user_presence_or_verification_failed",
	ReasonSignatureInvalid:         "signature_invalid",
	ReasonCloneDetected:            "possible_clone_detected",
}

// String returns the snake_case label used in logs and metrics.
func (r Reason) String() string {
	if s, ok := reasonStrings[r]; ok {
		return s
	}
	return "unknown"
}

// Result is the verifier's tagged outcome: accepted with the counter to
// persist, or rejected with a specific reason.
type Result struct {
	// Accepted is true when every verification step passed.
	Accepted bool

	// NewSignCount is the counter to persist on success.
	NewSignCount uint32

	// Reason is the rejection classification when Accepted is false.
	Reason Reason
}

// Accept builds an accepted result carrying the updated sign counter.
func Accept(signCount uint32) *Result {
	return &Result{Accepted: true, NewSignCount: signCount}
}

// Reject builds a rejected result with the given reason.
func Reject(reason Reason) *Result {
	return &Result{Reason: reason}
}
