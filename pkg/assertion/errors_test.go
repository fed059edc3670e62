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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertionError(t *testing.T) {
	err := NewError("take challenge", ErrChallengeNotFound)
	assert.Equal(t, "take challenge: challenge not found", err.Error())
	assert.ErrorIs(t, err, ErrChallengeNotFound)
	assert.Equal(t, ErrChallengeNotFound, errors.Unwrap(err))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError("op", nil))

	err := WrapError("decode", ErrMalformedEncoding)
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsCredentialNotFound(NewError("get", ErrCredentialNotFound)))
	assert.True(t, IsChallengeNotFound(ErrChallengeNotFound))
	assert.True(t, IsVerificationFailed(ErrVerificationFailed))
	assert.True(t, IsMalformedEncoding(NewError("decode rawId", ErrMalformedEncoding)))

	assert.False(t, IsCredentialNotFound(ErrChallengeNotFound))
	assert.False(t, IsVerificationFailed(nil))
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonNone, "none"},
		{ReasonMalformedEncoding, "malformed_encoding"},
		{ReasonUnknownCredential, "unknown_credential"},
		{ReasonWrongCeremonyType, "wrong_ceremony_type"},
		{ReasonChallengeMismatch, "challenge_mismatch"},
		{ReasonChallengeExpired, "challenge_expired"},
		{ReasonOriginMismatch, "origin_mismatch"},
		{ReasonRPIDMismatch, "rpid_mismatch"},
		{ReasonUserNotPresentOrVerified, "user_presence_or_verification_failed"},
		{ReasonSignatureInvalid, "signature_invalid"},
		{ReasonCloneDetected, "possible_clone_detected"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.reason.String())
	}
}
