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
	"fmt"
)

// Sentinel errors for assertion ceremony operations.
var (
	// ErrMalformedEncoding is returned when a wire envelope field is not
	// valid unpadded base64url, or a required field is empty.
	ErrMalformedEncoding = errors.New("malformed wire encoding")

	// ErrCredentialNotFound is returned when a credential cannot be found.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialAlreadyExists is returned when saving a duplicate credential ID.
	ErrCredentialAlreadyExists = errors.New("credential already exists")

	// ErrInvalidCredential is returned when stored credential data is
	// corrupt, such as an unparseable COSE public key.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrChallengeNotFound is returned when no outstanding challenge exists
	// for a user. A consumed challenge is gone; retrying requires a fresh one.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrNoCredentials is returned when a user has no registered credentials.
	ErrNoCredentials = errors.New("user has no registered credentials")

	// ErrVerificationFailed is the generic rejection surfaced to clients.
	// The specific rejection reason is never exposed outside logs and
	// metrics so that failures cannot be used as an oracle to enumerate
	// valid users or credential IDs.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrNotConfigured is returned when the service is not properly configured.
	ErrNotConfigured = errors.New("assertion service not configured")
)

// AssertionError wraps an error with the operation that produced it.
type AssertionError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

// Error returns the error message.
func (e *AssertionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AssertionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches.
func (e *AssertionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new AssertionError with the given operation and error.
func NewError(op string, err error) error {
	return &AssertionError{
		Op:  op,
		Err: err,
	}
}

// WrapError wraps an error with an operation name if it's not nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(op, err)
}

// IsCredentialNotFound returns true if the error indicates a credential was not found.
func IsCredentialNotFound(err error) bool {
	return errors.Is(err, ErrCredentialNotFound)
}

// IsChallengeNotFound returns true if the error indicates a challenge was not found.
func IsChallengeNotFound(err error) bool {
	return errors.Is(err, ErrChallengeNotFound)
}

// IsVerificationFailed returns true if the error indicates verification failed.
func IsVerificationFailed(err error) bool {
	return errors.Is(err, ErrVerificationFailed)
}

// IsMalformedEncoding returns true if the error indicates a malformed wire envelope.
func IsMalformedEncoding(err error) bool {
	return errors.Is(err, ErrMalformedEncoding)
}
