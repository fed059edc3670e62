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
	"context"
)

// CredentialStore manages registered credential persistence. Credentials
// are the public key records stored by the Relying Party; the store owns
// them exclusively and the only mutation after registration is the
// post-success sign counter update.
type CredentialStore interface {
	// Save stores a new credential. Credential IDs are unique across the
	// whole store, not just per user; Save returns
	// ErrCredentialAlreadyExists on a duplicate ID.
	Save(ctx context.Context, cred *Credential) error

	// GetByCredentialID retrieves a credential by its ID.
	// Returns ErrCredentialNotFound if the credential does not exist.
	GetByCredentialID(ctx context.Context, credID []byte) (*Credential, error)

	// GetByUserID retrieves all credentials for a user.
	// Returns an empty slice if the user has no credentials.
	GetByUserID(ctx context.Context, userID []byte) ([]*Credential, error)

	// UpdateSignCount records the new signature counter after a successful
	// verification. The update must be applied under a per-credential
	// exclusive section so concurrent ceremonies cannot write stale counters.
	// Returns ErrCredentialNotFound if the credential does not exist.
	UpdateSignCount(ctx context.Context, credID []byte, signCount uint32) error

	// Delete removes a credential by its ID.
	// Returns ErrCredentialNotFound if the credential does not exist.
	Delete(ctx context.Context, credID []byte) error
}

// ChallengeStore manages outstanding challenges during authentication
// ceremonies. Challenges are short-lived (typically 60 seconds) and
// strictly single-use.
type ChallengeStore interface {
	// Put stores a challenge for a user, replacing any prior outstanding
	// challenge for that user. No two valid challenges coexist per user.
	Put(ctx context.Context, challenge *Challenge) error

	// Take retrieves and removes the outstanding challenge for a user in a
	// single atomic step, so two concurrent ceremonies cannot consume the
	// same challenge twice. Returns ErrChallengeNotFound if no challenge
	// is outstanding.
	Take(ctx context.Context, userID []byte) (*Challenge, error)
}

// TokenGenerator is an optional interface for generating tokens after a
// successful authentication. If not provided, the service returns the
// base64url-encoded user ID.
type TokenGenerator interface {
	// GenerateToken creates a JWT or other token for the authenticated user.
	GenerateToken(ctx context.Context, userID []byte) (string, error)
}
