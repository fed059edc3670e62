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
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChallengeLength is the number of random bytes in a challenge value.
// The specification recommends at least 16 bytes; 32 matches what common
// browser stacks emit.
//
// https://www.w3.org/TR/webauthn-3/#sctn-cryptographic-challenges
const ChallengeLength = 32

// Challenge is a single-use random value binding one authentication
// ceremony to one user. It is created by the Issuer and destroyed by the
// matching verification attempt, success or failure, or by expiry.
type Challenge struct {
	// ID identifies the challenge record for logging and correlation.
	ID string `json:"id"`

	// UserID is the user the challenge was issued for.
	UserID []byte `json:"user_id"`

	// Value is the random challenge bytes signed by the authenticator.
	Value []byte `json:"value"`

	// ExpiresAt is the passive expiry timestamp. There is no active timer;
	// expiry is checked at verification time.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge has passed its expiry time.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Issuer generates fresh challenges and records them in a ChallengeStore.
// Issuing a new challenge for a user invalidates any prior outstanding
// challenge for that user.
type Issuer struct {
	store ChallengeStore
	ttl   time.Duration
}

// NewIssuer creates a challenge issuer backed by the given store. A zero
// ttl falls back to 60 seconds.
func NewIssuer(store ChallengeStore, ttl time.Duration) *Issuer {
	if ttl == 0 {
		ttl = 60 * time.Second
	}
	return &Issuer{
		store: store,
		ttl:   ttl,
	}
}

// Issue generates a fresh random challenge for the user and stores it,
// replacing any outstanding challenge. Exhaustion of the random source is
// the only failure beyond store errors and is not recoverable.
func (i *Issuer) Issue(ctx context.Context, userID []byte) (*Challenge, error) {
	value := make([]byte, ChallengeLength)
	if _, err := rand.Read(value); err != nil {
		return nil, fmt.Errorf("challenge entropy source failed: %w", err)
	}

	challenge := &Challenge{
		ID:        uuid.NewString(),
		UserID:    userID,
		Value:     value,
		ExpiresAt: time.Now().Add(i.ttl),
	}

	if err := i.store.Put(ctx, challenge); err != nil {
		return nil, WrapError("store challenge", err)
	}

	return challenge, nil
}

// TTL returns the configured challenge lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
