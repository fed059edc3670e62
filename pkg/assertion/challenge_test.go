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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerIssue(t *testing.T) {
	store := NewMemoryChallengeStore()
	issuer := NewIssuer(store, 30*time.Second)
	userID := []byte("user-1")

	before := time.Now()
	challenge, err := issuer.Issue(context.Background(), userID)
	require.NoError(t, err)

	assert.NotEmpty(t, challenge.ID)
	assert.Equal(t, userID, challenge.UserID)
	assert.Len(t, challenge.Value, ChallengeLength)
	assert.False(t, challenge.Expired(before))
	assert.WithinDuration(t, before.Add(30*time.Second), challenge.ExpiresAt, time.Second)
	assert.Equal(t, 1, store.Count())
}

func TestIssuerDefaultTTL(t *testing.T) {
	issuer := NewIssuer(NewMemoryChallengeStore(), 0)
	assert.Equal(t, 60*time.Second, issuer.TTL())
}

func TestIssuerReplacesOutstandingChallenge(t *testing.T) {
	store := NewMemoryChallengeStore()
	issuer := NewIssuer(store, time.Minute)
	userID := []byte("user-1")
	ctx := context.Background()

	first, err := issuer.Issue(ctx, userID)
	require.NoError(t, err)
	second, err := issuer.Issue(ctx, userID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Value, second.Value)
	assert.Equal(t, 1, store.Count())

	// Only the most recent challenge survives.
	taken, err := store.Take(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.Value, taken.Value)
}

func TestIssuerUniqueValues(t *testing.T) {
	issuer := NewIssuer(NewMemoryChallengeStore(), time.Minute)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c, err := issuer.Issue(ctx, []byte{byte(i)})
		require.NoError(t, err)
		key := string(c.Value)
		assert.False(t, seen[key], "duplicate challenge value")
		seen[key] = true
	}
}

func TestChallengeExpired(t *testing.T) {
	challenge := &Challenge{ExpiresAt: time.Now()}
	assert.False(t, challenge.Expired(challenge.ExpiresAt.Add(-time.Second)))
	assert.True(t, challenge.Expired(challenge.ExpiresAt.Add(time.Second)))
}
