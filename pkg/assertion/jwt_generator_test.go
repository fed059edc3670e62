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
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTGenerator(t *testing.T) *JWTGenerator {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	gen, err := NewJWTGenerator(&JWTGeneratorConfig{PrivateKey: key})
	require.NoError(t, err)
	return gen
}

func TestNewJWTGeneratorDefaults(t *testing.T) {
	gen := newTestJWTGenerator(t)
	assert.Equal(t, "go-passkey", gen.Issuer())
	assert.Equal(t, time.Hour, gen.ExpiresIn())
	assert.NotNil(t, gen.PublicKey())
}

func TestNewJWTGeneratorInvalid(t *testing.T) {
	_, err := NewJWTGenerator(nil)
	assert.Error(t, err)

	_, err = NewJWTGenerator(&JWTGeneratorConfig{})
	assert.Error(t, err)

	_, err = NewJWTGenerator(&JWTGeneratorConfig{PrivateKey: "not a key"})
	assert.Error(t, err)
}

func TestJWTGenerateAndVerify(t *testing.T) {
	gen := newTestJWTGenerator(t)
	userID := []byte("user-1")

	token, err := gen.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := gen.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "go-passkey", claims["iss"])
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(userID), claims["sub"])
	assert.NotNil(t, claims["exp"])
}

func TestJWTGenerateAndVerifyEd25519(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	gen, err := NewJWTGenerator(&JWTGeneratorConfig{
		PrivateKey: priv,
		Issuer:     "auth.example.test",
		Audience:   []string{"api.example.test"},
		ExpiresIn:  5 * time.Minute,
		KeyID:      "key-1",
	})
	require.NoError(t, err)

	token, err := gen.GenerateToken(context.Background(), []byte("user-1"))
	require.NoError(t, err)

	claims, err := gen.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "auth.example.test", claims["iss"])
}

func TestJWTVerifyRejectsForeignToken(t *testing.T) {
	gen := newTestJWTGenerator(t)
	other := newTestJWTGenerator(t)

	token, err := other.GenerateToken(context.Background(), []byte("user-1"))
	require.NoError(t, err)

	_, err = gen.VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTVerifyRejectsGarbage(t *testing.T) {
	gen := newTestJWTGenerator(t)
	_, err := gen.VerifyToken("not.a.jwt")
	assert.Error(t, err)
}
