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
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"
)

// MockKeyType selects the key algorithm for a mock authenticator.
type MockKeyType int

// Key types supported by the mock authenticator.
const (
	MockKeyES256 MockKeyType = iota
	MockKeyEd25519
)

// MockAuthenticator simulates a client-held authenticator for testing. It
// produces real signed wire envelopes that the verifier accepts, and can
// be bent out of shape (flags, counters, origins) to exercise every
// rejection path.
type MockAuthenticator struct {
	// CredentialID is the credential identifier.
	CredentialID []byte

	// SignCount is the current signature counter for clone detection.
	SignCount uint32

	// UserPresent indicates whether the UP flag should be set.
	UserPresent bool

	// UserVerified indicates whether the UV flag should be set.
	UserVerified bool

	keyType    MockKeyType
	ecdsaKey   *ecdsa.PrivateKey
	ed25519Key ed25519.PrivateKey
	rpIDHash   [32]byte
}

// MockAuthenticatorOption is a functional option for configuring a MockAuthenticator.
type MockAuthenticatorOption func(*MockAuthenticator)

// WithCredentialID sets a custom credential ID.
func WithCredentialID(credID []byte) MockAuthenticatorOption {
	return func(m *MockAuthenticator) {
		m.CredentialID = credID
	}
}

// WithSignCount sets the initial sign count.
func WithSignCount(count uint32) MockAuthenticatorOption {
	return func(m *MockAuthenticator) {
		m.SignCount = count
	}
}

// WithUserPresent sets the UP flag.
func WithUserPresent(up bool) MockAuthenticatorOption {
	return func(m *MockAuthenticator) {
		m.UserPresent = up
	}
}

// WithUserVerified sets the UV flag.
func WithUserVerified(uv bool) MockAuthenticatorOption {
	return func(m *MockAuthenticator) {
		m.UserVerified = uv
	}
}

// WithKeyType selects the signing key algorithm.
func WithKeyType(kt MockKeyType) MockAuthenticatorOption {
	return func(m *MockAuthenticator) {
		m.keyType = kt
	}
}

// NewMockAuthenticator creates a new mock authenticator scoped to the
// given RP ID.
func NewMockAuthenticator(rpID string, opts ...MockAuthenticatorOption) (*MockAuthenticator, error) {
	credID := make([]byte, 32)
	if _, err := rand.Read(credID); err != nil {
		return nil, err
	}

	m := &MockAuthenticator{
		CredentialID: credID,
		SignCount:    0,
		UserPresent:  true,
		UserVerified: true,
		rpIDHash:     sha256.Sum256([]byte(rpID)),
	}

	for _, opt := range opts {
		opt(m)
	}

	switch m.keyType {
	case MockKeyES256:
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, err
		}
		m.ecdsaKey = key
	case MockKeyEd25519:
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		m.ed25519Key = key
	default:
		return nil, fmt.Errorf("unsupported mock key type: %d", m.keyType)
	}

	return m, nil
}

// PublicKeyCOSE returns the public key in COSE format, as a registered
// credential record would hold it.
func (m *MockAuthenticator) PublicKeyCOSE() ([]byte, error) {
	switch m.keyType {
	case MockKeyES256:
		return MarshalCOSEPublicKey(m.ecdsaKey.Public())
	case MockKeyEd25519:
		return MarshalCOSEPublicKey(m.ed25519Key.Public().(ed25519.PublicKey))
	}
	return nil, fmt.Errorf("unsupported mock key type: %d", m.keyType)
}

// Credential builds the stored credential record matching this
// authenticator, with the given stored sign count.
func (m *MockAuthenticator) Credential(userID []byte, storedSignCount uint32) (*Credential, error) {
	pub, err := m.PublicKeyCOSE()
	if err != nil {
		return nil, err
	}
	return &Credential{
		ID:         m.CredentialID,
		UserID:     userID,
		PublicKey:  pub,
		SignCount:  storedSignCount,
		Transports: []string{"usb"},
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Assert produces a signed wire envelope for the given challenge and
// origin, incrementing the sign counter first as a real authenticator
// would.
func (m *MockAuthenticator) Assert(challenge []byte, origin string) (*CredentialAssertionResponse, error) {
	m.SignCount++
	return m.AssertWithCount(challenge, origin, m.SignCount)
}

// AssertWithCount is like Assert but signs with an explicit counter value,
// useful for exercising clone detection.
func (m *MockAuthenticator) AssertWithCount(challenge []byte, origin string, signCount uint32) (*CredentialAssertionResponse, error) {
	authData := m.buildAuthenticatorData(signCount)
	clientDataJSON := m.buildClientDataJSON(challenge, origin)
	clientDataHash := sha256.Sum256(clientDataJSON)

	signed := append(append([]byte{}, authData...), clientDataHash[:]...)
	signature, err := m.sign(signed)
	if err != nil {
		return nil, err
	}

	return EncodeAssertionResponse(&Assertion{
		CredentialID:      m.CredentialID,
		ClientDataJSON:    clientDataJSON,
		AuthenticatorData: authData,
		Signature:         signature,
	}), nil
}

// buildAuthenticatorData builds rpIdHash || flags || signCount.
func (m *MockAuthenticator) buildAuthenticatorData(signCount uint32) []byte {
	var buf bytes.Buffer

	buf.Write(m.rpIDHash[:])

	var flags byte
	if m.UserPresent {
		flags |= 0x01 // UP
	}
	if m.UserVerified {
		flags |= 0x04 // UV
	}
	buf.WriteByte(flags)

	countBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(countBytes, signCount)
	buf.Write(countBytes)

	return buf.Bytes()
}

// buildClientDataJSON builds the client data payload for "webauthn.get".
func (m *MockAuthenticator) buildClientDataJSON(challenge []byte, origin string) []byte {
	clientData := struct {
		Type      string `json:"type"`
		Challenge string `json:"challenge"`
		Origin    string `json:"origin"`
	}{
		Type:      CeremonyTypeGet,
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
		Origin:    origin,
	}

	jsonBytes, _ := json.Marshal(clientData)
	return jsonBytes
}

// sign creates a signature over the data with the authenticator's key.
func (m *MockAuthenticator) sign(data []byte) ([]byte, error) {
	switch m.keyType {
	case MockKeyES256:
		digest := sha256.Sum256(data)
		return ecdsa.SignASN1(rand.Reader, m.ecdsaKey, digest[:])
	case MockKeyEd25519:
		return m.ed25519Key.Sign(rand.Reader, data, crypto.Hash(0))
	}
	return nil, fmt.Errorf("unsupported mock key type: %d", m.keyType)
}
