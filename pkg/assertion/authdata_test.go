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
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAuthData(rpID string, flags byte, signCount uint32, extensions []byte) []byte {
	hash := sha256.Sum256([]byte(rpID))
	b := make([]byte, 0, authDataMinLength+len(extensions))
	b = append(b, hash[:]...)
	b = append(b, flags)
	b = binary.BigEndian.AppendUint32(b, signCount)
	return append(b, extensions...)
}

func TestParseAuthenticatorData(t *testing.T) {
	raw := buildAuthData("example.test", 0x05, 42, nil)

	ad, err := ParseAuthenticatorData(raw)
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("example.test"))
	assert.Equal(t, hash[:], ad.RPIDHash)
	assert.True(t, ad.Flags.UserPresent())
	assert.True(t, ad.Flags.UserVerified())
	assert.False(t, ad.Flags.AttestedCredentialData())
	assert.False(t, ad.Flags.Extensions())
	assert.Equal(t, uint32(42), ad.SignCount)
	assert.Nil(t, ad.Extensions)
}

func TestParseAuthenticatorDataExtensions(t *testing.T) {
	ext := []byte{0xa0}
	ad, err := ParseAuthenticatorData(buildAuthData("example.test", 0x81, 0, ext))
	require.NoError(t, err)
	assert.True(t, ad.Flags.Extensions())
	assert.Equal(t, ext, ad.Extensions)
}

func TestParseAuthenticatorDataTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 36} {
		_, err := ParseAuthenticatorData(make([]byte, n))
		assert.Error(t, err, "length %d", n)
	}
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		flags Flags
		want  string
	}{
		{flags: 0x00, want: "Flags()"},
		{flags: 0x01, want: "Flags(UP)"},
		{flags: 0x05, want: "Flags(UP|UV)"},
		{flags: 0xc5, want: "Flags(UP|UV|AT|ED)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.flags.String())
	}
}
