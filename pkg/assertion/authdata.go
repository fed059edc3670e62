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
	"encoding/binary"
	"fmt"
	"strings"
)

// authDataMinLength is rpIdHash(32) + flags(1) + signCount(4).
const authDataMinLength = 37

// Flags is the authenticator data flags byte.
//
// https://www.w3.org/TR/webauthn-3/#authdata-flags
type Flags byte

// UserPresent reports whether the authenticator performed a successful
// user presence test (bit 0).
func (f Flags) UserPresent() bool {
	return (byte(f) & 1) != 0
}

// UserVerified reports whether the authenticator performed additional user
// authorization such as a PIN or biometric check (bit 2).
func (f Flags) UserVerified() bool {
	return (byte(f) & (1 << 2)) != 0
}

// AttestedCredentialData reports whether attested credential data is
// present (bit 6). Assertions normally leave this unset.
func (f Flags) AttestedCredentialData() bool {
	return (byte(f) & (1 << 6)) != 0
}

// Extensions reports whether extension data follows the fixed fields (bit 7).
func (f Flags) Extensions() bool {
	return (byte(f) & (1 << 7)) != 0
}

// String returns a human readable representation of the flags.
func (f Flags) String() string {
	var vals []string
	if f.UserPresent() {
		vals = append(vals, "UP")
	}
	if f.UserVerified() {
		vals = append(vals, "UV")
	}
	if f.AttestedCredentialData() {
		vals = append(vals, "AT")
	}
	if f.Extensions() {
		vals = append(vals, "ED")
	}
	if len(vals) == 0 {
		return "Flags()"
	}
	return fmt.Sprintf("Flags(%s)", strings.Join(vals, "|"))
}

// AuthenticatorData is the parsed fixed-length prefix of the binary
// authenticator data structure. Ephemeral; exists only for one
// verification call.
//
// https://www.w3.org/TR/webauthn-3/#sctn-authenticator-data
type AuthenticatorData struct {
	// RPIDHash is the SHA-256 hash of the RP ID the assertion is scoped to.
	RPIDHash []byte

	// Flags carries the UP/UV/AT/ED bits.
	Flags Flags

	// SignCount is the 32-bit big-endian signature counter.
	SignCount uint32

	// Extensions holds any trailing extension bytes, unparsed.
	Extensions []byte
}

// ParseAuthenticatorData parses the fixed fields of authenticator data:
// rpIdHash(32) || flags(1) || signCount(4) || trailing bytes.
func ParseAuthenticatorData(b []byte) (*AuthenticatorData, error) {
	if len(b) < authDataMinLength {
		return nil, fmt.Errorf("authenticator data too short: %d bytes, need %d", len(b), authDataMinLength)
	}

	ad := &AuthenticatorData{
		RPIDHash:  b[:32],
		Flags:     Flags(b[32]),
		SignCount: binary.BigEndian.Uint32(b[33:37]),
	}
	if len(b) > authDataMinLength {
		ad.Extensions = b[authDataMinLength:]
	}
	return ad, nil
}
