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
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// PublicKeyCredentialType is the only credential type defined by WebAuthn.
const PublicKeyCredentialType = "public-key"

// CeremonyTypeGet is the clientData type tag for authentication ceremonies.
// Registration uses "webauthn.create", which this package rejects.
const CeremonyTypeGet = "webauthn.get"

// CredentialAssertionResponse is the JSON wire envelope returned by the
// browser credential API for navigator.credentials.get(). All binary
// fields are unpadded base64url.
type CredentialAssertionResponse struct {
	// ID is the base64url credential ID.
	ID string `json:"id"`

	// RawID is the base64url credential ID. Browsers send both; they must
	// decode to the same bytes.
	RawID string `json:"rawId"`

	// Type is always "public-key".
	Type string `json:"type"`

	// Response carries the authenticator output.
	Response AuthenticatorAssertionResponse `json:"response"`
}

// AuthenticatorAssertionResponse is the inner response object of the wire
// envelope.
type AuthenticatorAssertionResponse struct {
	AuthenticatorData string `json:"authenticatorData"`
	ClientDataJSON    string `json:"clientDataJSON"`
	Signature         string `json:"signature"`
	UserHandle        string `json:"userHandle,omitempty"`
}

// Assertion holds the decoded binary fields of a wire envelope, ready for
// verification. The verifier operates purely on these bytes and never
// touches the wire encoding.
type Assertion struct {
	// CredentialID is the decoded rawId.
	CredentialID []byte

	// ClientDataJSON is the serialized client data, exactly as signed.
	ClientDataJSON []byte

	// AuthenticatorData is the raw authenticator data structure.
	AuthenticatorData []byte

	// Signature covers AuthenticatorData || SHA-256(ClientDataJSON).
	Signature []byte

	// UserHandle is the optional user handle for discoverable credentials.
	UserHandle []byte
}

// DecodeAssertionResponse decodes the base64url fields of a wire envelope
// into an Assertion. Returns ErrMalformedEncoding if any required field is
// empty or not valid unpadded base64url.
func DecodeAssertionResponse(resp *CredentialAssertionResponse) (*Assertion, error) {
	if resp == nil {
		return nil, NewError("decode assertion", ErrMalformedEncoding)
	}
	if resp.Type != "" && resp.Type != PublicKeyCredentialType {
		return nil, NewError(fmt.Sprintf("decode assertion: type %q", resp.Type), ErrMalformedEncoding)
	}

	credID, err := decodeField("rawId", resp.RawID)
	if err != nil {
		return nil, err
	}
	authData, err := decodeField("authenticatorData", resp.Response.AuthenticatorData)
	if err != nil {
		return nil, err
	}
	clientDataJSON, err := decodeField("clientDataJSON", resp.Response.ClientDataJSON)
	if err != nil {
		return nil, err
	}
	sig, err := decodeField("signature", resp.Response.Signature)
	if err != nil {
		return nil, err
	}

	a := &Assertion{
		CredentialID:      credID,
		ClientDataJSON:    clientDataJSON,
		AuthenticatorData: authData,
		Signature:         sig,
	}

	// userHandle is optional
	if resp.Response.UserHandle != "" {
		userHandle, err := base64.RawURLEncoding.DecodeString(resp.Response.UserHandle)
		if err != nil {
			return nil, NewError("decode userHandle", ErrMalformedEncoding)
		}
		a.UserHandle = userHandle
	}

	return a, nil
}

// EncodeAssertionResponse is the inverse of DecodeAssertionResponse. It is
// used by simulated authenticators and round-trip tests.
func EncodeAssertionResponse(a *Assertion) *CredentialAssertionResponse {
	credID := base64.RawURLEncoding.EncodeToString(a.CredentialID)
	resp := &CredentialAssertionResponse{
		ID:    credID,
		RawID: credID,
		Type:  PublicKeyCredentialType,
		Response: AuthenticatorAssertionResponse{
			AuthenticatorData: base64.RawURLEncoding.EncodeToString(a.AuthenticatorData),
			ClientDataJSON:    base64.RawURLEncoding.EncodeToString(a.ClientDataJSON),
			Signature:         base64.RawURLEncoding.EncodeToString(a.Signature),
		},
	}
	if len(a.UserHandle) > 0 {
		resp.Response.UserHandle = base64.RawURLEncoding.EncodeToString(a.UserHandle)
	}
	return resp
}

func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, NewError(fmt.Sprintf("decode %s: empty", name), ErrMalformedEncoding)
	}
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, NewError(fmt.Sprintf("decode %s", name), ErrMalformedEncoding)
	}
	return b, nil
}

// CredentialDescriptor identifies one allowed credential in outgoing
// request options.
//
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialdescriptor
type CredentialDescriptor struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Transports []string `json:"transports,omitempty"`
}

// RequestOptions is the outgoing wire form of assertion options, the
// server half of the ceremony handed to the browser credential API.
//
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialrequestoptions
type RequestOptions struct {
	// Challenge is the base64url challenge value to be signed.
	Challenge string `json:"challenge"`

	// RPID is the relying party identifier the credential is scoped to.
	RPID string `json:"rpId"`

	// Timeout is the ceremony timeout in milliseconds.
	Timeout int64 `json:"timeout"`

	// AllowCredentials lists the credential IDs the user may assert with.
	AllowCredentials []CredentialDescriptor `json:"allowCredentials"`

	// UserVerification is the verification requirement hint.
	UserVerification string `json:"userVerification,omitempty"`
}

// EncodeRequestOptions builds the outgoing options envelope from an issued
// challenge and the user's registered credentials.
func EncodeRequestOptions(challenge *Challenge, rpID string, timeout time.Duration, userVerification string, creds []*Credential) *RequestOptions {
	allowed := make([]CredentialDescriptor, len(creds))
	for i, cred := range creds {
		allowed[i] = CredentialDescriptor{
			Type:       PublicKeyCredentialType,
			ID:         base64.RawURLEncoding.EncodeToString(cred.ID),
			Transports: cred.Transports,
		}
	}

	return &RequestOptions{
		Challenge:        base64.RawURLEncoding.EncodeToString(challenge.Value),
		RPID:             rpID,
		Timeout:          timeout.Milliseconds(),
		AllowCredentials: allowed,
		UserVerification: userVerification,
	}
}

// clientDataChallenge is the base64url challenge member of clientDataJSON.
type clientDataChallenge []byte

// Equal compares the challenge value in constant time.
func (c clientDataChallenge) Equal(b []byte) bool {
	return subtle.ConstantTimeCompare([]byte(c), b) == 1
}

// UnmarshalJSON implements the challenge encoding used by clientDataJSON.
func (c *clientDataChallenge) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("challenge value doesn't parse into string: %v", err)
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	*c = clientDataChallenge(data)
	return nil
}

// MarshalJSON emits the base64url form.
func (c clientDataChallenge) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.RawURLEncoding.EncodeToString(c))
}
