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
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"time"
)

// RelyingParty holds the verification expectations for one ceremony.
type RelyingParty struct {
	// ID is the relying party identifier the credential is scoped to,
	// typically the effective domain. Example: "login.example.com".
	ID string

	// Origins are the allowed client origins. The clientData origin must
	// match one of them exactly, scheme+host+port, case-sensitive.
	Origins []string

	// RequireUserVerification requires the UV flag in addition to UP.
	RequireUserVerification bool
}

// Verify runs the WebAuthn assertion verification algorithm against the
// decoded assertion, the outstanding challenge, and the stored credential.
// Steps run in strict order and short-circuit on the first failure, each
// mapped to a distinct rejection Reason.
//
// Verify is a pure computation: it performs no I/O and mutates nothing.
// The caller persists NewSignCount on success and invalidates the consumed
// challenge regardless of outcome. An expected rejection is returned as a
// tagged Result, never as an error; the error return is reserved for
// corrupt stored credential state.
//
// https://www.w3.org/TR/webauthn-3/#sctn-verifying-assertion
func Verify(a *Assertion, challenge *Challenge, rp RelyingParty, cred *Credential) (*Result, error) {
	// Step 1: the asserted credential ID must identify the stored
	// credential byte-for-byte, and the credential must belong to the user
	// the challenge was issued for. Without the ownership check, anyone
	// with their own registered credential could answer another user's
	// challenge and be issued that user's token.
	if !bytes.Equal(a.CredentialID, cred.ID) {
		return Reject(ReasonUnknownCredential), nil
	}
	if !bytes.Equal(cred.UserID, challenge.UserID) {
		return Reject(ReasonUnknownCredential), nil
	}

	// Step 2: parse client data; the ceremony tag must be "webauthn.get".
	// A registration response replayed against the login endpoint fails here.
	var clientData ClientData
	if err := json.Unmarshal(a.ClientDataJSON, &clientData); err != nil {
		return Reject(ReasonMalformedEncoding), nil
	}
	if clientData.Type != CeremonyTypeGet {
		return Reject(ReasonWrongCeremonyType), nil
	}

	// Step 3: the signed challenge must equal the issued one, compared in
	// constant time, and the challenge must still be live. Consumption is
	// the caller's concern; a consumed challenge never reaches Verify.
	if !clientData.Challenge.Equal(challenge.Value) {
		return Reject(ReasonChallengeMismatch), nil
	}
	if challenge.Expired(time.Now()) {
		return Reject(ReasonChallengeExpired), nil
	}

	// Step 4: exact origin match, no normalization beyond URL parsing on
	// the configured side.
	if !originAllowed(clientData.Origin, rp.Origins) {
		return Reject(ReasonOriginMismatch), nil
	}

	// Step 5: the authenticator must have scoped the assertion to our RP ID.
	authData, err := ParseAuthenticatorData(a.AuthenticatorData)
	if err != nil {
		return Reject(ReasonMalformedEncoding), nil
	}
	rpIDHash := sha256.Sum256([]byte(rp.ID))
	if subtle.ConstantTimeCompare(rpIDHash[:], authData.RPIDHash) != 1 {
		return Reject(ReasonRPIDMismatch), nil
	}

	// Step 6: user presence is mandatory; user verification when required.
	if !authData.Flags.UserPresent() {
		return Reject(ReasonUserNotPresentOrVerified), nil
	}
	if rp.RequireUserVerification && !authData.Flags.UserVerified() {
		return Reject(ReasonUserNotPresentOrVerified), nil
	}

	// Step 7: the signature covers authenticatorData || SHA-256(clientDataJSON),
	// verified with the algorithm the credential was registered with.
	pub, alg, err := ParseCOSEPublicKey(cred.PublicKey)
	if err != nil {
		return nil, NewError("parse stored public key", ErrInvalidCredential)
	}
	clientDataHash := sha256.Sum256(a.ClientDataJSON)
	signed := make([]byte, 0, len(a.AuthenticatorData)+len(clientDataHash))
	signed = append(signed, a.AuthenticatorData...)
	signed = append(signed, clientDataHash[:]...)
	if err := verifySignature(pub, alg, signed, a.Signature); err != nil {
		return Reject(ReasonSignatureInvalid), nil
	}

	// Step 8: the counter must move strictly forward. Both sides zero means
	// the authenticator has no counter, which is not a failure.
	if authData.SignCount != 0 || cred.SignCount != 0 {
		if authData.SignCount <= cred.SignCount {
			return Reject(ReasonCloneDetected), nil
		}
	}

	return Accept(authData.SignCount), nil
}

func originAllowed(origin string, allowed []string) bool {
	for _, o := range allowed {
		if origin == o {
			return true
		}
	}
	return false
}
