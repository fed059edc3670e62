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

// Package assertion implements the server side of the WebAuthn (FIDO2)
// authentication ceremony: challenge issuance, assertion decoding, and
// native verification of signed assertions against stored credentials.
//
// Unlike wrapper packages that delegate to a monolithic WebAuthn helper
// library, the verification algorithm here is written out directly against
// the W3C specification using ordinary crypto primitives. Only COSE key
// decoding pulls in a third-party codec (fxamacker/cbor).
//
// # Architecture
//
//  1. Issuer - generates single-use challenges bound to a user
//  2. Codec (codec.go) - translates the base64url JSON wire envelope
//  3. Verify (verifier.go) - the ceremony verification algorithm
//  4. Service - orchestrates a full ceremony against pluggable stores
//  5. HTTP layer (pkg/assertion/http) - composable chi handlers
//
// # Usage
//
// Basic usage with in-memory storage (for development):
//
//	svc, err := assertion.NewService(assertion.ServiceParams{
//	    Config: &assertion.Config{
//	        RPID:      "login.example.com",
//	        RPOrigins: []string{"https://login.example.com"},
//	    },
//	    CredentialStore: assertion.NewMemoryCredentialStore(),
//	    ChallengeStore:  assertion.NewMemoryChallengeStore(),
//	})
//
// For production, implement CredentialStore and ChallengeStore with your
// database. Any keyed store satisfies the contracts.
//
// # Specification Compliance
//
// The verification steps follow the W3C Web Authentication specification,
// section 7.2 (Verifying an Authentication Assertion):
//   - https://www.w3.org/TR/webauthn-3/#sctn-verifying-assertion
//
// The registration (attestation) ceremony is intentionally not implemented;
// credentials enter the store through CredentialStore.Save.
package assertion
