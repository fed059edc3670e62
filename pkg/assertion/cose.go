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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// Algorithm is a COSE algorithm identifier, tagging both the public key
// scheme and the hash function used for signing.
//
// https://www.iana.org/assignments/cose/cose.xhtml#algorithms
type Algorithm int64

// The set of algorithms recognized and supported by this package.
const (
	ES256 Algorithm = -7
	EdDSA Algorithm = -8
	ES384 Algorithm = -35
	ES512 Algorithm = -36
	RS256 Algorithm = -257
)

var algStrings = map[Algorithm]string{
	ES256: "ES256",
	EdDSA: "EdDSA",
	ES384: "ES384",
	ES512: "ES512",
	RS256: "RS256",
}

// String returns a human readable representation of the algorithm.
func (a Algorithm) String() string {
	if s, ok := algStrings[a]; ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", int64(a))
}

// COSE key types.
//
// https://www.iana.org/assignments/cose/cose.xhtml#key-type
const (
	coseKeyTypeOKP int64 = 1
	coseKeyTypeEC2 int64 = 2
	coseKeyTypeRSA int64 = 3
)

// COSE elliptic curve identifiers.
const (
	coseCurveP256    int64 = 1
	coseCurveP384    int64 = 2
	coseCurveP521    int64 = 3
	coseCurveEd25519 int64 = 6
)

// coseKeyHeader carries the fields common to every COSE_Key.
type coseKeyHeader struct {
	KeyType   int64 `cbor:"1,keyasint"`
	Algorithm int64 `cbor:"3,keyasint"`
}

// ec2PublicKeyData holds the EC2-specific COSE_Key members.
type ec2PublicKeyData struct {
	Curve  int64  `cbor:"-1,keyasint"`
	XCoord []byte `cbor:"-2,keyasint"`
	YCoord []byte `cbor:"-3,keyasint"`
}

// okpPublicKeyData holds the OKP-specific COSE_Key members.
type okpPublicKeyData struct {
	Curve  int64  `cbor:"-1,keyasint"`
	XCoord []byte `cbor:"-2,keyasint"`
}

// rsaPublicKeyData holds the RSA-specific COSE_Key members.
type rsaPublicKeyData struct {
	Modulus  []byte `cbor:"-1,keyasint"`
	Exponent []byte `cbor:"-2,keyasint"`
}

// ParseCOSEPublicKey decodes an algorithm-tagged COSE_Key into a standard
// library public key plus its signing algorithm.
//
// https://www.w3.org/TR/webauthn-3/#sctn-encoded-credPubKey-examples
func ParseCOSEPublicKey(b []byte) (crypto.PublicKey, Algorithm, error) {
	var header coseKeyHeader
	if err := cbor.Unmarshal(b, &header); err != nil {
		return nil, 0, fmt.Errorf("parsing COSE key: %w", err)
	}

	alg := Algorithm(header.Algorithm)

	switch header.KeyType {
	case coseKeyTypeEC2:
		var key ec2PublicKeyData
		if err := cbor.Unmarshal(b, &key); err != nil {
			return nil, 0, fmt.Errorf("parsing EC2 key: %w", err)
		}
		var curve elliptic.Curve
		switch key.Curve {
		case coseCurveP256:
			curve = elliptic.P256()
		case coseCurveP384:
			curve = elliptic.P384()
		case coseCurveP521:
			curve = elliptic.P521()
		default:
			return nil, 0, fmt.Errorf("unsupported EC2 curve: %d", key.Curve)
		}
		pub := &ecdsa.PublicKey{
			Curve: curve,
			X:     new(big.Int).SetBytes(key.XCoord),
			Y:     new(big.Int).SetBytes(key.YCoord),
		}
		return pub, alg, nil

	case coseKeyTypeOKP:
		var key okpPublicKeyData
		if err := cbor.Unmarshal(b, &key); err != nil {
			return nil, 0, fmt.Errorf("parsing OKP key: %w", err)
		}
		if key.Curve != coseCurveEd25519 {
			return nil, 0, fmt.Errorf("unsupported OKP curve: %d", key.Curve)
		}
		if len(key.XCoord) != ed25519.PublicKeySize {
			return nil, 0, fmt.Errorf("invalid Ed25519 key length: %d", len(key.XCoord))
		}
		return ed25519.PublicKey(key.XCoord), alg, nil

	case coseKeyTypeRSA:
		var key rsaPublicKeyData
		if err := cbor.Unmarshal(b, &key); err != nil {
			return nil, 0, fmt.Errorf("parsing RSA key: %w", err)
		}
		pub := &rsa.PublicKey{
			N: new(big.Int).SetBytes(key.Modulus),
			E: int(new(big.Int).SetBytes(key.Exponent).Int64()),
		}
		return pub, alg, nil

	default:
		return nil, 0, fmt.Errorf("unsupported COSE key type: %d", header.KeyType)
	}
}

// MarshalCOSEPublicKey encodes a public key as a COSE_Key. Used by the
// simulated authenticator and registration tooling.
func MarshalCOSEPublicKey(pub crypto.PublicKey) ([]byte, error) {
	switch key := pub.(type) {
	case *ecdsa.PublicKey:
		var crv int64
		var alg Algorithm
		byteLen := (key.Curve.Params().BitSize + 7) / 8
		switch key.Curve {
		case elliptic.P256():
			crv, alg = coseCurveP256, ES256
		case elliptic.P384():
			crv, alg = coseCurveP384, ES384
		case elliptic.P521():
			crv, alg = coseCurveP521, ES512
		default:
			return nil, fmt.Errorf("unsupported ECDSA curve: %s", key.Curve.Params().Name)
		}
		return cbor.Marshal(map[int64]interface{}{
			1:  coseKeyTypeEC2,
			3:  int64(alg),
			-1: crv,
			-2: key.X.FillBytes(make([]byte, byteLen)),
			-3: key.Y.FillBytes(make([]byte, byteLen)),
		})

	case ed25519.PublicKey:
		return cbor.Marshal(map[int64]interface{}{
			1:  coseKeyTypeOKP,
			3:  int64(EdDSA),
			-1: coseCurveEd25519,
			-2: []byte(key),
		})

	case *rsa.PublicKey:
		return cbor.Marshal(map[int64]interface{}{
			1:  coseKeyTypeRSA,
			3:  int64(RS256),
			-1: key.N.Bytes(),
			-2: big.NewInt(int64(key.E)).Bytes(),
		})

	default:
		return nil, fmt.Errorf("unsupported public key type: %T", pub)
	}
}

// verifySignature checks sig over data with the algorithm the credential
// was registered with. ECDSA signatures are ASN.1 DER as required by
// WebAuthn.
func verifySignature(pub crypto.PublicKey, alg Algorithm, data, sig []byte) error {
	switch alg {
	case ES256:
		ecdsaPub, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return fmt.Errorf("invalid public key type for ES256: %T", pub)
		}
		digest := sha256.Sum256(data)
		if !ecdsa.VerifyASN1(ecdsaPub, digest[:], sig) {
			return fmt.Errorf("invalid ES256 signature")
		}
	case ES384:
		ecdsaPub, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return fmt.Errorf("invalid public key type for ES384: %T", pub)
		}
		digest := sha512.Sum384(data)
		if !ecdsa.VerifyASN1(ecdsaPub, digest[:], sig) {
			return fmt.Errorf("invalid ES384 signature")
		}
	case ES512:
		ecdsaPub, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return fmt.Errorf("invalid public key type for ES512: %T", pub)
		}
		digest := sha512.Sum512(data)
		if !ecdsa.VerifyASN1(ecdsaPub, digest[:], sig) {
			return fmt.Errorf("invalid ES512 signature")
		}
	case EdDSA:
		edPub, ok := pub.(ed25519.PublicKey)
		if !ok {
			return fmt.Errorf("invalid public key type for EdDSA: %T", pub)
		}
		if !ed25519.Verify(edPub, data, sig) {
			return fmt.Errorf("invalid EdDSA signature")
		}
	case RS256:
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return fmt.Errorf("invalid public key type for RS256: %T", pub)
		}
		digest := sha256.Sum256(data)
		if err := rsa.VerifyPKCS1v15(rsaPub, crypto.SHA256, digest[:], sig); err != nil {
			return fmt.Errorf("invalid RS256 signature: %v", err)
		}
	default:
		return fmt.Errorf("unsupported signing algorithm: %d", alg)
	}
	return nil
}
