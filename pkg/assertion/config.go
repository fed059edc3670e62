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
	"fmt"
	"net/url"
	"time"
)

// User verification requirements.
//
// https://www.w3.org/TR/webauthn-3/#enumdef-userverificationrequirement
const (
	VerificationRequired    = "required"
	VerificationPreferred   = "preferred"
	VerificationDiscouraged = "discouraged"
)

// Config configures the assertion service. It is passed in explicitly so
// multiple relying-party configurations can be served concurrently without
// process-global state.
type Config struct {
	// RPID is the Relying Party identifier, typically the domain name.
	// Example: "example.com"
	RPID string `json:"id"`

	// RPOrigins are the allowed origins for assertion ceremonies. Each must
	// be a full scheme+host+port origin, matched exactly.
	// Example: []string{"https://example.com", "https://www.example.com"}
	RPOrigins []string `json:"origins"`

	// ChallengeTTL is how long an issued challenge remains valid.
	// Default: 60 seconds.
	ChallengeTTL time.Duration `json:"challenge_ttl"`

	// UserVerification specifies the user verification requirement.
	// Options: "required", "preferred", "discouraged"
	// Default: "preferred"
	UserVerification string `json:"user_verification"`
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RPID == "" {
		return fmt.Errorf("RPID is required")
	}
	if len(c.RPOrigins) == 0 {
		return fmt.Errorf("at least one RPOrigin is required")
	}
	for _, origin := range c.RPOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid origin: %s", origin)
		}
	}

	switch c.UserVerification {
	case "", VerificationRequired, VerificationPreferred, VerificationDiscouraged:
		// Valid
	default:
		return fmt.Errorf("invalid user verification: %s", c.UserVerification)
	}

	return nil
}

// SetDefaults sets default values for unset configuration fields.
func (c *Config) SetDefaults() {
	if c.ChallengeTTL == 0 {
		c.ChallengeTTL = 60 * time.Second
	}
	if c.UserVerification == "" {
		c.UserVerification = VerificationPreferred
	}
}

// RelyingParty returns the verification expectations derived from the
// configuration.
func (c *Config) RelyingParty() RelyingParty {
	return RelyingParty{
		ID:                      c.RPID,
		Origins:                 c.RPOrigins,
		RequireUserVerification: c.UserVerification == VerificationRequired,
	}
}
