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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid",
			config: Config{
				RPID:      "example.test",
				RPOrigins: []string{"https://example.test"},
			},
		},
		{
			name: "multiple origins",
			config: Config{
				RPID:      "example.test",
				RPOrigins: []string{"https://example.test", "https://www.example.test:8443"},
			},
		},
		{
			name: "missing RPID",
			config: Config{
				RPOrigins: []string{"https://example.test"},
			},
			wantErr: true,
		},
		{
			name: "no origins",
			config: Config{
				RPID: "example.test",
			},
			wantErr: true,
		},
		{
			name: "origin without scheme",
			config: Config{
				RPID:      "example.test",
				RPOrigins: []string{"example.test"},
			},
			wantErr: true,
		},
		{
			name: "invalid user verification",
			config: Config{
				RPID:             "example.test",
				RPOrigins:        []string{"https://example.test"},
				UserVerification: "maybe",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	assert.Equal(t, 60*time.Second, cfg.ChallengeTTL)
	assert.Equal(t, VerificationPreferred, cfg.UserVerification)

	// Explicit values are left alone.
	cfg = &Config{ChallengeTTL: 5 * time.Minute, UserVerification: VerificationRequired}
	cfg.SetDefaults()
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, VerificationRequired, cfg.UserVerification)
}

func TestConfigRelyingParty(t *testing.T) {
	cfg := &Config{
		RPID:             "example.test",
		RPOrigins:        []string{"https://example.test"},
		UserVerification: VerificationRequired,
	}

	rp := cfg.RelyingParty()
	assert.Equal(t, "example.test", rp.ID)
	assert.Equal(t, cfg.RPOrigins, rp.Origins)
	assert.True(t, rp.RequireUserVerification)

	cfg.UserVerification = VerificationPreferred
	assert.False(t, cfg.RelyingParty().RequireUserVerification)
}
