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
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeremyhahn/go-passkey/pkg/metrics"
)

// Service orchestrates authentication ceremonies: challenge issuance,
// assertion verification, and the two post-verification mutations (counter
// update, challenge invalidation).
type Service struct {
	config     *Config
	issuer     *Issuer
	creds      CredentialStore
	challenges ChallengeStore
	tokenGen   TokenGenerator // optional
	logger     *slog.Logger
	configured bool
}

// ServiceParams contains dependencies for creating an assertion service.
type ServiceParams struct {
	// Config is the relying-party configuration (required).
	Config *Config

	// CredentialStore is the credential persistence layer (required).
	CredentialStore CredentialStore

	// ChallengeStore is the pending-challenge persistence layer (required).
	ChallengeStore ChallengeStore

	// TokenGenerator is an optional token generator for post-auth tokens.
	// If nil, the service returns the base64url-encoded user ID after auth.
	TokenGenerator TokenGenerator

	// Logger is an optional structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewService creates a new assertion service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.CredentialStore == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if params.ChallengeStore == nil {
		return nil, fmt.Errorf("challenge store is required")
	}

	// Set defaults and validate
	params.Config.SetDefaults()
	if err := params.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		config:     params.Config,
		issuer:     NewIssuer(params.ChallengeStore, params.Config.ChallengeTTL),
		creds:      params.CredentialStore,
		challenges: params.ChallengeStore,
		tokenGen:   params.TokenGenerator,
		logger:     logger,
		configured: true,
	}, nil
}

// BeginLogin starts an authentication ceremony for a user. It issues a
// fresh challenge (invalidating any prior outstanding one) and returns the
// request options to hand to the browser credential API.
func (s *Service) BeginLogin(ctx context.Context, userID []byte) (*RequestOptions, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	creds, err := s.creds.GetByUserID(ctx, userID)
	if err != nil {
		return nil, WrapError("get credentials", err)
	}
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	challenge, err := s.issuer.Issue(ctx, userID)
	if err != nil {
		return nil, WrapError("issue challenge", err)
	}

	metrics.RecordChallengeIssued()
	s.logger.Debug("issued assertion challenge",
		"challenge_id", challenge.ID,
		"credentials", len(creds))

	options := EncodeRequestOptions(
		challenge,
		s.config.RPID,
		s.config.ChallengeTTL,
		s.config.UserVerification,
		creds,
	)
	return options, nil
}

// FinishLogin completes an authentication ceremony. The challenge is
// consumed before verification runs, success or failure, so a failed
// attempt can never be retried with the same challenge.
//
// On acceptance the new sign counter is persisted and a token is returned.
// Any verification rejection comes back as ErrVerificationFailed with no
// indication of which check failed; the reason is logged and counted only.
// Malformed wire envelopes surface as ErrMalformedEncoding, store failures
// as wrapped errors for the transport layer to retry.
func (s *Service) FinishLogin(ctx context.Context, userID []byte, resp *CredentialAssertionResponse) (string, error) {
	if !s.configured {
		return "", ErrNotConfigured
	}

	start := time.Now()

	// Single-use: take the challenge out of the store before anything can
	// fail, so replay probing with a consumed challenge finds nothing.
	challenge, err := s.challenges.Take(ctx, userID)
	if err != nil {
		if IsChallengeNotFound(err) {
			return "", s.reject(start, ReasonChallengeExpired, "no outstanding challenge")
		}
		return "", WrapError("take challenge", err)
	}

	a, err := DecodeAssertionResponse(resp)
	if err != nil {
		metrics.RecordVerification(metrics.StatusError, ReasonMalformedEncoding.String(), time.Since(start))
		return "", err
	}

	cred, err := s.creds.GetByCredentialID(ctx, a.CredentialID)
	if err != nil {
		if IsCredentialNotFound(err) {
			return "", s.reject(start, ReasonUnknownCredential, "credential not registered")
		}
		return "", WrapError("get credential", err)
	}

	result, err := Verify(a, challenge, s.config.RelyingParty(), cred)
	if err != nil {
		return "", WrapError("verify assertion", err)
	}
	if !result.Accepted {
		return "", s.reject(start, result.Reason, "assertion rejected")
	}

	if err := s.creds.UpdateSignCount(ctx, cred.ID, result.NewSignCount); err != nil {
		return "", WrapError("update sign count", err)
	}

	metrics.RecordVerification(metrics.StatusSuccess, ReasonNone.String(), time.Since(start))
	s.logger.Info("assertion accepted",
		"challenge_id", challenge.ID,
		"sign_count", result.NewSignCount)

	return s.generateToken(ctx, userID)
}

// GetCredentials retrieves all credentials for a user.
func (s *Service) GetCredentials(ctx context.Context, userID []byte) ([]*Credential, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}
	return s.creds.GetByUserID(ctx, userID)
}

// RegisterCredential stores a credential produced by an out-of-band
// registration ceremony. The attestation ceremony itself is outside this
// package's scope.
func (s *Service) RegisterCredential(ctx context.Context, cred *Credential) error {
	if !s.configured {
		return ErrNotConfigured
	}
	if len(cred.ID) == 0 || len(cred.PublicKey) == 0 {
		return ErrInvalidCredential
	}
	if _, _, err := ParseCOSEPublicKey(cred.PublicKey); err != nil {
		return WrapError("register credential", ErrInvalidCredential)
	}
	return s.creds.Save(ctx, cred)
}

// Config returns the service configuration.
func (s *Service) Config() *Config {
	return s.config
}

// reject logs and counts a verification rejection, then returns the
// generic client-facing failure.
func (s *Service) reject(start time.Time, reason Reason, msg string) error {
	metrics.RecordVerification(metrics.StatusError, reason.String(), time.Since(start))
	s.logger.Warn("assertion rejected",
		"reason", reason.String(),
		"detail", msg)
	return ErrVerificationFailed
}

// generateToken creates a token for the authenticated user.
func (s *Service) generateToken(ctx context.Context, userID []byte) (string, error) {
	if s.tokenGen != nil {
		token, err := s.tokenGen.GenerateToken(ctx, userID)
		if err != nil {
			return "", WrapError("generate token", err)
		}
		return token, nil
	}
	// Default: return base64-encoded user ID
	return base64.RawURLEncoding.EncodeToString(userID), nil
}
