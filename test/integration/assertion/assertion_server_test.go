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

//go:build integration

package assertion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-passkey/pkg/assertion"
	assertionhttp "github.com/jeremyhahn/go-passkey/pkg/assertion/http"
)

const (
	rpID   = "localhost"
	origin = "http://localhost:3000"
)

// startServer runs the assertion endpoints on a real listener with one
// registered credential.
func startServer(t *testing.T) (*httptest.Server, *assertion.MockAuthenticator, string) {
	t.Helper()

	svc, err := assertion.NewService(assertion.ServiceParams{
		Config: &assertion.Config{
			RPID:      rpID,
			RPOrigins: []string{origin},
		},
		CredentialStore: assertion.NewMemoryCredentialStore(),
		ChallengeStore:  assertion.NewMemoryChallengeStore(),
	})
	require.NoError(t, err)

	auth, err := assertion.NewMockAuthenticator(rpID)
	require.NoError(t, err)

	userID := []byte("integration-user")
	cred, err := auth.Credential(userID, 0)
	require.NoError(t, err)
	require.NoError(t, svc.RegisterCredential(context.Background(), cred))

	r := chi.NewRouter()
	assertionhttp.MountChi(r, assertionhttp.NewHandler(svc))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, auth, base64.RawURLEncoding.EncodeToString(userID)
}

func postJSON(t *testing.T, url string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// TestFullCeremonyOverHTTP exercises the two endpoints end to end: issue a
// challenge, answer it with a simulated authenticator, and verify.
func TestFullCeremonyOverHTTP(t *testing.T) {
	srv, auth, userID := startServer(t)

	resp := postJSON(t, srv.URL+"/assertion/options",
		assertionhttp.OptionsRequest{UserID: userID}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var options assertion.RequestOptions
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&options))
	require.NotEmpty(t, options.Challenge)

	challenge, err := base64.RawURLEncoding.DecodeString(options.Challenge)
	require.NoError(t, err)
	wire, err := auth.Assert(challenge, origin)
	require.NoError(t, err)

	resp = postJSON(t, srv.URL+"/assertion/result",
		assertionhttp.ResultRequest{CredentialAssertionResponse: *wire},
		map[string]string{assertionhttp.HeaderUserID: userID})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result assertionhttp.ResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Token)

	// The same envelope cannot authenticate twice.
	resp = postJSON(t, srv.URL+"/assertion/result",
		assertionhttp.ResultRequest{CredentialAssertionResponse: *wire},
		map[string]string{assertionhttp.HeaderUserID: userID})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestCeremonyWrongOriginOverHTTP verifies the transport surfaces only the
// generic failure for a response signed against the wrong origin.
func TestCeremonyWrongOriginOverHTTP(t *testing.T) {
	srv, auth, userID := startServer(t)

	resp := postJSON(t, srv.URL+"/assertion/options",
		assertionhttp.OptionsRequest{UserID: userID}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var options assertion.RequestOptions
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&options))

	challenge, err := base64.RawURLEncoding.DecodeString(options.Challenge)
	require.NoError(t, err)
	wire, err := auth.Assert(challenge, "https://evil.example")
	require.NoError(t, err)

	resp = postJSON(t, srv.URL+"/assertion/result",
		assertionhttp.ResultRequest{CredentialAssertionResponse: *wire},
		map[string]string{assertionhttp.HeaderUserID: userID})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var result assertionhttp.ResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, "Authentication failed.", result.Message)
}
