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

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountChi mounts assertion routes on a chi router.
//
// Example:
//
//	handler := assertionhttp.NewHandler(svc)
//	r.Route("/api/v1", func(r chi.Router) {
//	    assertionhttp.MountChi(r, handler)
//	})
func MountChi(r chi.Router, h *Handler) {
	r.Post("/assertion/options", h.AssertionOptions)
	r.Post("/assertion/result", h.AssertionResult)
}

// MountStdlib mounts assertion routes on a stdlib http.ServeMux. The
// prefix should not include a trailing slash.
func MountStdlib(mux *http.ServeMux, prefix string, h *Handler) {
	mux.HandleFunc(prefix+"/assertion/options", h.AssertionOptions)
	mux.HandleFunc(prefix+"/assertion/result", h.AssertionResult)
}

// RouteEntry represents a single route with its method, path, and handler.
type RouteEntry struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes returns a slice of route entries for manual mounting on
// frameworks not directly supported.
func (h *Handler) Routes() []RouteEntry {
	return []RouteEntry{
		{Method: "POST", Path: "/assertion/options", Handler: h.AssertionOptions},
		{Method: "POST", Path: "/assertion/result", Handler: h.AssertionResult},
	}
}
