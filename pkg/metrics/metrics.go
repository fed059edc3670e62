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

// Package metrics provides Prometheus instrumentation for assertion
// ceremony operations: challenges issued, verification outcomes by
// rejection reason, and verification latency.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all passkey metrics
	Namespace = "passkey"

	// Label names
	LabelStatus = "status"
	LabelReason = "reason"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// ChallengesIssuedTotal counts issued assertion challenges.
	ChallengesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "challenges_issued_total",
			Help:      "Total number of assertion challenges issued",
		},
	)

	// VerificationsTotal counts assertion verification attempts by status
	// and rejection reason. Accepted attempts carry reason "none".
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "verifications_total",
			Help:      "Total number of assertion verification attempts by status and reason",
		},
		[]string{LabelStatus, LabelReason},
	)

	// VerificationDuration tracks end-to-end verification latency.
	// Verification is pure computation, so buckets skew small.
	VerificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "verification_duration_seconds",
			Help:      "Duration of assertion verification in seconds",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)
)

// enabled gates metric recording; on by default.
var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled toggles metric recording at runtime.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// IsEnabled reports whether metric recording is active.
func IsEnabled() bool {
	return enabled.Load()
}

// RecordChallengeIssued increments the issued-challenge counter.
func RecordChallengeIssued() {
	if !IsEnabled() {
		return
	}
	ChallengesIssuedTotal.Inc()
}

// RecordVerification records one verification attempt with its outcome.
func RecordVerification(status, reason string, duration time.Duration) {
	if !IsEnabled() {
		return
	}
	VerificationsTotal.WithLabelValues(status, reason).Inc()
	VerificationDuration.Observe(duration.Seconds())
}
