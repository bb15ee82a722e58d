// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

// Package metrics provides Prometheus instrumentation for MsgVault:
// API endpoint latency and throughput, authentication outcomes, and
// refresh-token registry size.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Authentication Metrics
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"operation", "outcome"}, // operation: login, refresh, logout; outcome: success, failure
	)

	AuthTokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of tokens issued",
		},
		[]string{"token_type"}, // access, refresh
	)

	AuthTokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_validations_total",
			Help: "Total number of bearer token validations",
		},
		[]string{"outcome"}, // valid, invalid, absent
	)

	RefreshTokensRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_refresh_tokens_registered",
			Help: "Current number of refresh tokens in the registry",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAuthAttempt records a login/refresh/logout outcome.
func RecordAuthAttempt(operation string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordTokenIssued records an issued token by type ("access" or "refresh").
func RecordTokenIssued(tokenType string) {
	AuthTokensIssued.WithLabelValues(tokenType).Inc()
}

// RecordTokenValidation records a bearer validation outcome
// ("valid", "invalid", or "absent").
func RecordTokenValidation(outcome string) {
	AuthTokenValidations.WithLabelValues(outcome).Inc()
}

// SetRegisteredTokens updates the refresh-token registry size gauge.
func SetRegisteredTokens(n int) {
	RefreshTokensRegistered.Set(float64(n))
}
