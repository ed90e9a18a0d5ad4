package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated counts successful logins.
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propdash_sessions_created_total",
			Help: "Total number of sessions created",
		},
	)

	// SessionHits counts token lookups that found a live session.
	SessionHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propdash_session_hits_total",
			Help: "Total number of session lookups that found a valid session",
		},
	)

	// SessionMisses counts lookups for unknown or expired tokens.
	SessionMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propdash_session_misses_total",
			Help: "Total number of session lookups that missed",
		},
	)

	// SessionErrors counts failed store operations.
	SessionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdash_session_errors_total",
			Help: "Total number of session store errors",
		},
		[]string{"operation"}, // "create", "get", "delete", "refresh"
	)
)
