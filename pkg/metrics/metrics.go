// Package metrics provides the centralized Prometheus metrics registry for
// propdash. All metrics are defined in their respective packages (acumidata,
// batch, session, usage) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by propdash. All metrics
// are automatically registered via promauto in their respective packages and
// served on the dashboard's /metrics endpoint.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Provider Metrics (pkg/acumidata):
//   - acumidata_requests_total{endpoint, status} (Counter): Provider requests by endpoint and HTTP status
//   - acumidata_request_duration_seconds{endpoint} (Histogram): Provider request duration by endpoint
//   - acumidata_errors_total{class} (Counter): Provider errors by class (client, server, rate_limit, network, decode)
//
// Batch Metrics (pkg/batch):
//   - propdash_batch_runs_total{kind} (Counter): Batch runs started by report kind
//   - propdash_batch_records_total{result} (Counter): Batch records processed by result (success, error)
//   - propdash_batch_duration_seconds{kind} (Histogram): Batch run duration by report kind
//
// Session Metrics (pkg/session):
//   - propdash_sessions_created_total (Counter): Sessions created
//   - propdash_session_hits_total (Counter): Token lookups that found a valid session
//   - propdash_session_misses_total (Counter): Token lookups that missed (unknown or expired)
//   - propdash_session_errors_total{operation} (Counter): Session store errors by operation
//
// Usage Metrics (pkg/usage):
//   - propdash_usage_requests_today{environment} (Gauge): Provider requests issued today
//   - propdash_usage_soft_cap_warnings_total (Counter): Times the daily soft cap was crossed
