// Package usage meters provider API calls. Counts are kept per environment
// and per day in redis, shared by every process pointed at the same store,
// so the dashboard can show today's consumption and warn before the
// account's daily allowance runs out.
package usage

import (
	"time"
)

// keyPrefix namespaces usage keys in redis. The full key is
// propdash:usage:<environment>:<YYYY-MM-DD>.
const keyPrefix = "propdash:usage:"

// Hash fields inside one daily usage key.
const (
	FieldRequests = "requests"
	FieldErrors   = "errors"

	// endpointFieldPrefix prefixes the per-endpoint counters.
	endpointFieldPrefix = "endpoint:"
)

// retention is how long a finished day's counters stay readable.
const retention = 48 * time.Hour

// State is one day's provider usage for one environment.
type State struct {
	// Environment is the provider deployment the counts belong to.
	Environment string `json:"environment"`

	// Date is the day the counts cover, YYYY-MM-DD.
	Date string `json:"date"`

	// Requests is the total provider calls issued.
	Requests int64 `json:"requests"`

	// Errors is how many of those calls failed (transport or non-2xx).
	Errors int64 `json:"errors"`

	// ByEndpoint breaks Requests down per endpoint path.
	ByEndpoint map[string]int64 `json:"by_endpoint"`
}

// ErrorRate returns the fraction of today's calls that failed.
func (s *State) ErrorRate() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Requests)
}

// NearDailyLimit reports whether the request count has reached the soft
// cap. A non-positive cap disables the check.
func (s *State) NearDailyLimit(softCap int64) bool {
	if softCap <= 0 {
		return false
	}
	return s.Requests >= softCap
}

// dayKey builds the redis key for an environment and day.
func dayKey(environment, date string) string {
	return keyPrefix + environment + ":" + date
}

// today formats the current day the way dayKey expects.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
