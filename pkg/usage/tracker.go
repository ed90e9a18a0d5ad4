package usage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for usage tracking.
var (
	usageRequestsToday = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "propdash_usage_requests_today",
		Help: "Provider requests issued today by environment",
	}, []string{"environment"})

	usageSoftCapWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propdash_usage_soft_cap_warnings_total",
		Help: "Total number of times the daily usage soft cap was crossed",
	})
)

// Tracker records provider calls into redis and serves usage queries. It
// implements acumidata.Recorder. Recording is purely observational; it
// never blocks or gates a call.
type Tracker struct {
	redis       *redis.Client
	environment string
	softCap     int64
	logger      zerolog.Logger
}

// NewTracker creates a usage tracker for one provider environment. softCap
// is the daily request count past which a warning is logged; zero disables
// the warning.
func NewTracker(redisClient *redis.Client, environment string, softCap int64, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:       redisClient,
		environment: environment,
		softCap:     softCap,
		logger:      logger,
	}
}

// RecordRequest counts one provider call. Status 0 means the call never got
// a response; any non-2xx status counts as an error too.
func (t *Tracker) RecordRequest(ctx context.Context, endpoint string, status int) error {
	key := dayKey(t.environment, today())
	failed := status == 0 || status < 200 || status > 299

	// One round trip for the whole update. The expiry rides along every
	// time; refreshing it is cheaper than checking whether the key is new.
	pipe := t.redis.Pipeline()
	total := pipe.HIncrBy(ctx, key, FieldRequests, 1)
	pipe.HIncrBy(ctx, key, endpointFieldPrefix+endpoint, 1)
	if failed {
		pipe.HIncrBy(ctx, key, FieldErrors, 1)
	}
	pipe.Expire(ctx, key, retention)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}

	requests := total.Val()
	usageRequestsToday.WithLabelValues(t.environment).Set(float64(requests))

	if t.softCap > 0 && requests == t.softCap {
		usageSoftCapWarnings.Inc()
		t.logger.Warn().
			Int64("requests", requests).
			Int64("soft_cap", t.softCap).
			Str("environment", t.environment).
			Msg("Daily provider usage reached the soft cap")
	}

	return nil
}

// Today returns the current day's usage state. A day with no recorded calls
// reads as all zeros.
func (t *Tracker) Today(ctx context.Context) (*State, error) {
	date := today()
	fields, err := t.redis.HGetAll(ctx, dayKey(t.environment, date)).Result()
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}

	state := &State{
		Environment: t.environment,
		Date:        date,
		ByEndpoint:  make(map[string]int64),
	}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch {
		case field == FieldRequests:
			state.Requests = n
		case field == FieldErrors:
			state.Errors = n
		case strings.HasPrefix(field, endpointFieldPrefix):
			state.ByEndpoint[strings.TrimPrefix(field, endpointFieldPrefix)] = n
		}
	}
	return state, nil
}

// SoftCap returns the configured daily soft cap.
func (t *Tracker) SoftCap() int64 {
	return t.softCap
}
