package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/acumidata/propdash/pkg/relar"
)

// Concurrency bounds for one batch run. The upper bound keeps an interactive
// batch from overwhelming the provider.
const (
	MinConcurrency     = 1
	MaxConcurrency     = 10
	DefaultConcurrency = 5
)

// Prometheus metrics for batch runs.
var (
	batchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propdash_batch_runs_total",
		Help: "Total batch runs by report kind",
	}, []string{"kind"})

	batchRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propdash_batch_records_total",
		Help: "Total batch records processed by result",
	}, []string{"result"})

	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propdash_batch_duration_seconds",
		Help:    "Batch run duration in seconds by report kind",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"kind"})
)

// Fetcher issues one provider call for one address. *acumidata.Client
// satisfies this.
type Fetcher interface {
	FetchReport(ctx context.Context, addr relar.Address, kind relar.Kind) (map[string]any, error)
}

// Config controls one batch run.
type Config struct {
	// Concurrency is the worker pool size, 1-10. Zero selects the default.
	Concurrency int

	// OnProgress, when set, is invoked after every completed outcome.
	// Advisory telemetry only; it never gates scheduling.
	OnProgress func(Progress)
}

// Progress is a snapshot of a running batch, recomputed after every outcome.
type Progress struct {
	Completed int
	Failed    int
	Total     int
	Elapsed   time.Duration
	Rate      float64
	ETA       time.Duration
}

// outcome is one worker's result for one input index. Exactly one is
// produced per submitted index.
type outcome struct {
	index  int
	record relar.Record
	err    error
}

// Results holds the per-row outcomes of a completed run, keyed by the
// original input index. Every submitted index appears in exactly one of
// Records or Errors.
type Results struct {
	Records   map[int]relar.Record
	Errors    map[int]string
	Completed int
	Failed    int
	Duration  time.Duration
}

// Runner drives batch enrichment runs over a Fetcher.
type Runner struct {
	fetcher Fetcher
}

// NewRunner creates a batch runner.
func NewRunner(fetcher Fetcher) *Runner {
	return &Runner{fetcher: fetcher}
}

// Run fetches and normalizes the report of the given kind for every address.
// It validates configuration before dispatching anything, then drains every
// index to exactly one outcome regardless of individual failures. The
// returned error covers configuration problems only; per-row failures are in
// Results.Errors.
func (r *Runner) Run(ctx context.Context, addrs []relar.Address, kind relar.Kind, cfg Config) (*Results, error) {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Concurrency < MinConcurrency || cfg.Concurrency > MaxConcurrency {
		return nil, fmt.Errorf("concurrency must be between %d and %d, got %d",
			MinConcurrency, MaxConcurrency, cfg.Concurrency)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid report kind %v", kind)
	}

	results := &Results{
		Records: make(map[int]relar.Record, len(addrs)),
		Errors:  make(map[int]string),
	}
	if len(addrs) == 0 {
		return results, nil
	}

	start := time.Now()
	total := len(addrs)
	workers := cfg.Concurrency
	if workers > total {
		workers = total
	}

	batchRunsTotal.WithLabelValues(kind.String()).Inc()
	log.Info().
		Str("kind", kind.String()).
		Int("records", total).
		Int("concurrency", workers).
		Msg("Starting batch run")

	// Queue every index exactly once. Workers pull independently, so no
	// index can reach two workers.
	indexes := make(chan int, total)
	for i := range addrs {
		indexes <- i
	}
	close(indexes)

	outcomes := make(chan outcome, total)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range indexes {
				doc, err := r.fetcher.FetchReport(ctx, addrs[i], kind)
				if err != nil {
					outcomes <- outcome{index: i, err: err}
					continue
				}
				outcomes <- outcome{index: i, record: relar.Normalize(doc, kind)}
			}
		}(w)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Collect until every index has reported. The outcomes channel is the
	// serialization point; only this loop touches results. Completion order
	// is arbitrary; the index keys the reassembly.
	for out := range outcomes {
		if out.err != nil {
			results.Errors[out.index] = out.err.Error()
			results.Failed++
			batchRecordsTotal.WithLabelValues("error").Inc()
			log.Warn().
				Err(out.err).
				Int("row", out.index).
				Msg("Record fetch failed")
		} else {
			results.Records[out.index] = out.record
			batchRecordsTotal.WithLabelValues("success").Inc()
		}
		results.Completed++

		if cfg.OnProgress != nil {
			cfg.OnProgress(snapshot(results, total, start))
		}
	}

	results.Duration = time.Since(start)
	batchDuration.WithLabelValues(kind.String()).Observe(results.Duration.Seconds())

	log.Info().
		Str("kind", kind.String()).
		Int("completed", results.Completed).
		Int("failed", results.Failed).
		Dur("duration", results.Duration).
		Msg("Batch run complete")

	return results, nil
}

// snapshot recomputes the advisory telemetry after one outcome.
func snapshot(results *Results, total int, start time.Time) Progress {
	elapsed := time.Since(start)
	p := Progress{
		Completed: results.Completed,
		Failed:    results.Failed,
		Total:     total,
		Elapsed:   elapsed,
	}
	if elapsed > 0 {
		p.Rate = float64(results.Completed) / elapsed.Seconds()
	}
	if results.Completed > 0 {
		estimated := time.Duration(float64(elapsed) / float64(results.Completed) * float64(total))
		p.ETA = estimated - elapsed
	}
	return p
}
