package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acumidata/propdash/pkg/batch"
	"github.com/acumidata/propdash/pkg/relar"
	"github.com/acumidata/propdash/pkg/table"
)

// RunState is the lifecycle of one batch run.
type RunState string

const (
	// RunQueued means the run is created but no worker has started.
	RunQueued RunState = "queued"

	// RunRunning means workers are fetching.
	RunRunning RunState = "running"

	// RunCompleted means every row has an outcome and the table is
	// assembled. There is no failed state: per-row errors live in the
	// error map and a started run always drains.
	RunCompleted RunState = "completed"
)

// ErrRunNotFound indicates an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one batch execution. All fields are guarded by the registry.
type Run struct {
	ID          string
	Kind        relar.Kind
	Concurrency int
	Owner       string
	State       RunState
	CreatedAt   time.Time

	Dataset  *table.Dataset
	Progress batch.Progress
	Results  *batch.Results
	Table    *table.Dataset
}

// RunView is the externally visible snapshot of a run.
type RunView struct {
	ID         string         `json:"run_id"`
	Kind       string         `json:"kind"`
	State      RunState       `json:"status"`
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Failed     int            `json:"failed"`
	Rate       float64        `json:"rate"`
	ETASeconds float64        `json:"eta_seconds"`
	Errors     map[int]string `json:"errors,omitempty"`
	Header     []string       `json:"header,omitempty"`
	Rows       [][]string     `json:"rows,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Registry tracks in-flight and finished runs in memory. Runs live only as
// long as the process; the dashboard persists nothing across restarts.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewRegistry creates an empty run registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run)}
}

// Create registers a queued run over a dataset and returns it.
func (r *Registry) Create(ds *table.Dataset, kind relar.Kind, concurrency int, owner string) *Run {
	run := &Run{
		ID:          uuid.NewString(),
		Kind:        kind,
		Concurrency: concurrency,
		Owner:       owner,
		State:       RunQueued,
		CreatedAt:   time.Now(),
		Dataset:     ds,
		Progress:    batch.Progress{Total: len(ds.Rows)},
	}

	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()

	return run
}

// start transitions a run to running.
func (r *Registry) start(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.State = RunRunning
	}
}

// setProgress records a telemetry snapshot.
func (r *Registry) setProgress(id string, p batch.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.Progress = p
	}
}

// complete stores the outcome and final table of a drained run.
func (r *Registry) complete(id string, results *batch.Results, tbl *table.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.State = RunCompleted
		run.Results = results
		run.Table = tbl
	}
}

// View returns a consistent snapshot of a run. Completed runs include the
// assembled table and the error map.
func (r *Registry) View(id string) (RunView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return RunView{}, ErrRunNotFound
	}

	view := RunView{
		ID:         run.ID,
		Kind:       run.Kind.String(),
		State:      run.State,
		Total:      len(run.Dataset.Rows),
		Completed:  run.Progress.Completed,
		Failed:     run.Progress.Failed,
		Rate:       run.Progress.Rate,
		ETASeconds: run.Progress.ETA.Seconds(),
		CreatedAt:  run.CreatedAt,
	}
	if run.State == RunCompleted {
		view.Errors = run.Results.Errors
		view.Header = run.Table.Header
		view.Rows = run.Table.Rows
		view.ETASeconds = 0
	}
	return view, nil
}

// Table returns the assembled table of a completed run.
func (r *Registry) Table(id string) (*table.Dataset, relar.Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, 0, ErrRunNotFound
	}
	if run.State != RunCompleted {
		return nil, 0, errors.New("run is not completed")
	}
	return run.Table, run.Kind, nil
}

// Owner returns the username that submitted the run.
func (r *Registry) Owner(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return "", ErrRunNotFound
	}
	return run.Owner, nil
}
