package httpapi

import (
	"testing"

	"github.com/acumidata/propdash/pkg/batch"
	"github.com/acumidata/propdash/pkg/relar"
	"github.com/acumidata/propdash/pkg/table"
)

func registryDataset() *table.Dataset {
	return &table.Dataset{
		Header: []string{"address", "city", "state", "zip"},
		Rows: [][]string{
			{"531 NE Beck Rd", "Belfair", "WA", "98528"},
			{"20 Elm St", "Boston", "MA", "02108"},
		},
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	reg := NewRegistry()
	ds := registryDataset()

	run := reg.Create(ds, relar.KindSimple, 3, "alice")
	if run.ID == "" {
		t.Fatal("Create() returned empty ID")
	}

	view, err := reg.View(run.ID)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if view.State != RunQueued {
		t.Errorf("State = %q, want queued", view.State)
	}
	if view.Total != 2 {
		t.Errorf("Total = %d, want 2", view.Total)
	}

	reg.start(run.ID)
	reg.setProgress(run.ID, batch.Progress{Completed: 1, Total: 2})

	view, _ = reg.View(run.ID)
	if view.State != RunRunning {
		t.Errorf("State = %q, want running", view.State)
	}
	if view.Completed != 1 {
		t.Errorf("Completed = %d, want 1", view.Completed)
	}
	// The table is only exposed once the run has drained.
	if len(view.Rows) != 0 {
		t.Error("Running view should not include rows")
	}
	if _, _, err := reg.Table(run.ID); err == nil {
		t.Error("Table() of a running run should fail")
	}

	results := &batch.Results{
		Records:   map[int]relar.Record{0: {relar.ColPredictedPrice: 425000.0}},
		Errors:    map[int]string{1: "provider returned status 500"},
		Completed: 2,
		Failed:    1,
	}
	reg.complete(run.ID, results, table.Assemble(ds, relar.KindSimple, results))

	view, _ = reg.View(run.ID)
	if view.State != RunCompleted {
		t.Errorf("State = %q, want completed", view.State)
	}
	if len(view.Rows) != 2 {
		t.Errorf("Got %d rows, want 2", len(view.Rows))
	}
	if view.Errors[1] == "" {
		t.Error("View missing error map entry")
	}

	tbl, kind, err := reg.Table(run.ID)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if kind != relar.KindSimple {
		t.Errorf("Kind = %v, want simple", kind)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("Table rows = %d, want 2", len(tbl.Rows))
	}

	owner, err := reg.Owner(run.ID)
	if err != nil || owner != "alice" {
		t.Errorf("Owner() = %q, %v, want alice", owner, err)
	}
}

func TestRegistry_UnknownID(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.View("nope"); err != ErrRunNotFound {
		t.Errorf("View() = %v, want ErrRunNotFound", err)
	}
	if _, err := reg.Owner("nope"); err != ErrRunNotFound {
		t.Errorf("Owner() = %v, want ErrRunNotFound", err)
	}
	if _, _, err := reg.Table("nope"); err != ErrRunNotFound {
		t.Errorf("Table() = %v, want ErrRunNotFound", err)
	}
}
