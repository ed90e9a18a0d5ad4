package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/acumidata/propdash/pkg/batch"
	"github.com/acumidata/propdash/pkg/relar"
	"github.com/acumidata/propdash/pkg/table"
)

// maxUploadBytes bounds a CSV upload.
const maxUploadBytes = 10 << 20

type batchJSONRequest struct {
	Kind        string          `json:"kind"`
	Concurrency int             `json:"concurrency,omitempty"`
	Records     []relar.Address `json:"records"`
}

// handleBatchSubmit accepts a batch either as a multipart CSV upload
// (fields: file, kind, concurrency) or as a JSON body validated against the
// submission schema. Validation failures are synchronous 400s; no run is
// created and no provider call is made.
func (s *Server) handleBatchSubmit(w http.ResponseWriter, r *http.Request) {
	var (
		ds          *table.Dataset
		kind        relar.Kind
		concurrency int
		err         error
	)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		ds, kind, concurrency, err = s.parseMultipartSubmission(r)
	} else {
		ds, kind, concurrency, err = s.parseJSONSubmission(r)
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if concurrency == 0 {
		concurrency = s.defaultConcurrency
	}
	if concurrency < batch.MinConcurrency || concurrency > batch.MaxConcurrency {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf(
			"concurrency must be between %d and %d", batch.MinConcurrency, batch.MaxConcurrency))
		return
	}
	if err := ds.Validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// Resolve addresses now so a bad header fails the submission, not the
	// run.
	addrs, err := ds.Records()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	run := s.registry.Create(ds, kind, concurrency, username(r))
	go s.executeRun(run, addrs)

	s.logger.Info().
		Str("run_id", run.ID).
		Str("kind", kind.String()).
		Int("records", len(addrs)).
		Int("concurrency", concurrency).
		Msg("Batch run accepted")

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"run_id": run.ID})
}

// executeRun drives one batch run to completion. A started run always
// drains; there is no cancellation path.
func (s *Server) executeRun(run *Run, addrs []relar.Address) {
	s.registry.start(run.ID)

	results, err := s.runner.Run(context.Background(), addrs, run.Kind, batch.Config{
		Concurrency: run.Concurrency,
		OnProgress: func(p batch.Progress) {
			s.registry.setProgress(run.ID, p)
		},
	})
	if err != nil {
		// Configuration was validated at submission, so this is a bug,
		// not a user error. Complete the run with every row failed so
		// the caller is not left polling forever.
		s.logger.Error().Err(err).Str("run_id", run.ID).Msg("Batch run rejected after submission")
		results = &batch.Results{
			Records: map[int]relar.Record{},
			Errors:  map[int]string{},
		}
		for i := range addrs {
			results.Errors[i] = err.Error()
		}
		results.Completed = len(addrs)
		results.Failed = len(addrs)
	}

	s.registry.complete(run.ID, results, table.Assemble(run.Dataset, run.Kind, results))
}

func (s *Server) parseMultipartSubmission(r *http.Request) (*table.Dataset, relar.Kind, int, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, 0, 0, fmt.Errorf("parse upload: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	ds, err := table.ReadCSV(file)
	if err != nil {
		return nil, 0, 0, err
	}

	kind, err := relar.ParseKind(r.FormValue("kind"))
	if err != nil {
		return nil, 0, 0, err
	}

	concurrency := 0
	if v := r.FormValue("concurrency"); v != "" {
		concurrency, err = strconv.Atoi(v)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("invalid concurrency %q", v)
		}
	}

	return ds, kind, concurrency, nil
}

func (s *Server) parseJSONSubmission(r *http.Request) (*table.Dataset, relar.Kind, int, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read body: %w", err)
	}

	if err := validateBatchJSON(body); err != nil {
		return nil, 0, 0, err
	}

	var req batchJSONRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, 0, 0, fmt.Errorf("decode body: %w", err)
	}

	kind, err := relar.ParseKind(req.Kind)
	if err != nil {
		return nil, 0, 0, err
	}

	ds := &table.Dataset{
		Header: []string{"address", "city", "state", "zip"},
		Rows:   make([][]string, len(req.Records)),
	}
	for i, rec := range req.Records {
		ds.Rows[i] = []string{rec.Street, rec.City, rec.State, rec.Zip}
	}

	return ds, kind, req.Concurrency, nil
}

// authorizeRun hides other users' runs. An unknown ID and someone else's
// run answer identically.
func (s *Server) authorizeRun(r *http.Request, id string) error {
	owner, err := s.registry.Owner(id)
	if err != nil {
		return err
	}
	if owner != username(r) {
		return ErrRunNotFound
	}
	return nil
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.authorizeRun(r, id); err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	view, err := s.registry.View(id)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	render.JSON(w, r, view)
}

func (s *Server) handleBatchExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.authorizeRun(r, id); err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	tbl, kind, err := s.registry.Table(id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			s.writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", table.ExportFilename(kind)))

	if err := table.WriteCSV(w, tbl); err != nil {
		s.logger.Error().Err(err).Str("run_id", id).Msg("Export write failed")
	}
}
