// Package batch runs the enrichment pipeline over an uploaded dataset: it
// fans out one provider call per input row through a bounded worker pool,
// normalizes each response, and collects exactly one outcome per row.
//
// The pool size is the user-chosen concurrency (1-10). Rows are independent;
// the only shared state is the collector's counters and error map, which are
// guarded by a mutex. A failed row never aborts the run: the runner always
// drains every submitted index before returning, and failures surface in the
// per-row error map instead.
package batch
