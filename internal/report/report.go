// Package report implements an optional JSON run-summary sidecar, written
// next to the sorted file when profiling is requested. It accumulates
// wall-clock time per pipeline stage the way a benchmark harness would,
// rather than being load-bearing for the sort itself.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Stage names, mirroring the READ/SORT/MERGE/WRITE/TOTAL benchmark points
// a profiling build of this sort has always tracked.
const (
	StageRead  = "READ"
	StageSort  = "SORT"
	StageMerge = "MERGE"
	StageWrite = "WRITE"
	StageTotal = "TOTAL"
)

// Report accumulates per-stage elapsed time and run metadata, and can
// serialize itself as a JSON sidecar. A stage may be started and stopped
// more than once; elapsed time accumulates across calls, matching a
// profiler that brackets a stage entered from multiple call sites (the
// Parallel Sorter is invoked once per chunk during READ, for instance).
type Report struct {
	mu sync.Mutex

	Rows          int64              `json:"rows"`
	BufferBytes   int                `json:"bufferBytes"`
	Threads       int                `json:"threads"`
	StageSeconds  map[string]float64 `json:"stageSeconds"`
	inputPath     string
	pendingStarts map[string]time.Time
}

// New creates a Report for a run over inputPath with the given buffer
// size (bytes) and thread count.
func New(inputPath string, bufferBytes, threads int) *Report {
	return &Report{
		BufferBytes:   bufferBytes,
		Threads:       threads,
		StageSeconds:  make(map[string]float64),
		inputPath:     inputPath,
		pendingStarts: make(map[string]time.Time),
	}
}

// Start marks the beginning of a stage interval.
func (r *Report) Start(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingStarts[stage] = time.Now()
}

// Stop closes the most recent Start for stage and accumulates the
// elapsed duration. Calling Stop without a matching Start is a no-op.
func (r *Report) Stop(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start, ok := r.pendingStarts[stage]
	if !ok {
		return
	}
	r.StageSeconds[stage] += time.Since(start).Seconds()
	delete(r.pendingStarts, stage)
}

// SetRows records the total row count sorted.
func (r *Report) SetRows(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows = n
}

// sidecarPath returns the sidecar path derived from an input path: the
// input path with a fixed suffix appended, never overwriting the input
// itself.
func sidecarPath(inputPath string) string {
	return inputPath + ".filesort_report.json"
}

// Save serializes the report as indented JSON to its sidecar path.
func (r *Report) Save() error {
	r.mu.Lock()
	data, err := json.MarshalIndent(r, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}

	path := sidecarPath(r.inputPath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
