// Package engine implements the Sort Orchestrator: it owns the chunk
// buffer and temp directory for one sort run and sequences the READ,
// MERGE, and WRITE stages, tearing the temp directory down on every exit
// path. An optional *report.Report and *progress.Reporter are threaded
// through as plain values rather than package state, so profiling and
// verbose progress reporting add no overhead when not requested.
package engine

import (
	"fmt"
	"os"

	"github.com/joe-skb7/filesort/internal/kmerge"
	"github.com/joe-skb7/filesort/internal/progress"
	"github.com/joe-skb7/filesort/internal/reader"
	"github.com/joe-skb7/filesort/internal/report"
	"github.com/joe-skb7/filesort/internal/writer"
)

const tmpPattern = "tmpdir."

// Config describes one sort invocation.
type Config struct {
	Path        string // file to sort in place
	BufferBytes int    // RAM budget, in bytes; a positive multiple of 4, and more than kmerge.K int32s (at least 68 bytes) for any non-empty input, since kmerge.Merge panics on a smaller buffer
	Threads     int    // worker count for the Parallel Sorter; must be positive

	// Report, if non-nil, is used to record row count and per-stage
	// elapsed time. Passing nil disables profiling overhead entirely.
	Report *report.Report

	// Progress, if non-nil, is ticked once a second with the current
	// phase, row count, and ETA (verbose mode). Passing nil disables it.
	Progress *progress.Reporter
}

// Run sorts the file named by cfg.Path in place, in ascending order.
//
// An empty input file is a successful no-op: Run returns nil without
// creating a temp directory or touching the file.
func Run(cfg Config) error {
	if cfg.BufferBytes <= 0 || cfg.BufferBytes%4 != 0 {
		panic("engine: BufferBytes must be a positive multiple of 4")
	}
	if cfg.Threads <= 0 {
		panic("engine: Threads must be positive")
	}

	startStage(cfg.Report, report.StageTotal)
	defer stopStage(cfg.Report, report.StageTotal)

	if cfg.Progress != nil {
		cfg.Progress.Start()
		defer cfg.Progress.Stop()
	}

	fi, err := os.Stat(cfg.Path)
	if err != nil {
		return fmt.Errorf("engine: stat %s: %w", cfg.Path, err)
	}
	if fi.Size() == 0 {
		return nil
	}

	buf := make([]int32, cfg.BufferBytes/4)

	dir, err := createTempDir()
	if err != nil {
		return fmt.Errorf("engine: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	setPhase(cfg.Progress, report.StageRead)
	startStage(cfg.Report, report.StageRead)
	fileCount, rows, err := reader.Read(cfg.Path, dir, buf, cfg.Threads, cfg.Report, cfg.Progress)
	stopStage(cfg.Report, report.StageRead)
	if err != nil {
		return err
	}
	if cfg.Report != nil {
		cfg.Report.SetRows(int64(rows))
	}
	if cfg.Progress != nil {
		// rows is already reflected in cfg.Progress's counter via the
		// AddRows calls reader.Read made on each flush; only the total
		// (for ETA) is new information here.
		cfg.Progress.SetTotal(int64(rows))
	}

	setPhase(cfg.Progress, report.StageMerge)
	startStage(cfg.Report, report.StageMerge)
	finalPath, err := kmerge.Merge(dir, fileCount, buf)
	stopStage(cfg.Report, report.StageMerge)
	if err != nil {
		return err
	}

	setPhase(cfg.Progress, report.StageWrite)
	startStage(cfg.Report, report.StageWrite)
	err = writer.Write(finalPath, cfg.Path, buf)
	stopStage(cfg.Report, report.StageWrite)
	return err
}

// createTempDir tries the system temp location first, then falls back to
// the current working directory, matching the "tmpdir.XXXXXX" naming
// pattern this sort has always used.
func createTempDir() (string, error) {
	dir, err := os.MkdirTemp("", tmpPattern)
	if err == nil {
		return dir, nil
	}
	return os.MkdirTemp(".", tmpPattern)
}

func startStage(r *report.Report, stage string) {
	if r != nil {
		r.Start(stage)
	}
}

func stopStage(r *report.Report, stage string) {
	if r != nil {
		r.Stop(stage)
	}
}

func setPhase(p *progress.Reporter, phase string) {
	if p != nil {
		p.SetPhase(phase)
	}
}
