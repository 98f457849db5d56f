// Package progress implements the verbose-mode progress reporter: a
// 1-second ticker that rewrites a single status line to stderr with the
// current phase, rows processed, throughput, elapsed time, and an ETA.
//
// Grounded on entreya-csvquery's Indexer.startReporting()/printStatus(): a
// goroutine ticks once a second until told to stop, and a stop signal
// prints a trailing newline so the final line isn't left mid-overwrite.
package progress

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

const tickInterval = 1 * time.Second

// Reporter prints a carriage-return-updated status line while active. The
// zero value is not usable; construct with New.
type Reporter struct {
	rows  atomic.Int64
	total atomic.Int64
	phase atomic.Value // string

	stop chan struct{}
	done chan struct{}
}

// New returns a Reporter in its initial phase. Start must be called to
// begin ticking.
func New(phase string) *Reporter {
	r := &Reporter{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	r.phase.Store(phase)
	return r
}

// AddRows adds n to the rows-processed counter. Safe to call from the
// goroutine doing the work while the reporter ticks concurrently.
func (r *Reporter) AddRows(n int64) {
	r.rows.Add(n)
}

// SetRows sets the rows-processed counter to an absolute value, for
// phases (MERGE, WRITE) where the total row count is already known and
// counted differently than READ's incremental fill.
func (r *Reporter) SetRows(n int64) {
	r.rows.Store(n)
}

// SetTotal records the expected total row count once it becomes known
// (after READ completes), enabling an ETA for the remaining phases.
func (r *Reporter) SetTotal(n int64) {
	r.total.Store(n)
}

// SetPhase changes the phase label shown on the next tick.
func (r *Reporter) SetPhase(phase string) {
	r.phase.Store(phase)
}

// Rows returns the current rows-processed counter.
func (r *Reporter) Rows() int64 {
	return r.rows.Load()
}

// Start begins ticking once a second until Stop is called.
func (r *Reporter) Start() {
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		defer close(r.done)

		start := time.Now()
		for {
			select {
			case <-ticker.C:
				r.printStatus(start)
			case <-r.stop:
				r.printStatus(start)
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	}()
}

// Stop signals the ticking goroutine to print a final status line and
// exit, and waits for it to do so.
func (r *Reporter) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Reporter) printStatus(start time.Time) {
	phase, _ := r.phase.Load().(string)
	rows := r.rows.Load()
	total := r.total.Load()
	elapsed := time.Since(start)

	rate := float64(rows) / elapsed.Seconds()
	if elapsed <= 0 {
		rate = 0
	}

	eta := "calculating..."
	switch {
	case total > 0 && rows >= total:
		eta = "complete"
	case total > 0 && rate > 0:
		remaining := time.Duration(float64(total-rows)/rate) * time.Second
		eta = remaining.Round(time.Second).String()
	}

	fmt.Fprintf(os.Stderr, "\r\033[K[%s] Rows: %d | Rate: %.0f/s | Elapsed: %s | ETA: %s",
		phase, rows, rate, elapsed.Round(time.Second), eta)
}
