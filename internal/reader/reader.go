// Package reader implements the Chunk Reader stage: it streams the ASCII
// input file, parses one signed decimal integer per line into the shared
// chunk buffer, and flushes each full (or final partial) chunk as a
// sorted stage-0 run file.
package reader

import (
	"fmt"
	"strconv"

	"github.com/joe-skb7/filesort/internal/linescan"
	"github.com/joe-skb7/filesort/internal/pmsort"
	"github.com/joe-skb7/filesort/internal/progress"
	"github.com/joe-skb7/filesort/internal/report"
	"github.com/joe-skb7/filesort/internal/runfile"
)

// Read streams path line by line, filling buf and flushing it (sorted,
// via workers goroutines) as stage-0 run files "0_0", "0_1", ... under
// dir whenever it fills, plus once more for any final partial fill. It
// returns the number of stage-0 runs produced (F in the merge formula)
// and the total number of integers read.
//
// rpt and prog are both optional (nil disables them). When rpt is
// non-nil, each flush pauses the caller's READ bracket and brackets its
// own SORT interval around just the in-memory sort, matching the
// original's sort_handle_buf/profile_start(PROFILE_SORT) pairing: SORT
// time never includes the run-file write. When prog is non-nil, each
// flush adds its span's row count to the live progress counter.
//
// A malformed line is fatal: Read returns an error immediately and no
// further runs are written for that or later lines.
func Read(path, dir string, buf []int32, workers int, rpt *report.Report, prog *progress.Reporter) (fileCount, rows int, err error) {
	if len(buf) == 0 {
		panic("reader: buf must not be empty")
	}

	f, err := linescan.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reader: open %s: %w", path, err)
	}
	defer f.Close()

	sc := linescan.NewScanner(f.Bytes())
	pos := 0
	chunks := 0
	lineNo := 0

	flush := func() error {
		if pos == 0 {
			return nil
		}
		span := buf[:pos]

		if rpt != nil {
			rpt.Stop(report.StageRead)
			rpt.Start(report.StageSort)
		}
		pmsort.Sort(span, workers)
		if rpt != nil {
			rpt.Stop(report.StageSort)
		}

		if err := runfile.WriteAll(dir, 0, chunks, span); err != nil {
			if rpt != nil {
				rpt.Start(report.StageRead)
			}
			return fmt.Errorf("reader: write run 0_%d: %w", chunks, err)
		}
		if rpt != nil {
			rpt.Start(report.StageRead)
		}
		if prog != nil {
			prog.AddRows(int64(len(span)))
		}

		chunks++
		pos = 0
		return nil
	}

	for {
		line, ok := sc.Next()
		if !ok {
			break
		}
		lineNo++

		v, err := parseLine(line)
		if err != nil {
			return 0, 0, fmt.Errorf("reader: line %d: %w", lineNo, err)
		}

		buf[pos] = v
		pos++
		if pos == len(buf) {
			if err := flush(); err != nil {
				return 0, 0, err
			}
		}
	}

	if err := flush(); err != nil {
		return 0, 0, err
	}

	return chunks, lineNo, nil
}

// parseLine parses line as a strict signed decimal 32-bit integer: no
// leading or trailing whitespace, no extra characters, in range.
func parseLine(line []byte) (int32, error) {
	if len(line) == 0 {
		return 0, fmt.Errorf("empty line")
	}
	v, err := strconv.ParseInt(string(line), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed integer %q: %w", line, err)
	}
	return int32(v), nil
}
