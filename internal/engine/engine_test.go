package engine

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/joe-skb7/filesort/internal/progress"
	"github.com/joe-skb7/filesort/internal/report"
)

func writeInput(t *testing.T, values []int32) string {
	t.Helper()
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(int(v)))
		b.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readOutput(t *testing.T, path string) []int32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := strings.TrimRight(string(data), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	out := make([]int32, len(lines))
	for i, l := range lines {
		v, err := strconv.Atoi(l)
		if err != nil {
			t.Fatalf("bad output line %q: %v", l, err)
		}
		out[i] = int32(v)
	}
	return out
}

func sortedCopy(a []int32) []int32 {
	b := append([]int32(nil), a...)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return b
}

func assertSortedAndEqual(t *testing.T, got, original []int32) {
	t.Helper()
	want := sortedCopy(original)
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRunEndToEndSmallBufferForcesMultiStageMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	values := make([]int32, 500)
	for i := range values {
		values[i] = int32(rng.Intn(200000) - 100000)
	}
	path := writeInput(t, values)

	// Buffer of 17 elements (K+1, the smallest the K-way merge accepts)
	// forces 30 stage-0 runs and a two-stage K-way merge (K=16) for 500
	// input values.
	err := Run(Config{Path: path, BufferBytes: 17 * 4, Threads: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := readOutput(t, path)
	assertSortedAndEqual(t, got, values)
}

func TestRunEndToEndBufferCoversWholeFile(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	values := make([]int32, 50)
	for i := range values {
		values[i] = int32(rng.Intn(1000))
	}
	path := writeInput(t, values)

	err := Run(Config{Path: path, BufferBytes: 4096, Threads: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := readOutput(t, path)
	assertSortedAndEqual(t, got, values)
}

func TestRunEmptyFileIsNoopAndCreatesNoTempDir(t *testing.T) {
	path := writeInput(t, nil)
	dirEntries := func() []string {
		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatalf("ReadDir: %v", err)
		}
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		return names
	}

	before := dirEntries()
	tempBefore := leftoverTempDirs(t)
	if err := Run(Config{Path: path, BufferBytes: 4096, Threads: 2}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	after := dirEntries()

	if len(before) != len(after) {
		t.Fatalf("expected no new files/dirs for empty input, before=%v after=%v", before, after)
	}
	if tempAfter := leftoverTempDirs(t); tempAfter != tempBefore {
		t.Fatalf("expected no temp dir for empty input: before=%d after=%d", tempBefore, tempAfter)
	}

	got := readOutput(t, path)
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

func TestRunMalformedLineLeavesOriginalUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	original := "1\n2\nnotanumber\n4\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := Run(Config{Path: path, BufferBytes: 4096, Threads: 2})
	if err == nil {
		t.Fatal("expected error for malformed line")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != original {
		t.Fatalf("original file was modified: got %q, want %q", data, original)
	}
}

// leftoverTempDirs counts tmpPattern-prefixed entries under the system
// temp directory, the location createTempDir tries first.
func leftoverTempDirs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), tmpPattern) {
			n++
		}
	}
	return n
}

func TestRunRemovesTempDirOnSuccess(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]int32, 100)
	for i := range values {
		values[i] = int32(rng.Intn(1000))
	}
	path := writeInput(t, values)

	before := leftoverTempDirs(t)
	if err := Run(Config{Path: path, BufferBytes: 17 * 4, Threads: 2}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if after := leftoverTempDirs(t); after != before {
		t.Fatalf("temp dirs left behind after successful run: before=%d after=%d", before, after)
	}
}

func TestRunRemovesTempDirOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("1\nbad\n3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	before := leftoverTempDirs(t)
	if err := Run(Config{Path: path, BufferBytes: 8 * 4, Threads: 2}); err == nil {
		t.Fatal("expected error for malformed line")
	}
	if after := leftoverTempDirs(t); after != before {
		t.Fatalf("temp dirs left behind after failed run: before=%d after=%d", before, after)
	}
}

func TestRunRecordsReportWhenProvided(t *testing.T) {
	path := writeInput(t, []int32{3, 1, 2})
	r := report.New(path, 4096, 2)

	if err := Run(Config{Path: path, BufferBytes: 4096, Threads: 2, Report: r}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r.Rows != 3 {
		t.Fatalf("expected 3 rows recorded, got %d", r.Rows)
	}
	if r.StageSeconds[report.StageTotal] < 0 {
		t.Fatalf("expected nonnegative total stage time, got %v", r.StageSeconds[report.StageTotal])
	}
	for _, stage := range []string{report.StageRead, report.StageSort, report.StageMerge, report.StageWrite} {
		if _, ok := r.StageSeconds[stage]; !ok {
			t.Fatalf("expected stage %q to be recorded", stage)
		}
	}
}

func TestRunDrivesProgressThroughEachPhase(t *testing.T) {
	path := writeInput(t, []int32{3, 1, 2, 5, 4})
	prog := progress.New(report.StageRead)

	if err := Run(Config{Path: path, BufferBytes: 17 * 4, Threads: 2, Progress: prog}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := prog.Rows(); got != 5 {
		t.Fatalf("progress rows = %d, want 5", got)
	}
}
