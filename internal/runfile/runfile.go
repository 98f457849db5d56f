// Package runfile names and performs batched binary I/O on run files: the
// intermediate, internally-sorted files the external sort writes to a temp
// directory at each merge stage.
//
// A run file is a raw sequence of little-endian int32 values with no header
// and no separators. Because every run file is created and consumed by the
// same process before its temp directory is destroyed, the host's native
// byte order would also be an acceptable choice (spec note, §9); this
// package picks little-endian explicitly so the format is documented and
// reproducible regardless of host.
package runfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var order = binary.LittleEndian

// Name returns the path of the run file for the given stage and index
// inside dir, following the "<stage>_<index>" naming convention that later
// stages rely on to enumerate their inputs by contiguous index.
func Name(dir string, stage, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%d", stage, index))
}

// WriteAll creates the run file for (stage, index) and writes vals to it in
// a single buffered pass.
func WriteAll(dir string, stage, index int, vals []int32) error {
	f, err := os.Create(Name(dir, stage, index))
	if err != nil {
		return fmt.Errorf("runfile: create %d_%d: %w", stage, index, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 256*1024)
	if err := WriteBatch(w, vals); err != nil {
		return fmt.Errorf("runfile: write %d_%d: %w", stage, index, err)
	}
	return w.Flush()
}

// WriteBatch writes vals to w as a contiguous block of little-endian int32s
// using a single Write call.
func WriteBatch(w io.Writer, vals []int32) error {
	if len(vals) == 0 {
		return nil
	}
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		order.PutUint32(buf[i*4:], uint32(v))
	}
	_, err := w.Write(buf)
	return err
}

// ReadBatch reads up to len(out) int32s from r into out, returning the
// number actually read. It returns (0, nil) at a clean EOF, matching the
// original's fread() semantics (a short read due to EOF is not an error).
func ReadBatch(r io.Reader, out []int32) (int, error) {
	if len(out) == 0 {
		return 0, nil
	}
	buf := make([]byte, len(out)*4)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, err
	}
	count := n / 4
	for i := 0; i < count; i++ {
		out[i] = int32(order.Uint32(buf[i*4:]))
	}
	return count, nil
}

// Remove deletes the run file for (stage, index), ignoring a not-exist
// error (the caller may be cleaning up a partially-produced stage).
func Remove(dir string, stage, index int) error {
	err := os.Remove(Name(dir, stage, index))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
