// Package linescan provides zero-copy line splitting over a memory-mapped
// file. The Chunk Reader uses it to walk the input file without copying
// file contents into Go-managed memory before the numbers are parsed.
//
// Newline scanning is dispatched through a CPU-feature-gated function
// variable (see scan_amd64.go / scan_generic.go), following the same
// init()-time dispatch shape used for delimiter scanning elsewhere in this
// codebase's lineage, adapted here to a SWAR ("SIMD within a register")
// word-at-a-time scan instead of hand-written assembly.
package linescan

import "os"

// scanImpl locates the first newline in data, returning its index or -1 if
// none is present. It is assigned by an init() in scan_amd64.go or
// scan_generic.go depending on build target and detected CPU features.
var scanImpl func(data []byte) int

// File is a memory-mapped (or, on platforms without mmap support, fully
// buffered) view of a file's contents.
type File struct {
	data []byte
	mmap bool
}

// Open maps path into memory for reading. The returned File must be closed
// to release the mapping (or the buffered copy, on the fallback path).
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, mmap, err := mmapFile(f)
	if err != nil {
		return nil, err
	}
	return &File{data: data, mmap: mmap}, nil
}

// Bytes returns the file's contents. The slice is only valid until Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Close releases the mapping.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	if f.mmap {
		err := munmapFile(f.data)
		f.data = nil
		return err
	}
	f.data = nil
	return nil
}

// Scanner splits a byte slice into lines without allocating: each call to
// Next returns a sub-slice of the original data, excluding only the
// trailing newline itself. A CRLF line ending leaves the '\r' in the
// returned line as trailing garbage for the caller's parser to reject,
// matching the strict one-decimal-integer-per-line contract.
type Scanner struct {
	data []byte
	pos  int
}

// NewScanner returns a Scanner over data.
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next line and true, or (nil, false) once the data is
// exhausted. A final line with no trailing newline is still returned.
func (s *Scanner) Next() ([]byte, bool) {
	if s.pos >= len(s.data) {
		return nil, false
	}

	rest := s.data[s.pos:]
	nl := scanImpl(rest)
	if nl == -1 {
		line := rest
		s.pos = len(s.data)
		return line, true
	}

	line := rest[:nl]
	s.pos += nl + 1
	return line, true
}
