//go:build !windows

package linescan

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps f's full contents read-only. The returned bool reports
// whether the mapping is a real mmap (true here, except for an empty
// file, which is not mapped; always false on the Windows fallback),
// which Close uses to decide whether to munmap or
// simply drop the buffered copy.
func mmapFile(f *os.File) ([]byte, bool, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	size := fi.Size()
	if size == 0 {
		return []byte{}, false, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func munmapFile(data []byte) error {
	return unix.Munmap(data)
}
