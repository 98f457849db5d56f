//go:build windows

package linescan

import (
	"io"
	"os"
)

// mmapFile falls back to a full buffered read on Windows, avoiding the
// unsafe pointer arithmetic a CreateFileMapping/MapViewOfFile wrapper
// would otherwise require. The returned bool is always false, telling
// Close to simply drop the slice rather than attempt an unmap.
func mmapFile(f *os.File) ([]byte, bool, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func munmapFile(data []byte) error {
	return nil
}
