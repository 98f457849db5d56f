//go:build !amd64

package linescan

import "bytes"

func init() {
	scanImpl = scanNewlineGeneric
}

// scanNewlineGeneric is the portable fallback for non-AMD64 architectures.
func scanNewlineGeneric(data []byte) int {
	return bytes.IndexByte(data, '\n')
}
