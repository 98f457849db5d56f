//go:build amd64

package linescan

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

func init() {
	if cpu.X86.HasSSE2 {
		scanImpl = scanNewlineSWAR
	} else {
		scanImpl = scanNewlineGeneric
	}
}

const (
	loBytes = 0x0101010101010101
	hiBytes = 0x8080808080808080
	nlBytes = 0x0A0A0A0A0A0A0A0A // '\n' broadcast across all 8 bytes
)

// scanNewlineSWAR finds the first '\n' in data using SWAR ("SIMD within a
// register"): eight bytes are tested per 64-bit word via the classic
// has-zero-byte bit trick instead of one byte at a time.
func scanNewlineSWAR(data []byte) int {
	n := len(data)
	i := 0

	for ; i+8 <= n; i += 8 {
		v := binary.LittleEndian.Uint64(data[i : i+8])
		x := v ^ nlBytes
		if mask := hasZeroByte(x); mask != 0 {
			return i + bits.TrailingZeros64(mask)/8
		}
	}

	for ; i < n; i++ {
		if data[i] == '\n' {
			return i
		}
	}
	return -1
}

// scanNewlineGeneric is the portable fallback for AMD64 CPUs without SSE2.
func scanNewlineGeneric(data []byte) int {
	return bytes.IndexByte(data, '\n')
}

// hasZeroByte returns a nonzero value with the high bit of each zero byte
// of v set, and 0 if v contains no zero byte.
func hasZeroByte(v uint64) uint64 {
	return (v - loBytes) & ^v & hiBytes
}
