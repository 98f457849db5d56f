// Package writer implements the Output Writer stage: it reads the final
// merged run file and rewrites the original input path as one decimal
// integer per line, truncating and rewriting it under an advisory
// exclusive lock so a concurrent reader that also locks the path sees
// either the old or the new content, never a half-written file.
package writer

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/joe-skb7/filesort/internal/runfile"
)

// Write reads finalRunPath (a raw little-endian int32 run file) in
// buf-sized chunks and rewrites outputPath as one decimal integer per
// line, truncating any previous content.
func Write(finalRunPath, outputPath string, buf []int32) error {
	if len(buf) == 0 {
		panic("writer: buf must not be empty")
	}

	in, err := os.Open(finalRunPath)
	if err != nil {
		return fmt.Errorf("writer: open %s: %w", finalRunPath, err)
	}
	defer in.Close()

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("writer: open %s: %w", outputPath, err)
	}
	defer out.Close()

	if err := lockFile(out); err != nil {
		return fmt.Errorf("writer: lock %s: %w", outputPath, err)
	}
	defer unlockFile(out)

	if err := out.Truncate(0); err != nil {
		return fmt.Errorf("writer: truncate %s: %w", outputPath, err)
	}

	w := bufio.NewWriterSize(out, 256*1024)
	var line [12]byte // sign + up to 10 digits + newline

	for {
		n, err := runfile.ReadBatch(in, buf)
		if err != nil {
			return fmt.Errorf("writer: read run: %w", err)
		}
		if n == 0 {
			break
		}
		for _, v := range buf[:n] {
			b := strconv.AppendInt(line[:0], int64(v), 10)
			b = append(b, '\n')
			if _, err := w.Write(b); err != nil {
				return fmt.Errorf("writer: write: %w", err)
			}
		}
	}

	return w.Flush()
}
