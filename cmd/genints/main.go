// Command genints generates a file of random signed 32-bit decimal
// integers and times a filesort run over it, reporting throughput. It is
// a developer benchmarking tool, not part of the sort itself.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joe-skb7/filesort/internal/engine"
)

func main() {
	count := flag.Int("n", 1_000_000, "number of integers to generate")
	bufMiB := flag.Int("b", 128, "sort buffer size in MiB")
	threads := flag.Int("t", runtime.NumCPU(), "sort worker thread count")
	keep := flag.String("out", "", "write the generated file here instead of a temp file (kept after the run)")
	flag.Parse()

	path := *keep
	if path == "" {
		f, err := os.CreateTemp("", "genints.*.txt")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = f.Name()
		f.Close()
		defer os.Remove(path)
	}

	fmt.Printf("Generating %d random integers into %s...\n", *count, path)
	bytesWritten, err := generate(path, *count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Sorting...")
	start := time.Now()
	if err := engine.Run(engine.Config{
		Path:        path,
		BufferBytes: *bufMiB << 20,
		Threads:     *threads,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	mbPerSec := float64(bytesWritten) / 1024 / 1024 / elapsed.Seconds()
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Rows:       %d\n", *count)
	fmt.Printf("Throughput: %.2f MB/s\n", mbPerSec)
	fmt.Printf("Time:       %v\n", elapsed)
	fmt.Printf("--------------------------------------------------\n")
}

// generate writes n random signed 32-bit decimal integers, one per line,
// to path, and returns the number of bytes written.
func generate(path string, n int) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 256*1024)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var written int64
	var line [12]byte
	for i := 0; i < n; i++ {
		v := int32(rng.Uint32())
		b := strconv.AppendInt(line[:0], int64(v), 10)
		b = append(b, '\n')
		nw, err := w.Write(b)
		if err != nil {
			return written, err
		}
		written += int64(nw)
	}

	if err := w.Flush(); err != nil {
		return written, err
	}
	return written, nil
}
