// Bench is a benchmarking tool for measuring segment build throughput,
// column iterator scan/seek throughput, and memory usage.
//
// Usage:
//
//	go run ./cmd/bench -docs 10000000 -columns 4 -value 8
//
// Flags:
//
//	-docs      Number of documents to index (default: 10,000,000)
//	-columns   Number of columns to populate per document (default: 4)
//	-value     Value size in bytes per column entry (default: 8)
//	-codec     Compression codec: identity or lz4 (default: lz4)
//	-sparse    Fraction of documents to skip per column, 0..1 (default: 0)
package main

import (
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/metrics"
	"runtime/pprof"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spaolacci/murmur3"

	iresearch "github.com/wanghenshui/iresearch"
	"github.com/wanghenshui/iresearch/compression"
)

// getMaxRSS returns the maximum resident set size in bytes. Uses
// getrusage(RUSAGE_SELF), which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024 // Linux reports KB, macOS reports bytes.
	}
	return maxRSS
}

// pseudoRandomValue derives a deterministic value for (doc, column) from
// a murmur3 hash, the same way the original MPHF benchmark derived
// pseudo-random keys — swapped here for pseudo-random term values since
// this engine has no key space of its own, only doc-id-indexed columns.
func pseudoRandomValue(doc iresearch.DocID, column int, size int) []byte {
	seed := uint32(column)*0x9e3779b1 + uint32(doc)
	h, _ := murmur3.Sum128WithSeed([]byte{byte(doc), byte(doc >> 8), byte(doc >> 16), byte(doc >> 24), byte(column)}, seed)
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(h >> (8 * uint(i%8)))
	}
	return buf
}

func main() {
	docsFlag := flag.Int("docs", 10_000_000, "number of documents")
	columnsFlag := flag.Int("columns", 4, "number of columns to populate per document")
	valueFlag := flag.Int("value", 8, "value size in bytes per column entry")
	codecFlag := flag.String("codec", "lz4", "compression codec: identity or lz4")
	sparseFlag := flag.Float64("sparse", 0, "fraction of documents to skip per column, 0..1")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (build phase only)")
	memprofile := flag.String("memprofile", "", "write memory profile to file (build phase only)")
	flag.Parse()

	numDocs := *docsFlag
	numColumns := *columnsFlag
	valueSize := *valueFlag
	sparse := *sparseFlag

	var codecID uint16
	switch *codecFlag {
	case "identity":
		codecID = 0
	case "lz4":
		codecID = 1
	default:
		fmt.Printf("Unknown codec: %s (use 'identity' or 'lz4')\n", *codecFlag)
		return
	}

	tmpDir, err := os.MkdirTemp("", "bench-segment-")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()
	segDir := filepath.Join(tmpDir, "segment-0001")
	if err := os.MkdirAll(segDir, 0o755); err != nil {
		fmt.Printf("Failed to create segment dir: %v\n", err)
		return
	}

	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)
	baselineRSS := getMaxRSS()

	var peakAlloc atomic.Uint64
	var peakRSS atomic.Uint64
	peakAlloc.Store(baseline.Alloc)
	peakRSS.Store(baselineRSS)
	done := make(chan struct{})
	go func() {
		samples := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				heapBytes := samples[0].Value.Uint64()
				for {
					old := peakAlloc.Load()
					if heapBytes <= old || peakAlloc.CompareAndSwap(old, heapBytes) {
						break
					}
				}
				rss := getMaxRSS()
				for {
					old := peakRSS.Load()
					if rss <= old || peakRSS.CompareAndSwap(old, rss) {
						break
					}
				}
			}
		}
	}()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Println("Building segment...")
	buildStart := time.Now()

	dir, err := iresearch.NewFSDirectory(segDir)
	if err != nil {
		fmt.Printf("NewFSDirectory failed: %v\n", err)
		return
	}
	w, err := iresearch.NewWriter(dir, compression.Default(), int64(numDocs)*int64(valueSize)*int64(numColumns))
	if err != nil {
		fmt.Printf("NewWriter failed: %v\n", err)
		return
	}

	columnNames := make([]string, numColumns)
	writers := make([]*iresearch.ColumnWriter, numColumns)
	for c := range writers {
		columnNames[c] = fmt.Sprintf("field_%03d", c)
		cw, err := w.Column(columnNames[c], codecID)
		if err != nil {
			fmt.Printf("Column failed: %v\n", err)
			return
		}
		writers[c] = cw
	}

	for doc := 1; doc <= numDocs; doc++ {
		d := iresearch.DocID(doc)
		for c, cw := range writers {
			if sparse > 0 && mrand.Float64() < sparse {
				continue
			}
			if err := cw.AddKey(d, pseudoRandomValue(d, c, valueSize)); err != nil {
				fmt.Printf("AddKey failed: %v\n", err)
				return
			}
		}
	}
	if err := w.Commit(); err != nil {
		fmt.Printf("Commit failed: %v\n", err)
		return
	}
	buildDuration := time.Since(buildStart)

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Printf("could not create memory profile: %v\n", err)
		} else {
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Printf("could not write memory profile: %v\n", err)
			}
			_ = f.Close()
		}
	}

	close(done)

	var final runtime.MemStats
	runtime.ReadMemStats(&final)
	if final.Alloc > peakAlloc.Load() {
		peakAlloc.Store(final.Alloc)
	}
	finalRSS := getMaxRSS()
	if finalRSS > peakRSS.Load() {
		peakRSS.Store(finalRSS)
	}
	peakHeapMem := peakAlloc.Load() - baseline.Alloc
	peakRSSMem := peakRSS.Load() - baselineRSS

	var dataSize, indexSize int64
	if info, err := os.Stat(filepath.Join(segDir, "columns.data")); err == nil {
		dataSize = info.Size()
	}
	if info, err := os.Stat(filepath.Join(segDir, "columns.index")); err == nil {
		indexSize = info.Size()
	}
	bytesPerDoc := float64(dataSize+indexSize) / float64(numDocs) / float64(numColumns)

	reader, err := iresearch.OpenReader(dir, compression.Default())
	if err != nil {
		fmt.Printf("OpenReader failed: %v\n", err)
		return
	}
	defer func() { _ = reader.Close() }()

	fmt.Println("Warming up scan...")
	for i := 0; i < 3; i++ {
		it, _ := iresearch.Existence(reader, columnNames[0])
		for it.Next() {
		}
	}

	fmt.Println("Benchmarking sequential scan...")
	scanStart := time.Now()
	var scanned int
	it, _ := iresearch.Existence(reader, columnNames[0])
	for it.Next() {
		scanned++
	}
	scanDuration := time.Since(scanStart)

	fmt.Println("Benchmarking random seeks...")
	numSeeks := 100_000
	if numSeeks > numDocs {
		numSeeks = numDocs
	}
	seekIt, _ := iresearch.Existence(reader, columnNames[0])
	seekStart := time.Now()
	for i := 0; i < numSeeks; i++ {
		target := iresearch.DocID(mrand.IntN(numDocs) + 1)
		seekIt.Seek(target)
	}
	seekDuration := time.Since(seekStart)

	var conjDuration time.Duration
	var conjMatched int
	if numColumns >= 2 {
		fmt.Println("Benchmarking two-column conjunction...")
		a, _ := iresearch.Existence(reader, columnNames[0])
		b, _ := iresearch.Existence(reader, columnNames[1])
		conj := iresearch.NewConjunction([]iresearch.DocIterator{a, b}, nil)
		conjStart := time.Now()
		for conj.Next() {
			conjMatched++
		}
		conjDuration = time.Since(conjStart)
	}

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╦══════════════════╗\n")
	fmt.Printf("║ Docs: %-14d║ Columns: %-5d ║ Codec: %-9s ║\n", numDocs, numColumns, *codecFlag)
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Metric              ║ Value          ║ Target           ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Bytes per doc/col   ║ %6.3f bytes   ║ -                ║\n", bytesPerDoc)
	fmt.Printf("║ Data file size      ║ %6.1f MB      ║ -                ║\n", float64(dataSize)/1_000_000)
	fmt.Printf("║ Index file size     ║ %6.1f MB      ║ -                ║\n", float64(indexSize)/1_000_000)
	fmt.Printf("║ Build time          ║ %6.2f sec     ║ -                ║\n", buildDuration.Seconds())
	fmt.Printf("║ Build throughput    ║ %6.2f M/sec   ║ -                ║\n", float64(numDocs)*float64(numColumns)/buildDuration.Seconds()/1_000_000)
	fmt.Printf("║ Scan time           ║ %6.2f sec     ║ -                ║\n", scanDuration.Seconds())
	fmt.Printf("║ Scan throughput     ║ %6.2f M/sec   ║ -                ║\n", float64(scanned)/scanDuration.Seconds()/1_000_000)
	fmt.Printf("║ Seek latency        ║ %6.2f μs      ║ -                ║\n", float64(seekDuration.Nanoseconds())/float64(numSeeks)/1000)
	if numColumns >= 2 {
		fmt.Printf("║ Conjunction time    ║ %6.2f sec     ║ -                ║\n", conjDuration.Seconds())
		fmt.Printf("║ Conjunction matched ║ %6d         ║ -                ║\n", conjMatched)
	}
	fmt.Printf("║ Peak heap memory    ║ %6.1f MB      ║ -                ║\n", float64(peakHeapMem)/1_000_000)
	fmt.Printf("║ Peak RSS memory     ║ %6.1f MB      ║ -                ║\n", float64(peakRSSMem)/1_000_000)
	fmt.Printf("╚═════════════════════╩════════════════╩══════════════════╝\n")
}
