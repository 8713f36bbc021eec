package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lawnstrings"
)

func main() {
	count := flag.Int("count", 10000, "Number of entries to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	// 1. Setup
	benchDir, err := os.MkdirTemp("", "lawnstrings_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d entries in %s...\n", *count, benchDir)
	startGen := time.Now()

	// Keys are written in reverse so the sort run has work to do.
	var b strings.Builder
	b.WriteString("\uFEFF")
	for i := *count; i > 0; i-- {
		fmt.Fprintf(&b, "[LEVEL_%d_NAME]\nLevel %d\nsecond line\n\n", i, i)
	}
	src := filepath.Join(benchDir, "strings.txt")
	if err := os.WriteFile(src, []byte(b.String()), 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Initialize Engine
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	eng := lawnstrings.New(lawnstrings.WithLogger(logger))
	ctx := context.Background()

	// 3. Run every conversion out of plain text, then back from RTON.
	results := make(map[string]time.Duration)
	var order []string
	run := func(name string, fn func() (string, error)) string {
		start := time.Now()
		out, err := fn()
		if err != nil {
			panic(err)
		}
		results[name] = time.Since(start)
		order = append(order, name)
		return out
	}

	var rtonMap string
	for _, to := range []lawnstrings.Format{
		lawnstrings.FormatJSONList,
		lawnstrings.FormatJSONMap,
		lawnstrings.FormatRTONList,
		lawnstrings.FormatRTONMap,
	} {
		out := run("plain -> "+to.String(), func() (string, error) {
			return eng.ConvertFile(ctx, src, lawnstrings.FormatPlainText, to)
		})
		if to == lawnstrings.FormatRTONMap {
			rtonMap = out
		}
	}
	run("rton-map -> plain", func() (string, error) {
		return eng.ConvertFile(ctx, rtonMap, lawnstrings.FormatRTONMap, lawnstrings.FormatPlainText)
	})
	run("sort plain", func() (string, error) {
		return eng.SortFile(ctx, src, lawnstrings.FormatPlainText)
	})

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d entries):\n", *count)
	for _, name := range order {
		fmt.Printf("  %-20s %v\n", name+":", results[name])
	}
	fmt.Printf("--------------------------------------------------\n")
}
