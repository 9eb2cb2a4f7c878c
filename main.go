package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/exp/mmap"

	"github.com/beowolx/fast-1brc/brc"
)

type options struct {
	mmap       bool
	serial     bool
	workers    int
	arrowPath  string
	cpuprofile bool
	verbose    bool
}

func main() {
	var o options
	flag.BoolVar(&o.mmap, "mmap", false, "read through a memory mapping instead of positioned reads")
	flag.BoolVar(&o.serial, "serial", false, "single-threaded mode (implied for .zst input)")
	flag.IntVar(&o.workers, "workers", 0, "worker goroutines (default: number of CPUs)")
	flag.StringVar(&o.arrowPath, "arrow", "", "also write the summary as an Arrow IPC file")
	flag.BoolVar(&o.cpuprofile, "cpuprofile", false, "write a CPU profile to the current directory")
	flag.BoolVar(&o.verbose, "v", false, "log stage timings to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] measurements.txt\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if o.cpuprofile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	if err := run(flag.Arg(0), o); err != nil {
		log.Fatalf("fast-1brc: %v", err)
	}
}

func run(path string, o options) error {
	start := time.Now()
	logf := func(string, ...any) {}
	if o.verbose {
		logf = log.Printf
	}

	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	size := fi.Size()
	logf("input %s: %.2f MB", path, float64(size)/(1024*1024))

	var res *brc.Result
	switch {
	case o.serial || strings.HasSuffix(path, ".zst"):
		res, err = brc.AggregateFile(path)
		if err != nil {
			return err
		}
	case o.mmap:
		r, err := mmap.Open(path)
		if err != nil {
			return fmt.Errorf("mmap %s: %w", path, err)
		}
		defer r.Close()
		logf("mapped in %v", time.Since(start))
		res, err = brc.Process(context.Background(), r, int64(r.Len()), brc.Config{Workers: o.workers})
		if err != nil {
			return err
		}
	default:
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		adviseSequential(f, size)
		res, err = brc.Process(context.Background(), f, size, brc.Config{Workers: o.workers})
		if err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	if res.Malformed > 0 {
		log.Printf("skipped %d malformed records", res.Malformed)
	}
	logf("aggregated %d rows into %d stations in %v (%.1f MB/s)",
		res.Rows, len(res.Stations), elapsed,
		float64(size)/(1024*1024)/elapsed.Seconds())

	if o.arrowPath != "" {
		if err := brc.WriteArrow(o.arrowPath, res.Stations); err != nil {
			return err
		}
		logf("wrote Arrow summary to %s", o.arrowPath)
	}

	if err := brc.WriteReport(os.Stdout, res.Stations); err != nil {
		return err
	}
	logf("done in %v", time.Since(start))
	return nil
}
