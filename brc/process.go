// Package brc aggregates per-station min/mean/max over huge
// name;value measurement files. The parallel path carves the file into
// fixed-size ranges claimed through an atomic cursor, reads each range
// with a positioned read, aggregates into per-worker hash tables, and
// merges every worker's table into a shared result exactly once.
package brc

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultChunkSize is how many bytes one claim covers.
	DefaultChunkSize = 16 * 1024 * 1024
	// DefaultOverlap is read past each chunk so a record straddling a
	// boundary can be finished. It must exceed the longest record; names
	// run to a hundred bytes in the canonical dataset.
	DefaultOverlap = 128
	// Delim separates the station name from the measurement.
	Delim = ';'
	// Newline terminates a record.
	Newline = '\n'
)

// Config controls a parallel run. Zero fields fall back to the package
// defaults.
type Config struct {
	ChunkSize int64
	Overlap   int64
	Workers   int
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Overlap <= 0 {
		c.Overlap = DefaultOverlap
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// Result is the outcome of one aggregation run.
type Result struct {
	Stations  map[string]*Stats
	Rows      uint64
	Malformed uint64
}

// Process aggregates every record of the name;value file exposed by r.
// Workers claim ranges until the cursor runs past size, then each folds
// its private table into the shared result under one mutex acquisition
// and exits. The first worker error cancels the group context, which the
// others observe between claims; on error no partial result is returned.
func Process(ctx context.Context, r io.ReaderAt, size int64, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	res := &Result{Stations: make(map[string]*Stats, 1024)}
	if size == 0 {
		return res, nil
	}

	var mu sync.Mutex
	chunker := NewChunker(size, cfg.ChunkSize, cfg.Overlap)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			buf := make([]byte, cfg.ChunkSize+cfg.Overlap)
			local := NewTable(1024)
			var rows, malformed uint64

			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				rng, ok := chunker.Next()
				if !ok {
					break
				}
				b := buf[:rng.Len]
				n, err := r.ReadAt(b, rng.Start)
				if int64(n) < rng.Len {
					if err == nil || err == io.EOF {
						err = io.ErrUnexpectedEOF
					}
					return fmt.Errorf("read %d bytes at offset %d: %w", rng.Len, rng.Start, err)
				}
				nr, nm := processRange(b, rng, size, local)
				rows += nr
				malformed += nm
			}

			mu.Lock()
			defer mu.Unlock()
			local.Range(func(name string, stats *Stats) bool {
				if s, ok := res.Stations[name]; ok {
					s.Merge(stats)
				} else {
					owned := *stats
					res.Stations[name] = &owned
				}
				return true
			})
			res.Rows += rows
			res.Malformed += malformed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// processRange folds the records owned by rng into local. A range owns
// the records finished strictly after the previous range's handoff
// terminator and up through the first terminator at or past its own
// nominal end, so every record in the file lands in exactly one range.
// A range that starts mid-file first skips to the terminator of the
// record it cut into; whichever range scans up to an unterminated final
// record takes it as if EOF were its terminator. Records longer than
// the chunk or the overlap break the ownership argument, which is why
// DefaultOverlap tracks the longest record the format allows.
func processRange(buf []byte, rng Range, fileSize int64, local *Table) (rows, malformed uint64) {
	pos := 0
	if rng.Start > 0 {
		i := NextNewline(buf)
		if i < 0 {
			// The whole range is the interior of a record finished by
			// an earlier range.
			return 0, 0
		}
		pos = i + 1
	}

	atEOF := rng.Start+rng.Len == fileSize
	for pos < len(buf) {
		rel := NextNewline(buf[pos:])
		if rel < 0 {
			if atEOF {
				r, m := consume(buf[pos:], local)
				rows += r
				malformed += m
			}
			break
		}
		term := pos + rel
		r, m := consume(buf[pos:term], local)
		rows += r
		malformed += m
		pos = term + 1
		if int64(term) >= rng.Nominal {
			break
		}
	}
	return rows, malformed
}

// consume parses one record and folds it into local. Empty records are
// ignored; anything else that fails to split or parse counts as
// malformed and is dropped.
func consume(line []byte, local *Table) (rows, malformed uint64) {
	if len(line) == 0 {
		return 0, 0
	}
	name, raw, ok := SplitRecord(line)
	if !ok {
		return 0, 1
	}
	v, ok := ParseTemp(raw)
	if !ok {
		return 0, 1
	}
	local.Add(name, v)
	return 1, 0
}
