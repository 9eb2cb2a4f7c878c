package brc

import "sync/atomic"

// Range is one claim handed to a worker: Len bytes to read starting at
// file offset Start. The first Nominal bytes belong to this range; the
// tail past Nominal is overlap shared with the next range so a record
// straddling the boundary can be finished where it started.
type Range struct {
	Start   int64
	Nominal int64
	Len     int64
}

// Chunker hands out consecutive file ranges. A claim is a single atomic
// fetch-add on the cursor, so any number of workers can pull from one
// Chunker without locks and every byte of the file is handed out exactly
// once.
type Chunker struct {
	cursor    atomic.Int64
	size      int64
	chunkSize int64
	overlap   int64
}

// NewChunker returns a Chunker over a file of size bytes, divided into
// chunkSize claims read with overlap extra bytes.
func NewChunker(size, chunkSize, overlap int64) *Chunker {
	return &Chunker{size: size, chunkSize: chunkSize, overlap: overlap}
}

// Next claims the next range. ok is false once the file is exhausted.
func (c *Chunker) Next() (Range, bool) {
	start := c.cursor.Add(c.chunkSize) - c.chunkSize
	if start >= c.size {
		return Range{}, false
	}
	r := Range{
		Start:   start,
		Nominal: min(c.chunkSize, c.size-start),
		Len:     min(c.chunkSize+c.overlap, c.size-start),
	}
	return r, true
}
