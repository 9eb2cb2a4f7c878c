package brc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/klauspost/compress/zstd"
)

// Aggregate is the single-threaded path. It scans r line by line into a
// swiss table and returns the same Result shape as Process, so the two
// can be checked against each other record for record. It also serves
// streams that cannot be read at arbitrary offsets.
func Aggregate(r io.Reader) (*Result, error) {
	m := swiss.NewMap[string, *Stats](1024)
	res := &Result{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		name, raw, ok := SplitRecord(line)
		if !ok {
			res.Malformed++
			continue
		}
		v, ok := ParseTemp(raw)
		if !ok {
			res.Malformed++
			continue
		}
		if s, found := m.Get(unsafeString(name)); found {
			s.Add(v)
		} else {
			owned := NewStats(v)
			m.Put(string(name), &owned)
		}
		res.Rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}

	res.Stations = make(map[string]*Stats, m.Count())
	m.Iter(func(name string, s *Stats) bool {
		res.Stations[name] = s
		return false
	})
	return res, nil
}

// AggregateFile runs the sequential path over the file at path,
// transparently decoding zstd input when the name ends in .zst.
func AggregateFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader for %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	return Aggregate(r)
}
