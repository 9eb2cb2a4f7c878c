package brc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"golang.org/x/exp/maps"
)

// round1 rounds v to one decimal place with halves toward positive
// infinity, so -1.25 becomes -1.2 and 1.25 becomes 1.3. Comparing
// against the truncation instead of adding 0.5 keeps values just below
// a half from being nudged over it, and a zero result is normalized so
// the report never shows -0.0.
func round1(v float64) float64 {
	x := v * 10
	t := math.Trunc(x)
	switch {
	case x < 0 && t-x == 0.5:
		// exact negative half, round up means keep t
	case math.Abs(x-t) >= 0.5:
		t += math.Copysign(1, x)
	}
	if t == 0 {
		return 0
	}
	return t / 10
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(round1(v), 'f', 1, 64)
}

// WriteReport writes one name=min/mean/max line per station to w,
// sorted by name byte-lexicographically, each value rounded to one
// decimal place.
func WriteReport(w io.Writer, stations map[string]*Stats) error {
	names := maps.Keys(stations)
	slices.Sort(names)

	bw := bufio.NewWriterSize(w, 1<<20)
	for _, name := range names {
		s := stations[name]
		bw.WriteString(name)
		bw.WriteByte('=')
		bw.WriteString(formatTemp(s.Min))
		bw.WriteByte('/')
		bw.WriteString(formatTemp(s.Mean()))
		bw.WriteByte('/')
		bw.WriteString(formatTemp(s.Max))
		bw.WriteByte(Newline)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
