package brc

import (
	"fmt"
	"os"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/maps"
)

// arrowSchema describes one summary row per station.
var arrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "station", Type: arrow.BinaryTypes.String},
	{Name: "min", Type: arrow.PrimitiveTypes.Float64},
	{Name: "mean", Type: arrow.PrimitiveTypes.Float64},
	{Name: "max", Type: arrow.PrimitiveTypes.Float64},
	{Name: "count", Type: arrow.PrimitiveTypes.Uint64},
}, nil)

// WriteArrow writes the per-station summary to path as a single-batch
// Arrow IPC file. Rows are sorted by station name and carry the same
// rounded values as the text report, plus the observation count.
func WriteArrow(path string, stations map[string]*Stats) error {
	names := maps.Keys(stations)
	slices.Sort(names)

	pool := memory.NewGoAllocator()
	b := array.NewRecordBuilder(pool, arrowSchema)
	defer b.Release()

	stationB := b.Field(0).(*array.StringBuilder)
	minB := b.Field(1).(*array.Float64Builder)
	meanB := b.Field(2).(*array.Float64Builder)
	maxB := b.Field(3).(*array.Float64Builder)
	countB := b.Field(4).(*array.Uint64Builder)
	for _, name := range names {
		s := stations[name]
		stationB.Append(name)
		minB.Append(round1(s.Min))
		meanB.Append(round1(s.Mean()))
		maxB.Append(round1(s.Max))
		countB.Append(s.Count)
	}

	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(arrowSchema), ipc.WithAllocator(pool))
	if err != nil {
		f.Close()
		return fmt.Errorf("arrow writer for %s: %w", path, err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("write summary batch: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return f.Close()
}
