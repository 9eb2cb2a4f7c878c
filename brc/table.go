package brc

import (
	"math/bits"
	"unsafe"

	"github.com/zeebo/xxh3"
)

const tableMaxLoad = 0.7

type entry struct {
	hash  uint64
	name  string
	stats Stats
}

// Table is an open-addressing hash table from station name to running
// stats, keyed by xxh3 with linear probing. A slot with Count zero is
// free, which every live entry satisfies from its first observation on.
// Add takes the name as a view into a shared read buffer and copies it
// only when a station is first seen, so steady-state updates allocate
// nothing.
type Table struct {
	entries []entry
	size    int
	mask    uint64
}

// NewTable returns a Table with room for capacity stations, rounded up
// to a power of two.
func NewTable(capacity int) *Table {
	capacity = nextPowerOfTwo(capacity)
	return &Table{
		entries: make([]entry, capacity),
		mask:    uint64(capacity - 1),
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

// unsafeString views b as a string without copying. The result aliases
// b and must not outlive it.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Add folds one observation into the entry for name, creating the entry
// on first sight.
func (t *Table) Add(name []byte, v float64) {
	if float64(t.size+1) > tableMaxLoad*float64(len(t.entries)) {
		t.grow()
	}

	h := xxh3.Hash(name)
	i := h & t.mask
	for {
		e := &t.entries[i]
		if e.stats.Count == 0 {
			e.hash = h
			e.name = string(name)
			e.stats = NewStats(v)
			t.size++
			return
		}
		if e.hash == h && e.name == unsafeString(name) {
			e.stats.Add(v)
			return
		}
		i = (i + 1) & t.mask
	}
}

// Get returns the stats recorded for name.
func (t *Table) Get(name string) (*Stats, bool) {
	h := xxh3.HashString(name)
	i := h & t.mask
	for {
		e := &t.entries[i]
		if e.stats.Count == 0 {
			return nil, false
		}
		if e.hash == h && e.name == name {
			return &e.stats, true
		}
		i = (i + 1) & t.mask
	}
}

// Len returns the number of distinct stations seen.
func (t *Table) Len() int {
	return t.size
}

// Range calls f for each station until f returns false.
func (t *Table) Range(f func(name string, stats *Stats) bool) {
	for i := range t.entries {
		if t.entries[i].stats.Count != 0 {
			if !f(t.entries[i].name, &t.entries[i].stats) {
				return
			}
		}
	}
}

func (t *Table) grow() {
	old := t.entries
	t.entries = make([]entry, 2*len(old))
	t.mask = uint64(len(t.entries) - 1)
	for i := range old {
		if old[i].stats.Count == 0 {
			continue
		}
		j := old[i].hash & t.mask
		for t.entries[j].stats.Count != 0 {
			j = (j + 1) & t.mask
		}
		t.entries[j] = old[i]
	}
}
