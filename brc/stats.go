package brc

// Stats holds the running aggregate for a single station.
type Stats struct {
	Min   float64
	Max   float64
	Sum   float64
	Count uint64
}

// NewStats returns a Stats seeded with a first observation.
func NewStats(v float64) Stats {
	return Stats{Min: v, Max: v, Sum: v, Count: 1}
}

// Add folds one observation into s.
func (s *Stats) Add(v float64) {
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
	s.Sum += v
	s.Count++
}

// Merge folds a partial aggregate into s. Merging is commutative and
// associative, so partials can be combined in any order.
func (s *Stats) Merge(o *Stats) {
	if o.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = *o
		return
	}
	if o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
	s.Sum += o.Sum
	s.Count += o.Count
}

// Mean returns the arithmetic mean of the observations.
func (s *Stats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}
