package anomaly

import "fmt"

// ScoreSet collects named per-record score columns over one input
// snapshot, the unit the combiner operates on.
type ScoreSet struct {
	n       int
	columns map[string][]float64
}

// NewScoreSet creates a ScoreSet for a snapshot of n records.
func NewScoreSet(n int) *ScoreSet {
	return &ScoreSet{n: n, columns: make(map[string][]float64)}
}

// Add registers a score column. The column length must match the
// snapshot size.
func (s *ScoreSet) Add(name string, scores []float64) error {
	if len(scores) != s.n {
		return fmt.Errorf("column %q has %d scores, want %d", name, len(scores), s.n)
	}
	col := make([]float64, len(scores))
	copy(col, scores)
	s.columns[name] = col
	return nil
}

// AddResults registers the score column of a detector run.
func (s *ScoreSet) AddResults(name string, results []Result) error {
	return s.Add(name, Scores(results))
}

// Combine blends the named columns into a single combined anomaly score
// in [0, 1] per record. Weights default to equal; they are normalized
// to sum to 1 before use, so proportionally equal weights produce
// identical output regardless of magnitude. Each column is min-max
// normalized over the snapshot first; constant columns normalize to 0.
// Names with no registered column contribute nothing. A weight list
// summing to 0 yields all-zero scores.
func (s *ScoreSet) Combine(names []string, weights []float64) []float64 {
	combined := make([]float64, s.n)
	if s.n == 0 || len(names) == 0 {
		return combined
	}

	if weights == nil {
		weights = make([]float64, len(names))
		for i := range weights {
			weights[i] = 1.0
		}
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return combined
	}
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / total
	}

	pairs := len(names)
	if len(normalized) < pairs {
		pairs = len(normalized)
	}

	for k := 0; k < pairs; k++ {
		col, ok := s.columns[names[k]]
		if !ok {
			continue
		}

		lo, hi := col[0], col[0]
		for _, v := range col {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}

		for i, v := range col {
			var scaled float64
			if hi > lo {
				scaled = (v - lo) / (hi - lo)
			}
			combined[i] += scaled * normalized[k]
		}
	}
	return combined
}
