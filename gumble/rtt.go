package gumble

// RTTStats is an incremental (Welford) running mean/variance accumulator
// for round-trip-time samples, in milliseconds. It is used for both the
// data and voice ping statistics (§4.5); being incremental means a long-
// running connection never retains per-sample history.
type RTTStats struct {
	count int
	mean  float64
	m2    float64
}

// Add folds one new sample (in milliseconds) into the running statistics.
func (s *RTTStats) Add(sampleMS float64) {
	s.count++
	delta := sampleMS - s.mean
	s.mean += delta / float64(s.count)
	delta2 := sampleMS - s.mean
	s.m2 += delta * delta2
}

// Count returns the number of samples folded in so far.
func (s *RTTStats) Count() int { return s.count }

// Mean returns the running mean, or 0 if no samples have been added.
func (s *RTTStats) Mean() float64 { return s.mean }

// Variance returns the running (population) variance, or 0 if fewer than
// two samples have been added.
func (s *RTTStats) Variance() float64 {
	if s.count < 2 {
		return 0
	}
	return s.m2 / float64(s.count)
}
