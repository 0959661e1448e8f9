// internal/monitor/stats.go
package monitor

import "math"

// Stats summarizes the samples in the window.
type Stats struct {
	Count int

	MinActual  float64
	MaxActual  float64
	MeanActual float64

	// Low and High bound both series with 10% padding, or 1 degree
	// when the series are flat.
	Low  float64
	High float64
}

// Stats computes a summary of the current window. ok is false when empty.
func (m *Monitor) Stats() (Stats, bool) {
	samples := m.Samples()
	if len(samples) == 0 {
		return Stats{}, false
	}

	st := Stats{
		Count:     len(samples),
		MinActual: math.Inf(1),
		MaxActual: math.Inf(-1),
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	var sum float64

	for _, s := range samples {
		sum += s.Actual
		st.MinActual = math.Min(st.MinActual, s.Actual)
		st.MaxActual = math.Max(st.MaxActual, s.Actual)
		lo = math.Min(lo, math.Min(s.Actual, s.Target))
		hi = math.Max(hi, math.Max(s.Actual, s.Target))
	}
	st.MeanActual = sum / float64(len(samples))

	pad := 1.0
	if hi != lo {
		pad = (hi - lo) * 0.1
	}
	st.Low, st.High = lo-pad, hi+pad
	return st, true
}
