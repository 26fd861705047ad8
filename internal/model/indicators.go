package model

// MomentumSeries holds the MACD lines computed over merged-bar closes.
// All three slices are empty when there were too few bars.
type MomentumSeries struct {
	DIF  []float64 // fast EMA minus slow EMA
	DEA  []float64 // EMA of DIF
	Hist []float64 // 2 * (DIF - DEA)
}

// Available reports whether the series was computed.
func (m MomentumSeries) Available() bool { return len(m.Hist) > 0 }
