package chanlun

import "time"

// Params holds the tunable thresholds of the analysis. The defaults are
// conventional values without a documented derivation; callers may tune them.
type Params struct {
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	MinBarGap        int // minimum merged-bar distance between stroke endpoints
	StartLookahead   int // candidates examined when choosing the first stroke start
	EndLookahead     int // same-type fractals absorbed at a stroke end
	SegmentLookahead int // strokes examined before a segment is force-closed

	DivergenceRatio float64 // price or momentum ratio below this is divergence
	RatioFloor      float64 // denominator floor for ratio computations

	MaxLevel        int
	NestedTolerance time.Duration // per-level time window for nested confirmation
	NestedBoost     float64
	NestedCap       float64
}

// DefaultParams returns the standard analysis parameters.
func DefaultParams() Params {
	return Params{
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		MinBarGap:        3,
		StartLookahead:   15,
		EndLookahead:     10,
		SegmentLookahead: 25,
		DivergenceRatio:  0.8,
		RatioFloor:       0.001,
		MaxLevel:         3,
		NestedTolerance:  5 * 24 * time.Hour,
		NestedBoost:      0.1,
		NestedCap:        0.98,
	}
}

// withDefaults fills zero-valued fields so a partially populated Params is usable.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.MACDFast <= 0 {
		p.MACDFast = d.MACDFast
	}
	if p.MACDSlow <= 0 {
		p.MACDSlow = d.MACDSlow
	}
	if p.MACDSignal <= 0 {
		p.MACDSignal = d.MACDSignal
	}
	if p.MinBarGap <= 0 {
		p.MinBarGap = d.MinBarGap
	}
	if p.StartLookahead <= 0 {
		p.StartLookahead = d.StartLookahead
	}
	if p.EndLookahead <= 0 {
		p.EndLookahead = d.EndLookahead
	}
	if p.SegmentLookahead <= 0 {
		p.SegmentLookahead = d.SegmentLookahead
	}
	if p.DivergenceRatio <= 0 {
		p.DivergenceRatio = d.DivergenceRatio
	}
	if p.RatioFloor <= 0 {
		p.RatioFloor = d.RatioFloor
	}
	if p.MaxLevel == 0 {
		p.MaxLevel = d.MaxLevel
	}
	if p.NestedTolerance <= 0 {
		p.NestedTolerance = d.NestedTolerance
	}
	if p.NestedBoost <= 0 {
		p.NestedBoost = d.NestedBoost
	}
	if p.NestedCap <= 0 {
		p.NestedCap = d.NestedCap
	}
	return p
}

// clampLevel bounds the requested depth to [1, 5].
func clampLevel(n int) int {
	switch {
	case n < 1:
		return 1
	case n > 5:
		return 5
	}
	return n
}
