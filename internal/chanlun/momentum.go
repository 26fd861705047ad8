package chanlun

import (
	"math"

	"ChanSentinel/internal/model"
)

// AggregateMomentum sets each stroke's momentum area to the sum of the
// absolute histogram over its merged-bar span, inclusive. Strokes whose
// span cannot be resolved keep zero.
func AggregateMomentum(strokes []model.Stroke, hist []float64) {
	for i := range strokes {
		s := &strokes[i]
		lo, hi := s.StartBar, s.EndBar
		if lo < 0 || hi < 0 {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi >= len(hist) {
			continue
		}
		area := 0.0
		for _, h := range hist[lo : hi+1] {
			area += math.Abs(h)
		}
		s.MomentumArea = area
	}
}
