package chanlun

import (
	"math"

	"ChanSentinel/internal/model"
)

// DetectFractals scans merged bars for strict three-bar tops and bottoms.
// After a hit the scan skips the two bars it consumed.
func DetectFractals(merged []model.Bar) []model.Fractal {
	var fractals []model.Fractal
	for i := 1; i+1 < len(merged); {
		prev, mid, next := merged[i-1], merged[i], merged[i+1]

		var typ model.FractalType
		var strength float64
		switch {
		case mid.High > prev.High && mid.High > next.High:
			typ = model.Top
			strength = math.Min(mid.High-prev.High, mid.High-next.High)
		case mid.Low < prev.Low && mid.Low < next.Low:
			typ = model.Bottom
			strength = math.Min(prev.Low-mid.Low, next.Low-mid.Low)
		default:
			i++
			continue
		}

		fractals = append(fractals, model.Fractal{
			Type:     typ,
			Time:     mid.Time,
			High:     mid.High,
			Low:      mid.Low,
			Strength: strength,
			Bars:     [3]model.Bar{prev, mid, next},
			Index:    len(fractals),
			BarIndex: i,
		})
		i += 2
	}
	return fractals
}
