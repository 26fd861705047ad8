package chanlun

import (
	"math"

	"ChanSentinel/internal/model"
)

// DetectPivots finds runs of at least three consecutive strokes sharing a
// price band. A seeded pivot absorbs following strokes while they strictly
// intersect the band, narrowing it each time.
func DetectPivots(strokes []model.Stroke) []model.Pivot {
	var pivots []model.Pivot
	for i := 0; i+3 <= len(strokes); {
		low := math.Max(strokes[i].Low(), math.Max(strokes[i+1].Low(), strokes[i+2].Low()))
		high := math.Min(strokes[i].High(), math.Min(strokes[i+1].High(), strokes[i+2].High()))
		if !(low < high) {
			i++
			continue
		}

		j := i + 3
		for ; j < len(strokes); j++ {
			s := &strokes[j]
			if !(s.Low() < high && s.High() > low) {
				break
			}
			low = math.Max(low, s.Low())
			high = math.Min(high, s.High())
		}

		pv := model.Pivot{
			Level:     1,
			Direction: strokes[i].Direction,
			High:      high,
			Low:       low,
			Index:     len(pivots),
			Trend:     model.TrendUnknown,
		}
		for k := i; k < j; k++ {
			pv.Strokes = append(pv.Strokes, &strokes[k])
		}
		pivots = append(pivots, pv)
		i = j
	}
	return pivots
}
