package chanlun

import "ChanSentinel/internal/model"

// ClassifyTrends labels pivots in place by comparing each with its
// predecessor. Overlapping neighbours are consolidation; otherwise the
// later centre decides the trend, which is also given to the predecessor
// when it has no label yet.
func ClassifyTrends(pivots []model.Pivot) {
	for i := range pivots {
		pivots[i].Trend = model.TrendUnknown
	}
	if len(pivots) == 1 {
		pivots[0].Trend = model.Consolidation
		return
	}
	for i := 1; i < len(pivots); i++ {
		prev, cur := &pivots[i-1], &pivots[i]
		if prev.Low <= cur.High && cur.Low <= prev.High {
			prev.Trend = model.Consolidation
			cur.Trend = model.Consolidation
			continue
		}
		label := model.TrendDown
		if cur.Center() > prev.Center() {
			label = model.TrendUp
		}
		cur.Trend = label
		if prev.Trend == model.TrendUnknown {
			prev.Trend = label
		}
	}
}
