package chanlun

import (
	"math"

	"ChanSentinel/internal/model"
)

// contains reports whether either bar's range fully encloses the other's.
func contains(a, b model.Bar) bool {
	return (a.High >= b.High && a.Low <= b.Low) || (b.High >= a.High && b.Low <= a.Low)
}

// MergeBars resolves containment between consecutive bars. No two adjacent
// bars of the result contain each other, so merging the result again
// returns it unchanged.
func MergeBars(bars []model.Bar) []model.Bar {
	if len(bars) < 2 {
		out := make([]model.Bar, len(bars))
		copy(out, bars)
		return out
	}

	out := make([]model.Bar, 0, len(bars))
	out = append(out, bars[0])
	for _, cur := range bars[1:] {
		// A merged bar can itself be contained by the bar before it, so
		// keep folding into the tail until the pair is clean.
		for len(out) > 0 && contains(out[len(out)-1], cur) {
			last := out[len(out)-1]
			dir := last.Direction()
			if len(out) >= 2 {
				dir = out[len(out)-2].Direction()
			}
			out = out[:len(out)-1]
			cur = mergePair(last, cur, dir)
		}
		out = append(out, cur)
	}
	return out
}

// mergePair folds later into earlier. Up keeps the higher high and the
// higher low; Down keeps the lower high and the lower low.
func mergePair(earlier, later model.Bar, dir model.Direction) model.Bar {
	var high, low float64
	switch dir {
	case model.Up:
		high = math.Max(earlier.High, later.High)
		low = math.Max(earlier.Low, later.Low)
	case model.Down:
		high = math.Min(earlier.High, later.High)
		low = math.Min(earlier.Low, later.Low)
	}
	return model.Bar{
		Time:   later.Time,
		Open:   clamp(earlier.Open, low, high),
		High:   high,
		Low:    low,
		Close:  clamp(later.Close, low, high),
		Volume: earlier.Volume + later.Volume,
		Symbol: later.Symbol,
		Index:  later.Index,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
