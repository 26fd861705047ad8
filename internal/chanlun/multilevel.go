package chanlun

import (
	"math"
	"time"

	"ChanSentinel/internal/model"
)

// MultiLevelResult is the outcome of a multi-resolution analysis. Levels[0]
// is level 1 on the raw bars.
type MultiLevelResult struct {
	Levels []*Result
	Nested []model.NestedTradePoint
}

// Level returns the result of the given 1-based level, or nil.
func (m *MultiLevelResult) Level(n int) *Result {
	if n < 1 || n > len(m.Levels) {
		return nil
	}
	return m.Levels[n-1]
}

// AnalyzeLevels analyzes bars at level 1 and then feeds each level's
// segments as bars into the next, up to p.MaxLevel clamped to [1, 5].
// It stops early when a level yields fewer than three segments.
func AnalyzeLevels(bars []model.Bar, p Params) *MultiLevelResult {
	p = p.withDefaults()
	maxLevel := clampLevel(p.MaxLevel)

	symbol := ""
	if len(bars) > 0 {
		symbol = bars[0].Symbol
	}

	levels := []*Result{Analyze(bars, p)}
	for lvl := 2; lvl <= maxLevel; lvl++ {
		synth := SegmentsToBars(levels[len(levels)-1].Segments, symbol)
		if len(synth) < 3 {
			break
		}
		r := Analyze(synth, p)
		r.Level = lvl
		for i := range r.Pivots {
			r.Pivots[i].Level = lvl
		}
		levels = append(levels, r)
	}

	return &MultiLevelResult{
		Levels: levels,
		Nested: confirmNested(levels, p),
	}
}

// SegmentsToBars converts segments into one synthetic bar each, stamped
// with the segment end. Up segments open at the low and close at the high.
func SegmentsToBars(segments []model.Segment, symbol string) []model.Bar {
	bars := make([]model.Bar, 0, len(segments))
	for i := range segments {
		seg := &segments[i]
		high, low := seg.High(), seg.Low()
		var open, close float64
		switch seg.Direction {
		case model.Up:
			open, close = low, high
		case model.Down:
			open, close = high, low
		}
		bars = append(bars, model.Bar{
			Time:   seg.EndTime(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Symbol: symbol,
			Index:  i,
		})
	}
	return bars
}

// confirmNested keeps the level-1 points that a same-typed point at some
// higher level L matches within L times the tolerance.
func confirmNested(levels []*Result, p Params) []model.NestedTradePoint {
	if len(levels) < 2 {
		return nil
	}
	var nested []model.NestedTradePoint
	for _, tp := range levels[0].TradePoints {
		var confirmed []int
		for _, r := range levels[1:] {
			tol := time.Duration(r.Level) * p.NestedTolerance
			for _, q := range r.TradePoints {
				if q.Type == tp.Type && absDuration(q.Time.Sub(tp.Time)) <= tol {
					confirmed = append(confirmed, r.Level)
					break
				}
			}
		}
		if len(confirmed) == 0 {
			continue
		}
		boosted := tp
		boosted.Strength = math.Min(p.NestedCap, tp.Strength+p.NestedBoost*float64(len(confirmed)))
		nested = append(nested, model.NestedTradePoint{TradePoint: boosted, ConfirmedLevels: confirmed})
	}
	return nested
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
