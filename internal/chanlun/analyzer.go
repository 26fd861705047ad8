package chanlun

import (
	"ChanSentinel/internal/calculator"
	"ChanSentinel/internal/model"
)

// Result holds every stage output of one analysis pass. Strokes point into
// Fractals, and Segments and Pivots point into Strokes.
type Result struct {
	Level       int
	Bars        []model.Bar
	Merged      []model.Bar
	Momentum    model.MomentumSeries
	Fractals    []model.Fractal
	Strokes     []model.Stroke
	Segments    []model.Segment
	Pivots      []model.Pivot
	TradePoints []model.TradePoint
}

// Analyze runs the full pipeline over a private copy of bars. It has no
// side effects and never fails; short inputs yield empty stages.
func Analyze(bars []model.Bar, p Params) *Result {
	p = p.withDefaults()

	// Step a: own the input
	res := &Result{Level: 1, Bars: make([]model.Bar, len(bars))}
	copy(res.Bars, bars)

	// Step b: containment and momentum
	res.Merged = MergeBars(res.Bars)
	if mom, err := calculator.CalculateMACD(calculator.ExtractCloses(res.Merged), p.MACDFast, p.MACDSlow, p.MACDSignal); err == nil {
		res.Momentum = mom
	}

	// Step c: structure
	res.Fractals = DetectFractals(res.Merged)
	res.Strokes = BuildStrokes(res.Fractals, res.Merged, p)
	AggregateMomentum(res.Strokes, res.Momentum.Hist)
	res.Segments = BuildSegments(res.Strokes, p)
	res.Pivots = DetectPivots(res.Strokes)
	ClassifyTrends(res.Pivots)

	// Step d: signals
	res.TradePoints = DetectTradePoints(res.Strokes, res.Pivots, p)
	return res
}
