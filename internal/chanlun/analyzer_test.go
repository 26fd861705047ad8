package chanlun

import (
	"testing"

	"ChanSentinel/internal/model"
)

func TestAnalyze_EmptyInput(t *testing.T) {
	res := Analyze(nil, DefaultParams())
	if res == nil {
		t.Fatal("expected a result for empty input")
	}
	if len(res.Merged) != 0 || len(res.Fractals) != 0 || len(res.Strokes) != 0 ||
		len(res.Segments) != 0 || len(res.Pivots) != 0 || len(res.TradePoints) != 0 {
		t.Errorf("expected every stage to be empty, got %d/%d/%d/%d/%d/%d",
			len(res.Merged), len(res.Fractals), len(res.Strokes), len(res.Segments), len(res.Pivots), len(res.TradePoints))
	}
	if res.Momentum.Available() {
		t.Error("momentum should be unavailable for empty input")
	}
}

func TestAnalyze_MonotonicRise(t *testing.T) {
	bars := make([]model.Bar, 50)
	for i := range bars {
		f := float64(i)
		b, err := model.NewBar(day(i), 3000+10*f, 3010+10*f, 2995+10*f, 3005+10*f, 1000, "RISE", i)
		if err != nil {
			t.Fatalf("bar %d: %v", i, err)
		}
		bars[i] = b
	}

	res := Analyze(bars, DefaultParams())
	if len(res.Merged) != 50 {
		t.Errorf("no bar should be merged, got %d merged bars", len(res.Merged))
	}
	if len(res.Fractals) != 0 || len(res.Strokes) != 0 {
		t.Errorf("expected no fractals or strokes, got %d / %d", len(res.Fractals), len(res.Strokes))
	}
	if !res.Momentum.Available() || len(res.Momentum.Hist) != 50 {
		t.Errorf("momentum should cover all 50 merged bars, got %d", len(res.Momentum.Hist))
	}
}

func TestAnalyze_DoesNotAliasInput(t *testing.T) {
	bars := zigzag(60)
	res := Analyze(bars, DefaultParams())
	bars[0].High = 1e9
	if res.Bars[0].High == 1e9 {
		t.Error("result should hold its own copy of the input bars")
	}
}

func TestAnalyze_Zigzag(t *testing.T) {
	res := Analyze(zigzag(200), DefaultParams())
	if len(res.Fractals) == 0 || len(res.Strokes) == 0 {
		t.Fatalf("expected structure on a zigzag, got %d fractals, %d strokes", len(res.Fractals), len(res.Strokes))
	}
	var withArea int
	for _, s := range res.Strokes {
		if s.MomentumArea > 0 {
			withArea++
		}
	}
	if withArea == 0 {
		t.Error("expected strokes to carry momentum area")
	}
	for _, pv := range res.Pivots {
		if pv.Trend == model.TrendUnknown {
			t.Errorf("pivot %d left unclassified", pv.Index)
		}
	}
}
