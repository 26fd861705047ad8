package chanlun

import (
	"testing"

	"ChanSentinel/internal/model"
)

func TestDetectPivots_AbsorbsIntersectingStroke(t *testing.T) {
	strokes := []model.Stroke{
		rangeStroke(0, model.Up, 10, 20),
		rangeStroke(1, model.Down, 15, 25),
		rangeStroke(2, model.Up, 12, 18),
		rangeStroke(3, model.Down, 16, 19),
		rangeStroke(4, model.Up, 25, 30),
	}
	pivots := DetectPivots(strokes)
	if len(pivots) != 1 {
		t.Fatalf("expected 1 pivot, got %d", len(pivots))
	}
	pv := pivots[0]
	if len(pv.Strokes) != 4 {
		t.Errorf("pivot should hold 4 strokes, got %d", len(pv.Strokes))
	}
	if pv.Low != 16 || pv.High != 18 {
		t.Errorf("pivot band = [%.0f, %.0f], want [16, 18]", pv.Low, pv.High)
	}
	if pv.Level != 1 || pv.Direction != model.Up {
		t.Errorf("pivot level/direction = %d/%s, want 1/up", pv.Level, pv.Direction)
	}
	if pv.Center() != 17 || pv.Amplitude() != 2 {
		t.Errorf("center/amplitude = %.1f/%.1f, want 17/2", pv.Center(), pv.Amplitude())
	}
}

func TestDetectPivots_SeedBand(t *testing.T) {
	strokes := []model.Stroke{
		rangeStroke(0, model.Up, 10, 20),
		rangeStroke(1, model.Down, 15, 25),
		rangeStroke(2, model.Up, 12, 18),
	}
	pivots := DetectPivots(strokes)
	if len(pivots) != 1 {
		t.Fatalf("expected 1 pivot, got %d", len(pivots))
	}
	if pivots[0].Low != 15 || pivots[0].High != 18 {
		t.Errorf("pivot band = [%.0f, %.0f], want [15, 18]", pivots[0].Low, pivots[0].High)
	}
}

func TestDetectPivots_AdvancesWithoutOverlap(t *testing.T) {
	strokes := []model.Stroke{
		rangeStroke(0, model.Up, 10, 12),
		rangeStroke(1, model.Down, 13, 20),
		rangeStroke(2, model.Up, 14, 22),
		rangeStroke(3, model.Down, 15, 21),
	}
	pivots := DetectPivots(strokes)
	if len(pivots) != 1 {
		t.Fatalf("expected 1 pivot, got %d", len(pivots))
	}
	if pivots[0].Strokes[0].Index != 1 {
		t.Errorf("pivot should start at stroke 1, got %d", pivots[0].Strokes[0].Index)
	}
}

func TestDetectPivots_OverlapInvariant(t *testing.T) {
	merged := MergeBars(zigzag(300))
	strokes := BuildStrokes(DetectFractals(merged), merged, DefaultParams())
	for i, pv := range DetectPivots(strokes) {
		if !(pv.Low < pv.High) {
			t.Errorf("pivot %d has empty band [%.2f, %.2f]", i, pv.Low, pv.High)
		}
		if len(pv.Strokes) < 3 {
			t.Errorf("pivot %d has %d strokes", i, len(pv.Strokes))
		}
		for _, s := range pv.Strokes {
			if s.Low() > pv.High || s.High() < pv.Low {
				t.Errorf("pivot %d: stroke %d [%.2f, %.2f] misses band [%.2f, %.2f]",
					i, s.Index, s.Low(), s.High(), pv.Low, pv.High)
			}
		}
	}
}

func TestClassifyTrends(t *testing.T) {
	band := func(low, high float64) model.Pivot { return model.Pivot{Low: low, High: high} }

	tests := []struct {
		name   string
		pivots []model.Pivot
		want   []model.TrendType
	}{
		{"lone", []model.Pivot{band(10, 12)}, []model.TrendType{model.Consolidation}},
		{"rising", []model.Pivot{band(10, 12), band(15, 17)}, []model.TrendType{model.TrendUp, model.TrendUp}},
		{"falling", []model.Pivot{band(15, 17), band(10, 12)}, []model.TrendType{model.TrendDown, model.TrendDown}},
		{"overlap", []model.Pivot{band(10, 12), band(11, 13)}, []model.TrendType{model.Consolidation, model.Consolidation}},
		{
			"consolidation kept",
			[]model.Pivot{band(10, 12), band(11, 13), band(20, 22)},
			[]model.TrendType{model.Consolidation, model.Consolidation, model.TrendUp},
		},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClassifyTrends(tt.pivots)
			for i, want := range tt.want {
				if tt.pivots[i].Trend != want {
					t.Errorf("pivot %d trend = %s, want %s", i, tt.pivots[i].Trend, want)
				}
			}
		})
	}
}
