package chanlun

import (
	"math"
	"testing"

	"ChanSentinel/internal/model"
)

func TestMergeBars_ContainedBarFoldsIntoPredecessor(t *testing.T) {
	bars := []model.Bar{
		bar(0, 100, 115, 95, 110),
		bar(1, 105, 112, 100, 108),
		bar(2, 105, 120, 103, 118),
	}
	merged := MergeBars(bars)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged bars, got %d", len(merged))
	}
	m := merged[0]
	if m.High != 115 || m.Low != 100 {
		t.Errorf("merged range = [%.0f, %.0f], want [100, 115]", m.Low, m.High)
	}
	if !m.Time.Equal(day(1)) || m.Index != 1 {
		t.Errorf("merged bar should take the later bar's time and index, got %s / %d", m.Time, m.Index)
	}
	if m.Volume != 2 {
		t.Errorf("volume = %.0f, want 2", m.Volume)
	}
	if m.Open < m.Low || m.Open > m.High || m.Close < m.Low || m.Close > m.High {
		t.Errorf("open/close not clamped into range: o=%.2f c=%.2f", m.Open, m.Close)
	}
	if merged[1] != bars[2] {
		t.Errorf("uncontained bar should pass through unchanged")
	}
}

func TestMergeBars_DownPolarity(t *testing.T) {
	bars := []model.Bar{
		bar(0, 110, 115, 95, 100),
		bar(1, 105, 112, 100, 108),
	}
	merged := MergeBars(bars)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged bar, got %d", len(merged))
	}
	if merged[0].High != 112 || merged[0].Low != 95 {
		t.Errorf("merged range = [%.0f, %.0f], want [95, 112]", merged[0].Low, merged[0].High)
	}
}

func TestMergeBars_PolarityFromBarTwoBack(t *testing.T) {
	bars := []model.Bar{
		bar(0, 90, 100, 85, 98),   // up
		bar(1, 108, 110, 95, 96),  // down, not contained
		bar(2, 100, 105, 97, 101), // contained in bar 1
	}
	merged := MergeBars(bars)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged bars, got %d", len(merged))
	}
	// bar 0 is up, so the low is pulled up
	if merged[1].High != 110 || merged[1].Low != 97 {
		t.Errorf("merged range = [%.0f, %.0f], want [97, 110]", merged[1].Low, merged[1].High)
	}
}

func TestMergeBars_CascadesIntoEarlierBar(t *testing.T) {
	bars := []model.Bar{
		bar(0, 100, 130, 95, 120),
		bar(1, 120, 125, 90, 100),
		bar(2, 105, 110, 100, 108),
	}
	merged := MergeBars(bars)
	if len(merged) != 1 {
		t.Fatalf("expected cascade into 1 bar, got %d", len(merged))
	}
	if merged[0].High != 130 || merged[0].Low != 100 {
		t.Errorf("merged range = [%.0f, %.0f], want [100, 130]", merged[0].Low, merged[0].High)
	}
}

func TestMergeBars_Idempotent(t *testing.T) {
	bars := make([]model.Bar, 200)
	for i := range bars {
		mid := 100 + 10*math.Sin(float64(i)/3) + 4*math.Cos(float64(i)*1.7)
		half := 1 + math.Abs(3*math.Sin(float64(i)*0.9))
		bars[i] = bar(i, mid, mid+half, mid-half, mid+half/2)
	}

	once := MergeBars(bars)
	for i := 1; i < len(once); i++ {
		if contains(once[i-1], once[i]) {
			t.Fatalf("merged bars %d and %d still contain each other", i-1, i)
		}
	}
	twice := MergeBars(once)
	if len(twice) != len(once) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second pass changed bar %d", i)
		}
	}
}

func TestMergeBars_ShortInput(t *testing.T) {
	if got := MergeBars(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d bars", len(got))
	}
	single := []model.Bar{bar(0, 1, 2, 0.5, 1.5)}
	got := MergeBars(single)
	if len(got) != 1 || got[0] != single[0] {
		t.Errorf("single bar should pass through unchanged, got %+v", got)
	}
}
