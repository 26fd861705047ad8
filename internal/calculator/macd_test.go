package calculator

import (
	"math"
	"testing"
)

func TestCalculateEMA_SeedAndSmoothing(t *testing.T) {
	ema, err := CalculateEMA([]float64{10, 20, 20}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// alpha = 0.5
	want := []float64{10, 15, 17.5}
	for i := range want {
		if math.Abs(ema[i]-want[i]) > 1e-9 {
			t.Errorf("ema[%d] = %.4f, want %.4f", i, ema[i], want[i])
		}
	}
}

func TestCalculateEMA_InvalidPeriod(t *testing.T) {
	if _, err := CalculateEMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateMACD_TooFewBars(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	series, err := CalculateMACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Available() {
		t.Errorf("expected empty series for %d closes, got %d values", len(closes), len(series.Hist))
	}
}

func TestCalculateMACD_EqualLengthsAndHistogram(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	series, err := CalculateMACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.DIF) != len(closes) || len(series.DEA) != len(closes) || len(series.Hist) != len(closes) {
		t.Fatalf("series lengths %d/%d/%d, want %d", len(series.DIF), len(series.DEA), len(series.Hist), len(closes))
	}
	for i := range closes {
		want := 2 * (series.DIF[i] - series.DEA[i])
		if math.Abs(series.Hist[i]-want) > 1e-9 {
			t.Errorf("hist[%d] = %.6f, want %.6f", i, series.Hist[i], want)
		}
	}
	if series.DIF[0] != 0 {
		t.Errorf("first DIF should be 0 when both EMAs seed on the first close, got %.6f", series.DIF[0])
	}
}

func TestCalculateMACD_RisingSeriesPositiveDIF(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	series, err := CalculateMACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last := series.DIF[len(series.DIF)-1]; last <= 0 {
		t.Errorf("expected positive DIF on a rising series, got %.4f", last)
	}
}

func TestCalculateMACD_InvalidPeriods(t *testing.T) {
	if _, err := CalculateMACD([]float64{1, 2, 3}, 12, 0, 9); err == nil {
		t.Error("expected error for zero slow period")
	}
}
