package calculator

import (
	"errors"

	"ChanSentinel/internal/model"
)

// CalculateEMA returns the exponential moving average series of values.
// The first output equals the first input; each later value is
// alpha*x + (1-alpha)*prev with alpha = 2/(period+1).
func CalculateEMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(values) == 0 {
		return nil, nil
	}
	alpha := 2.0 / float64(period+1)
	ema := make([]float64, len(values))
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
	}
	return ema, nil
}

// ExtractCloses returns the close prices of bars in order.
func ExtractCloses(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
