package calculator

import (
	"fmt"

	"ChanSentinel/internal/model"
)

// CalculateMACD computes the DIF, DEA and histogram series over closes.
// When there are fewer closes than the slow period the returned series is
// empty and err is nil: momentum is simply unavailable.
func CalculateMACD(closes []float64, fast, slow, signal int) (model.MomentumSeries, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return model.MomentumSeries{}, fmt.Errorf("macd periods must be positive, got %d/%d/%d", fast, slow, signal)
	}
	if len(closes) < slow {
		return model.MomentumSeries{}, nil
	}

	fastEMA, err := CalculateEMA(closes, fast)
	if err != nil {
		return model.MomentumSeries{}, fmt.Errorf("fast ema: %w", err)
	}
	slowEMA, err := CalculateEMA(closes, slow)
	if err != nil {
		return model.MomentumSeries{}, fmt.Errorf("slow ema: %w", err)
	}

	dif := make([]float64, len(closes))
	for i := range closes {
		dif[i] = fastEMA[i] - slowEMA[i]
	}
	dea, err := CalculateEMA(dif, signal)
	if err != nil {
		return model.MomentumSeries{}, fmt.Errorf("signal ema: %w", err)
	}
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = 2 * (dif[i] - dea[i])
	}
	return model.MomentumSeries{DIF: dif, DEA: dea, Hist: hist}, nil
}
