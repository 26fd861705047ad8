package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ChanSentinel/internal/chanlun"
)

// MockSource generates a deterministic swinging series for development
// and testing.
type MockSource struct {
	BasePrice float64
	Count     int
	Start     time.Time
}

// NewMockSource creates a MockSource of count daily rows around basePrice.
func NewMockSource(basePrice float64, count int) *MockSource {
	return &MockSource{
		BasePrice: basePrice,
		Count:     count,
		Start:     time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchRows(ctx context.Context, _ string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return generateMockRows(m.BasePrice, m.Count, m.Start), nil
}

func generateMockRows(basePrice float64, count int, start time.Time) []Row {
	rows := make([]Row, count)
	prev := basePrice
	for i := 0; i < count; i++ {
		x := float64(i)
		p := basePrice * (1 + 0.08*math.Sin(x/9) + 0.03*math.Sin(x/2.3) + 0.0005*x)
		open, close := prev, p
		high := math.Max(open, close) * 1.004
		low := math.Min(open, close) * 0.996
		rows[i] = Row{
			"date":   start.AddDate(0, 0, i).Format("2006-01-02"),
			"open":   strconv.FormatFloat(open, 'f', 4, 64),
			"high":   strconv.FormatFloat(high, 'f', 4, 64),
			"low":    strconv.FormatFloat(low, 'f', 4, 64),
			"close":  strconv.FormatFloat(close, 'f', 4, 64),
			"volume": strconv.Itoa(1000000 + (i%7)*50000),
		}
		prev = p
	}
	return rows
}

// ErrNoBars is returned when a source yields no usable bars.
var ErrNoBars = errors.New("no valid bars")

// Run is the outcome of one collection and analysis pass.
type Run struct {
	ID        string
	Symbol    string
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	RawRows   int
	Result    *chanlun.MultiLevelResult
}

// Collector fetches rows from a source and runs the multi-level analysis.
type Collector struct {
	Source Source
	Symbol string
	Params chanlun.Params
	logger zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(src Source, symbol string, params chanlun.Params) *Collector {
	return &Collector{
		Source: src,
		Symbol: symbol,
		Params: params,
		logger: log.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches the symbol's rows and analyzes them at every level.
func (c *Collector) Collect(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Symbol:    c.Symbol,
		Source:    c.Source.Name(),
		StartedAt: time.Now(),
	}
	logger := c.logger.With().Str("run_id", run.ID).Str("symbol", c.Symbol).Logger()

	rows, err := c.Source.FetchRows(ctx, c.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch rows from %s: %w", run.Source, err)
	}
	run.RawRows = len(rows)

	bars, err := BarsFromRows(rows, c.Symbol)
	if err != nil {
		return nil, fmt.Errorf("convert rows: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Symbol, ErrNoBars)
	}
	if dropped := len(rows) - len(bars); dropped > 0 {
		logger.Warn().Int("dropped", dropped).Int("rows", len(rows)).Msg("dropped unusable rows")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run.Result = chanlun.AnalyzeLevels(bars, c.Params)
	run.Duration = time.Since(run.StartedAt)

	base := run.Result.Levels[0]
	logger.Info().
		Int("bars", len(base.Bars)).
		Int("merged", len(base.Merged)).
		Int("strokes", len(base.Strokes)).
		Int("segments", len(base.Segments)).
		Int("pivots", len(base.Pivots)).
		Int("trade_points", len(base.TradePoints)).
		Int("levels", len(run.Result.Levels)).
		Int("nested", len(run.Result.Nested)).
		Dur("took", run.Duration).
		Msg("analysis complete")
	return run, nil
}
