package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ChanSentinel/internal/chanlun"
)

// Detail selects how much of the analysis a report carries.
type Detail string

const (
	DetailBasic    Detail = "basic"    // fractals and strokes
	DetailAdvanced Detail = "advanced" // plus segments and pivots
	DetailFull     Detail = "full"     // plus trade points
)

// ParseDetail parses a detail level; the empty string means full.
func ParseDetail(s string) (Detail, error) {
	switch d := Detail(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DetailFull, nil
	case DetailBasic, DetailAdvanced, DetailFull:
		return d, nil
	}
	return "", fmt.Errorf("unknown detail level %q (want basic, advanced or full)", s)
}

func (d Detail) includesStructure() bool { return d == DetailAdvanced || d == DetailFull }
func (d Detail) includesSignals() bool   { return d == DetailFull }

// Options controls report construction.
type Options struct {
	Detail      Detail
	IncludeBars bool
}

// Meta describes the run that produced the analysis.
type Meta struct {
	RunID      string
	Symbol     string
	Source     string
	AnalyzedAt time.Time
	Duration   time.Duration
}

// Stats summarises a report.
type Stats struct {
	Symbol            string `json:"symbol"`
	RunID             string `json:"run_id,omitempty"`
	Source            string `json:"source,omitempty"`
	Detail            Detail `json:"detail"`
	AnalyzedAt        string `json:"analyzed_at"`
	DurationMs        int64  `json:"duration_ms"`
	RawBars           int    `json:"raw_bars"`
	MergedBars        int    `json:"merged_bars"`
	Fractals          int    `json:"fractals"`
	Strokes           int    `json:"strokes"`
	Segments          int    `json:"segments"`
	Pivots            int    `json:"pivots"`
	TradePoints       int    `json:"trade_points"`
	NestedTradePoints int    `json:"nested_trade_points"`
	Levels            int    `json:"levels"`
	MomentumAvailable bool   `json:"momentum_available"`
}

// LevelSummary counts the structures found at one resolution level.
type LevelSummary struct {
	Level       int `json:"level"`
	Bars        int `json:"bars"`
	MergedBars  int `json:"merged_bars"`
	Fractals    int `json:"fractals"`
	Strokes     int `json:"strokes"`
	Segments    int `json:"segments"`
	Pivots      int `json:"pivots"`
	TradePoints int `json:"trade_points"`
}

// Report is the serialisable view of a multi-level analysis. Sections left
// out by the detail level are omitted; included sections are never null.
type Report struct {
	Stats             Stats                     `json:"stats"`
	Levels            []LevelSummary            `json:"levels"`
	Fractals          []FractalRecord           `json:"fractals"`
	Strokes           []StrokeRecord            `json:"strokes"`
	Segments          *[]SegmentRecord          `json:"segments,omitempty"`
	Pivots            *[]PivotRecord            `json:"pivots,omitempty"`
	TradePoints       *[]TradePointRecord       `json:"trade_points,omitempty"`
	NestedTradePoints *[]NestedTradePointRecord `json:"nested_trade_points,omitempty"`
	BarsRaw           *[]BarRecord              `json:"bars_raw,omitempty"`
	BarsMerged        *[]BarRecord              `json:"bars_merged,omitempty"`
}

// Build renders the level-1 structures of res, per-level counts and the
// nested trade points.
func Build(res *chanlun.MultiLevelResult, meta Meta, opts Options) *Report {
	if opts.Detail == "" {
		opts.Detail = DetailFull
	}
	base := res.Level(1)
	if base == nil {
		base = &chanlun.Result{Level: 1}
	}

	r := &Report{
		Stats: Stats{
			Symbol:            meta.Symbol,
			RunID:             meta.RunID,
			Source:            meta.Source,
			Detail:            opts.Detail,
			AnalyzedAt:        isoTime(meta.AnalyzedAt),
			DurationMs:        meta.Duration.Milliseconds(),
			RawBars:           len(base.Bars),
			MergedBars:        len(base.Merged),
			Fractals:          len(base.Fractals),
			Strokes:           len(base.Strokes),
			Segments:          len(base.Segments),
			Pivots:            len(base.Pivots),
			TradePoints:       len(base.TradePoints),
			NestedTradePoints: len(res.Nested),
			Levels:            len(res.Levels),
			MomentumAvailable: base.Momentum.Available(),
		},
		Levels:   levelSummaries(res),
		Fractals: fractalRecords(base.Fractals),
		Strokes:  strokeRecords(base.Strokes),
	}

	if opts.Detail.includesStructure() {
		segments := segmentRecords(base.Segments)
		pivots := pivotRecords(base.Pivots)
		r.Segments, r.Pivots = &segments, &pivots
	}
	if opts.Detail.includesSignals() {
		points := tradePointRecords(base.TradePoints)
		nested := nestedRecords(res.Nested)
		r.TradePoints, r.NestedTradePoints = &points, &nested
	}
	if opts.IncludeBars {
		raw := barRecords(base.Bars)
		merged := barRecords(base.Merged)
		r.BarsRaw, r.BarsMerged = &raw, &merged
	}
	return r
}

func levelSummaries(res *chanlun.MultiLevelResult) []LevelSummary {
	out := make([]LevelSummary, 0, len(res.Levels))
	for _, l := range res.Levels {
		out = append(out, LevelSummary{
			Level:       l.Level,
			Bars:        len(l.Bars),
			MergedBars:  len(l.Merged),
			Fractals:    len(l.Fractals),
			Strokes:     len(l.Strokes),
			Segments:    len(l.Segments),
			Pivots:      len(l.Pivots),
			TradePoints: len(l.TradePoints),
		})
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// SaveFile writes the report to filePath. The file is replaced atomically so
// readers never see a partial report.
func (r *Report) SaveFile(filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := r.WriteJSON(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}
