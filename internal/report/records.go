package report

import (
	"time"

	"ChanSentinel/internal/model"
)

// BarRecord is a raw or merged bar.
type BarRecord struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	Index  int     `json:"index"`
}

type FractalRecord struct {
	Type     string  `json:"type"`
	Time     string  `json:"time"`
	Price    float64 `json:"price"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Strength float64 `json:"strength"`
	Index    int     `json:"index"`
}

type StrokeRecord struct {
	Direction    string  `json:"direction"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	StartPrice   float64 `json:"start_price"`
	EndPrice     float64 `json:"end_price"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Power        float64 `json:"power"`
	MomentumArea float64 `json:"momentum_area"`
	StartBar     int     `json:"start_bar"`
	EndBar       int     `json:"end_bar"`
	Index        int     `json:"index"`
}

type SegmentRecord struct {
	Direction   string  `json:"direction"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	StrokeCount int     `json:"stroke_count"`
	Index       int     `json:"index"`
}

type PivotRecord struct {
	Level       int     `json:"level"`
	Direction   string  `json:"direction"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Center      float64 `json:"center"`
	Amplitude   float64 `json:"amplitude"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	StrokeCount int     `json:"stroke_count"`
	Trend       string  `json:"trend"`
	Index       int     `json:"index"`
}

type TradePointRecord struct {
	Type               string  `json:"type"`
	Time               string  `json:"time"`
	Price              float64 `json:"price"`
	Strength           float64 `json:"strength"`
	MomentumDivergence float64 `json:"momentum_divergence"`
	Description        string  `json:"description"`
	Index              int     `json:"index"`
}

type NestedTradePointRecord struct {
	TradePointRecord
	ConfirmedLevels []int `json:"confirmed_levels"`
}

func isoTime(t time.Time) string { return t.Format(time.RFC3339) }

func barRecords(bars []model.Bar) []BarRecord {
	out := make([]BarRecord, 0, len(bars))
	for i, b := range bars {
		out = append(out, BarRecord{
			Time:   isoTime(b.Time),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
			Index:  i,
		})
	}
	return out
}

func fractalRecords(fractals []model.Fractal) []FractalRecord {
	out := make([]FractalRecord, 0, len(fractals))
	for i := range fractals {
		f := &fractals[i]
		out = append(out, FractalRecord{
			Type:     string(f.Type),
			Time:     isoTime(f.Time),
			Price:    f.Price(),
			High:     f.High,
			Low:      f.Low,
			Strength: f.Strength,
			Index:    f.Index,
		})
	}
	return out
}

func strokeRecords(strokes []model.Stroke) []StrokeRecord {
	out := make([]StrokeRecord, 0, len(strokes))
	for i := range strokes {
		s := &strokes[i]
		out = append(out, StrokeRecord{
			Direction:    string(s.Direction),
			StartTime:    isoTime(s.StartTime()),
			EndTime:      isoTime(s.EndTime()),
			StartPrice:   s.StartPrice(),
			EndPrice:     s.EndPrice(),
			High:         s.High(),
			Low:          s.Low(),
			Power:        s.Power(),
			MomentumArea: s.MomentumArea,
			StartBar:     s.StartBar,
			EndBar:       s.EndBar,
			Index:        s.Index,
		})
	}
	return out
}

func segmentRecords(segments []model.Segment) []SegmentRecord {
	out := make([]SegmentRecord, 0, len(segments))
	for i := range segments {
		s := &segments[i]
		out = append(out, SegmentRecord{
			Direction:   string(s.Direction),
			StartTime:   isoTime(s.StartTime()),
			EndTime:     isoTime(s.EndTime()),
			High:        s.High(),
			Low:         s.Low(),
			StrokeCount: len(s.Strokes),
			Index:       s.Index,
		})
	}
	return out
}

func pivotRecords(pivots []model.Pivot) []PivotRecord {
	out := make([]PivotRecord, 0, len(pivots))
	for i := range pivots {
		p := &pivots[i]
		out = append(out, PivotRecord{
			Level:       p.Level,
			Direction:   string(p.Direction),
			High:        p.High,
			Low:         p.Low,
			Center:      p.Center(),
			Amplitude:   p.Amplitude(),
			StartTime:   isoTime(p.StartTime()),
			EndTime:     isoTime(p.EndTime()),
			StrokeCount: len(p.Strokes),
			Trend:       string(p.Trend),
			Index:       p.Index,
		})
	}
	return out
}

func tradePointRecord(tp model.TradePoint) TradePointRecord {
	return TradePointRecord{
		Type:               string(tp.Type),
		Time:               isoTime(tp.Time),
		Price:              tp.Price,
		Strength:           tp.Strength,
		MomentumDivergence: tp.MomentumDivergence,
		Description:        tp.Description,
		Index:              tp.Index,
	}
}

func tradePointRecords(points []model.TradePoint) []TradePointRecord {
	out := make([]TradePointRecord, 0, len(points))
	for _, tp := range points {
		out = append(out, tradePointRecord(tp))
	}
	return out
}

func nestedRecords(points []model.NestedTradePoint) []NestedTradePointRecord {
	out := make([]NestedTradePointRecord, 0, len(points))
	for _, np := range points {
		levels := make([]int, len(np.ConfirmedLevels))
		copy(levels, np.ConfirmedLevels)
		out = append(out, NestedTradePointRecord{
			TradePointRecord: tradePointRecord(np.TradePoint),
			ConfirmedLevels:  levels,
		})
	}
	return out
}
