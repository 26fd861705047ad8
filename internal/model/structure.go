package model

import (
	"math"
	"time"
)

// FractalType distinguishes peaks from troughs.
type FractalType string

const (
	Top    FractalType = "top"
	Bottom FractalType = "bottom"
)

// Fractal is a three-bar local extremum on the merged bar sequence.
type Fractal struct {
	Type     FractalType
	Time     time.Time // time of the centre bar
	High     float64
	Low      float64
	Strength float64 // smaller of the two margins over the neighbours
	Bars     [3]Bar
	Index    int // position in the fractal sequence
	BarIndex int // merged-bar position of the centre bar, -1 if unknown
}

// Price is the key price: high for a top, low for a bottom.
func (f *Fractal) Price() float64 {
	switch f.Type {
	case Top:
		return f.High
	case Bottom:
		return f.Low
	}
	return math.NaN()
}

// Stroke is a directional swing between two fractals of opposite type.
// Start and End point into the fractal sequence of the same analysis.
type Stroke struct {
	Direction    Direction
	Start        *Fractal
	End          *Fractal
	Index        int
	MomentumArea float64
	StartBar     int // merged-bar index of the start fractal, -1 if unresolved
	EndBar       int // merged-bar index of the end fractal, -1 if unresolved
}

func (s *Stroke) StartTime() time.Time { return s.Start.Time }
func (s *Stroke) EndTime() time.Time   { return s.End.Time }
func (s *Stroke) StartPrice() float64  { return s.Start.Price() }
func (s *Stroke) EndPrice() float64    { return s.End.Price() }
func (s *Stroke) High() float64        { return math.Max(s.Start.High, s.End.High) }
func (s *Stroke) Low() float64         { return math.Min(s.Start.Low, s.End.Low) }

// Power is the absolute price distance covered by the stroke.
func (s *Stroke) Power() float64 { return math.Abs(s.EndPrice() - s.StartPrice()) }

// Segment is a higher-order swing made of at least three strokes.
// Neighbouring segments may share their boundary stroke.
type Segment struct {
	Direction Direction
	Strokes   []*Stroke
	Index     int
}

func (s *Segment) StartTime() time.Time { return s.Strokes[0].StartTime() }
func (s *Segment) EndTime() time.Time   { return s.Strokes[len(s.Strokes)-1].EndTime() }

func (s *Segment) High() float64 {
	h := math.Inf(-1)
	for _, st := range s.Strokes {
		h = math.Max(h, st.High())
	}
	return h
}

func (s *Segment) Low() float64 {
	l := math.Inf(1)
	for _, st := range s.Strokes {
		l = math.Min(l, st.Low())
	}
	return l
}

// TrendType labels the regime a pivot belongs to.
type TrendType string

const (
	TrendUnknown  TrendType = "unknown"
	Consolidation TrendType = "consolidation"
	TrendUp       TrendType = "trend_up"
	TrendDown     TrendType = "trend_down"
)

// Pivot is the price band shared by three or more consecutive strokes.
type Pivot struct {
	Level     int
	Direction Direction // direction of the first stroke
	High      float64   // upper edge of the overlap band
	Low       float64   // lower edge of the overlap band
	Strokes   []*Stroke
	Index     int
	Trend     TrendType
}

func (p *Pivot) Center() float64      { return (p.High + p.Low) / 2 }
func (p *Pivot) Amplitude() float64   { return p.High - p.Low }
func (p *Pivot) StartTime() time.Time { return p.Strokes[0].StartTime() }
func (p *Pivot) EndTime() time.Time   { return p.Strokes[len(p.Strokes)-1].EndTime() }
