package model

import (
	"errors"
	"fmt"
	"time"
)

// Direction is the direction of a bar, stroke, segment or pivot.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ErrInvalidBar is matched by every InvalidBarError.
var ErrInvalidBar = errors.New("invalid bar")

// InvalidBarError reports a bar whose prices violate the OHLC geometry.
type InvalidBarError struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Reason string
}

func (e *InvalidBarError) Error() string {
	return fmt.Sprintf("invalid bar at %s: %s (o=%.4f h=%.4f l=%.4f c=%.4f)",
		e.Time.Format(time.RFC3339), e.Reason, e.Open, e.High, e.Low, e.Close)
}

func (e *InvalidBarError) Is(target error) bool { return target == ErrInvalidBar }

// Bar represents a single OHLCV candlestick.
// Merged bars produced by the analysis share this shape.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Symbol string
	Index  int
}

// NewBar validates the price geometry and returns the bar.
func NewBar(t time.Time, open, high, low, close, volume float64, symbol string, index int) (Bar, error) {
	bad := func(reason string) (Bar, error) {
		return Bar{}, &InvalidBarError{Time: t, Open: open, High: high, Low: low, Close: close, Reason: reason}
	}
	switch {
	case high < low:
		return bad("high below low")
	case high < open || high < close:
		return bad("high below open/close")
	case low > open || low > close:
		return bad("low above open/close")
	}
	return Bar{
		Time:   t,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
		Symbol: symbol,
		Index:  index,
	}, nil
}

// Direction is Up when the bar closed at or above its open.
func (b Bar) Direction() Direction {
	if b.Close >= b.Open {
		return Up
	}
	return Down
}
