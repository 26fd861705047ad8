package model

import "time"

// TradePointType is one of the six Chan-theory buy/sell point classes.
type TradePointType string

const (
	Buy1  TradePointType = "buy_1"
	Buy2  TradePointType = "buy_2"
	Buy3  TradePointType = "buy_3"
	Sell1 TradePointType = "sell_1"
	Sell2 TradePointType = "sell_2"
	Sell3 TradePointType = "sell_3"
)

// IsBuy reports whether the point is on the buy side.
func (t TradePointType) IsBuy() bool {
	switch t {
	case Buy1, Buy2, Buy3:
		return true
	case Sell1, Sell2, Sell3:
		return false
	}
	return false
}

// TradePoint is a typed, time-stamped and strength-scored trade signal.
type TradePoint struct {
	Type               TradePointType
	Time               time.Time
	Price              float64
	Strength           float64 // 0.0 ~ 1.0
	MomentumDivergence float64 // 0.0 ~ 1.0
	Description        string
	Index              int
}

// NestedTradePoint is a level-1 trade point confirmed at higher levels.
type NestedTradePoint struct {
	TradePoint
	ConfirmedLevels []int
}
