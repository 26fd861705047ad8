package chanlun

import (
	"fmt"
	"math"
	"sort"

	"ChanSentinel/internal/model"
)

const (
	secondClassStrength = 0.75
	thirdClassStrength  = 0.7
	dualStrengthCap     = 0.95
)

// located pairs a first-class point with the stroke that produced it.
type located struct {
	point  model.TradePoint
	stroke int
}

// DetectTradePoints runs the divergence, pullback and breakout detectors
// and returns their points sorted by time. Strokes without a momentum area
// have area 0, so a missing series reads as momentum divergence.
func DetectTradePoints(strokes []model.Stroke, pivots []model.Pivot, p Params) []model.TradePoint {
	p = p.withDefaults()

	first := firstClassPoints(strokes, p)
	points := make([]model.TradePoint, 0, len(first))
	for _, l := range first {
		points = append(points, l.point)
	}
	points = append(points, secondClassPoints(strokes, first)...)
	points = append(points, thirdClassPoints(strokes, pivots)...)

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	for i := range points {
		points[i].Index = i
	}
	return points
}

// firstClassPoints compares each stroke from the fifth onward with the
// previous stroke of the same direction.
func firstClassPoints(strokes []model.Stroke, p Params) []located {
	var out []located
	for i := 4; i < len(strokes); i++ {
		cur := &strokes[i]
		prior := -1
		for j := i - 2; j >= 0; j -= 2 {
			if strokes[j].Direction == cur.Direction {
				prior = j
				break
			}
		}
		if prior < 0 {
			continue
		}
		prev := &strokes[prior]

		priceRatio := cur.Power() / math.Max(prev.Power(), p.RatioFloor)
		momentumRatio := cur.MomentumArea / math.Max(prev.MomentumArea, p.RatioFloor)
		priceDiv := priceRatio < p.DivergenceRatio
		momentumDiv := momentumRatio < p.DivergenceRatio
		if !priceDiv && !momentumDiv {
			continue
		}

		var typ model.TradePointType
		var desc string
		switch cur.Direction {
		case model.Down:
			if cur.EndPrice() > prev.EndPrice() {
				continue
			}
			typ = model.Buy1
			desc = fmt.Sprintf("下跌笔背驰：创新低 %.2f，价格力度比 %.2f，动能面积比 %.2f", cur.EndPrice(), priceRatio, momentumRatio)
		case model.Up:
			if cur.EndPrice() < prev.EndPrice() {
				continue
			}
			typ = model.Sell1
			desc = fmt.Sprintf("上涨笔背驰：创新高 %.2f，价格力度比 %.2f，动能面积比 %.2f", cur.EndPrice(), priceRatio, momentumRatio)
		}

		wp, wm := weakness(priceRatio), weakness(momentumRatio)
		var strength float64
		switch {
		case priceDiv && momentumDiv:
			strength = math.Min(dualStrengthCap, 0.75+0.2*(wp+wm)/2)
		case priceDiv:
			strength = 0.55 + 0.25*wp
		default:
			strength = 0.55 + 0.25*wm
		}

		out = append(out, located{
			point: model.TradePoint{
				Type:               typ,
				Time:               cur.EndTime(),
				Price:              cur.EndPrice(),
				Strength:           strength,
				MomentumDivergence: wm,
				Description:        desc,
			},
			stroke: i,
		})
	}
	return out
}

// secondClassPoints looks at the retest swing two strokes after each
// first-class point: a retest that holds the extreme is a second-class point.
func secondClassPoints(strokes []model.Stroke, first []located) []model.TradePoint {
	var out []model.TradePoint
	for _, l := range first {
		k := l.stroke + 2
		if k >= len(strokes) {
			continue
		}
		cand := &strokes[k]
		switch l.point.Type {
		case model.Buy1:
			if cand.Low() > l.point.Price {
				out = append(out, model.TradePoint{
					Type:        model.Buy2,
					Time:        cand.EndTime(),
					Price:       cand.EndPrice(),
					Strength:    secondClassStrength,
					Description: fmt.Sprintf("回调不破一买：回调低点 %.2f 高于一买 %.2f", cand.Low(), l.point.Price),
				})
			}
		case model.Sell1:
			if cand.High() < l.point.Price {
				out = append(out, model.TradePoint{
					Type:        model.Sell2,
					Time:        cand.EndTime(),
					Price:       cand.EndPrice(),
					Strength:    secondClassStrength,
					Description: fmt.Sprintf("反弹不破一卖：反弹高点 %.2f 低于一卖 %.2f", cand.High(), l.point.Price),
				})
			}
		case model.Buy2, model.Buy3, model.Sell2, model.Sell3:
		}
	}
	return out
}

// thirdClassPoints checks the two strokes after each pivot. When both stay
// outside the band on the same side, the end of the pullback stroke is a
// third-class point.
func thirdClassPoints(strokes []model.Stroke, pivots []model.Pivot) []model.TradePoint {
	var out []model.TradePoint
	for i := range pivots {
		pv := &pivots[i]
		last := pv.Strokes[len(pv.Strokes)-1].Index
		if last+2 >= len(strokes) {
			continue
		}
		leave, ret := &strokes[last+1], &strokes[last+2]

		switch {
		case leave.Low() >= pv.High && ret.Low() > pv.High:
			pull := pullback(leave, ret, model.Down)
			out = append(out, model.TradePoint{
				Type:        model.Buy3,
				Time:        pull.EndTime(),
				Price:       pull.EndPrice(),
				Strength:    thirdClassStrength,
				Description: fmt.Sprintf("向上离开中枢 [%.2f, %.2f]，回抽低点 %.2f 不回中枢", pv.Low, pv.High, pull.EndPrice()),
			})
		case leave.High() <= pv.Low && ret.High() < pv.Low:
			pull := pullback(leave, ret, model.Up)
			out = append(out, model.TradePoint{
				Type:        model.Sell3,
				Time:        pull.EndTime(),
				Price:       pull.EndPrice(),
				Strength:    thirdClassStrength,
				Description: fmt.Sprintf("向下离开中枢 [%.2f, %.2f]，反抽高点 %.2f 不回中枢", pv.Low, pv.High, pull.EndPrice()),
			})
		}
	}
	return out
}

func pullback(a, b *model.Stroke, dir model.Direction) *model.Stroke {
	if a.Direction == dir {
		return a
	}
	return b
}

// weakness maps a ratio to [0, 1]: zero at or above 1, one at zero.
func weakness(ratio float64) float64 {
	return math.Min(1, math.Max(0, 1-ratio))
}
