package chanlun

import (
	"time"

	"ChanSentinel/internal/model"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time { return baseTime.AddDate(0, 0, i) }

func bar(i int, open, high, low, close float64) model.Bar {
	return model.Bar{Time: day(i), Open: open, High: high, Low: low, Close: close, Volume: 1, Symbol: "TEST", Index: i}
}

// timeline returns n placeholder merged bars stamped day(0)..day(n-1).
func timeline(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Time: day(i), Index: i}
	}
	return bars
}

// top builds a top fractal at price p whose centre bar sits at merged index at.
func top(at int, p float64) model.Fractal {
	return model.Fractal{Type: model.Top, Time: day(at), High: p, Low: p - 1, BarIndex: at}
}

// bottom builds a bottom fractal at price p whose centre bar sits at merged index at.
func bottom(at int, p float64) model.Fractal {
	return model.Fractal{Type: model.Bottom, Time: day(at), High: p + 1, Low: p, BarIndex: at}
}

// strokesFromPath joins consecutive turning prices into strokes, gap bars apart.
func strokesFromPath(path []float64, gap int) ([]model.Fractal, []model.Stroke) {
	fractals := make([]model.Fractal, len(path))
	for k, p := range path {
		rising := k+1 < len(path) && path[k+1] > p
		if k+1 == len(path) {
			rising = p < path[k-1]
		}
		if rising {
			fractals[k] = bottom(k*gap, p)
		} else {
			fractals[k] = top(k*gap, p)
		}
		fractals[k].Index = k
	}
	strokes := make([]model.Stroke, len(path)-1)
	for k := range strokes {
		dir := model.Down
		if path[k+1] > path[k] {
			dir = model.Up
		}
		strokes[k] = model.Stroke{
			Direction: dir,
			Start:     &fractals[k],
			End:       &fractals[k+1],
			Index:     k,
			StartBar:  k * gap,
			EndBar:    (k + 1) * gap,
		}
	}
	return fractals, strokes
}

// rangeStroke builds a free-standing stroke covering [low, high].
func rangeStroke(idx int, dir model.Direction, low, high float64) model.Stroke {
	lo, hi := bottom(idx*4, low), top(idx*4+2, high)
	s := model.Stroke{Direction: dir, Index: idx, StartBar: -1, EndBar: -1}
	switch dir {
	case model.Up:
		s.Start, s.End = &lo, &hi
	case model.Down:
		s.Start, s.End = &hi, &lo
	}
	return s
}

// zigzag generates n bars swinging up for six bars and down for four,
// drifting upwards. Adjacent bars never contain each other.
func zigzag(n int) []model.Bar {
	bars := make([]model.Bar, n)
	mid := 100.0
	up := true
	leg := 0
	for i := range bars {
		if i > 0 {
			if up {
				mid += 2
			} else {
				mid -= 2
			}
		}
		open, close := mid-0.5, mid+0.5
		if !up {
			open, close = close, open
		}
		bars[i] = bar(i, open, mid+1, mid-1, close)
		leg++
		if (up && leg == 6) || (!up && leg == 4) {
			up = !up
			leg = 0
		}
	}
	return bars
}
