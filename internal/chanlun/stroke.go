package chanlun

import (
	"ChanSentinel/internal/model"
)

// strokeBuilder connects alternating fractals into strokes.
type strokeBuilder struct {
	fractals []model.Fractal
	merged   []model.Bar
	p        Params
}

// BuildStrokes links fractals into alternating, monotonic strokes. The
// returned strokes point into fractals, which must not be reallocated
// afterwards.
func BuildStrokes(fractals []model.Fractal, merged []model.Bar, p Params) []model.Stroke {
	p = p.withDefaults()
	if len(fractals) < 2 {
		return nil
	}
	b := &strokeBuilder{fractals: fractals, merged: merged, p: p}

	var strokes []model.Stroke
	cur := b.startIndex()
	for i := cur + 1; i < len(fractals); {
		start := &fractals[cur]
		cand := &fractals[i]

		if cand.Type == start.Type {
			if moreExtreme(cand, start) {
				cur = i
				// Keep the previous stroke joined to the new extreme.
				if n := len(strokes); n > 0 {
					strokes[n-1].End = cand
					strokes[n-1].EndBar = b.barIndex(cand)
				}
			}
			i++
			continue
		}

		if !b.canConnect(start, cand) {
			i++
			continue
		}

		end := b.extendEnd(i)
		strokes = append(strokes, model.Stroke{
			Direction: strokeDirection(start),
			Start:     start,
			End:       &fractals[end],
			Index:     len(strokes),
			StartBar:  b.barIndex(start),
			EndBar:    b.barIndex(&fractals[end]),
		})
		cur = end
		i = end + 1
	}
	return strokes
}

// startIndex picks the first fractal that can reach a valid stroke end
// within the start lookahead, or the very first fractal.
func (b *strokeBuilder) startIndex() int {
	for i := range b.fractals {
		limit := min(i+b.p.StartLookahead, len(b.fractals)-1)
		for j := i + 1; j <= limit; j++ {
			if b.canConnect(&b.fractals[i], &b.fractals[j]) {
				return i
			}
		}
	}
	return 0
}

// extendEnd absorbs the run of same-type fractals directly after the
// candidate at i and returns the most extreme one.
func (b *strokeBuilder) extendEnd(i int) int {
	end := i
	limit := min(i+b.p.EndLookahead, len(b.fractals)-1)
	for k := i + 1; k <= limit; k++ {
		if b.fractals[k].Type != b.fractals[i].Type {
			break
		}
		if moreExtreme(&b.fractals[k], &b.fractals[end]) {
			end = k
		}
	}
	return end
}

// canConnect checks type alternation, bar separation and the price relation.
func (b *strokeBuilder) canConnect(start, end *model.Fractal) bool {
	if start.Type == end.Type {
		return false
	}
	if !b.separated(start, end) {
		return false
	}
	switch start.Type {
	case model.Bottom:
		return end.High > start.High
	case model.Top:
		return end.Low < start.Low
	}
	return false
}

// separated reports whether the centre bars are at least MinBarGap merged
// bars apart. When either position cannot be resolved the stroke is allowed.
func (b *strokeBuilder) separated(a, c *model.Fractal) bool {
	ia, ic := b.barIndex(a), b.barIndex(c)
	if ia < 0 || ic < 0 {
		return true
	}
	d := ic - ia
	if d < 0 {
		d = -d
	}
	return d >= b.p.MinBarGap
}

// barIndex resolves the merged-bar position of a fractal's centre bar. The
// recorded BarIndex is trusted only when that bar carries the fractal's
// time; otherwise the bars are searched by timestamp. It returns -1 when
// not found.
func (b *strokeBuilder) barIndex(f *model.Fractal) int {
	if i := f.BarIndex; i >= 0 && i < len(b.merged) && b.merged[i].Time.Equal(f.Time) {
		return i
	}
	for i := range b.merged {
		if b.merged[i].Time.Equal(f.Time) {
			return i
		}
	}
	return -1
}

// moreExtreme reports whether f beats ref on ref's own terms: a higher
// high for tops, a lower low for bottoms.
func moreExtreme(f, ref *model.Fractal) bool {
	switch ref.Type {
	case model.Top:
		return f.High > ref.High
	case model.Bottom:
		return f.Low < ref.Low
	}
	return false
}

func strokeDirection(start *model.Fractal) model.Direction {
	switch start.Type {
	case model.Bottom:
		return model.Up
	case model.Top:
		return model.Down
	}
	panic("chanlun: unknown fractal type " + string(start.Type))
}
