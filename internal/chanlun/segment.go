package chanlun

import (
	"ChanSentinel/internal/model"
)

// charElem is one element of a characteristic sequence: the range of a
// stroke running against the segment.
type charElem struct {
	high, low float64
	stroke    int
}

// BuildSegments partitions strokes into segments of at least three strokes.
// A segment ends at the middle element of the first terminating fractal in
// its characteristic sequence (a bottom for up segments, a top for down
// segments), or at the lookahead boundary. The next segment starts on the
// terminating stroke, so neighbours share it.
func BuildSegments(strokes []model.Stroke, p Params) []model.Segment {
	p = p.withDefaults()

	var segments []model.Segment
	for start := 0; start+3 <= len(strokes); {
		dir := strokes[start].Direction
		limit := min(start+p.SegmentLookahead, len(strokes))

		var seq []charElem
		for k := start; k < limit; k++ {
			if strokes[k].Direction != dir {
				seq = append(seq, charElem{high: strokes[k].High(), low: strokes[k].Low(), stroke: k})
			}
		}
		seq = mergeCharSeq(seq, dir)

		end := limit - 1
		if t, ok := terminatingStroke(seq, dir); ok {
			end = t
		}
		if end-start+1 < 3 {
			break
		}

		seg := model.Segment{Direction: dir, Index: len(segments)}
		for k := start; k <= end; k++ {
			seg.Strokes = append(seg.Strokes, &strokes[k])
		}
		segments = append(segments, seg)
		start = end
	}
	return segments
}

// mergeCharSeq resolves containment between characteristic elements. An up
// segment keeps the element with the lower low, a down segment the one with
// the higher high.
func mergeCharSeq(seq []charElem, dir model.Direction) []charElem {
	var out []charElem
	for _, e := range seq {
		if n := len(out); n > 0 && elemContains(out[n-1], e) {
			last := out[n-1]
			switch dir {
			case model.Up:
				if e.low < last.low {
					out[n-1] = e
				}
			case model.Down:
				if e.high > last.high {
					out[n-1] = e
				}
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

func elemContains(a, b charElem) bool {
	return (a.high >= b.high && a.low <= b.low) || (b.high >= a.high && b.low <= a.low)
}

// terminatingStroke finds the first non-strict fractal in the merged
// characteristic sequence and returns the stroke of its middle element.
func terminatingStroke(seq []charElem, dir model.Direction) (int, bool) {
	for j := 1; j+1 < len(seq); j++ {
		prev, mid, next := seq[j-1], seq[j], seq[j+1]
		switch dir {
		case model.Up:
			if mid.low <= prev.low && mid.low <= next.low {
				return mid.stroke, true
			}
		case model.Down:
			if mid.high >= prev.high && mid.high >= next.high {
				return mid.stroke, true
			}
		}
	}
	return 0, false
}
