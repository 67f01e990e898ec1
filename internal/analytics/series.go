package analytics

import (
	"sort"

	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

// Point is one dated value of a time series.
type Point struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// HeatmapCell is one session in the emotion heatmap.
type HeatmapCell struct {
	Date    string        `json:"date"`
	Emotion emotion.Label `json:"emotion"`
	Score   float64       `json:"score"`
}

// anxietyFamily are the labels whose confidence feeds the anxiety trend.
var anxietyFamily = map[emotion.Label]bool{
	emotion.LabelAnxiety:    true,
	emotion.LabelDepression: true,
	emotion.LabelStress:     true,
	emotion.LabelTrauma:     true,
}

// AnxietyTrend returns one point per session in chronological order. The
// score is the confidence for anxiety-family sessions and 0 otherwise.
func (e *Engine) AnxietyTrend(sessions []store.SessionRecord) []Point {
	ordered := chronological(sessions)
	out := make([]Point, 0, len(ordered))
	for _, s := range ordered {
		var score float64
		if anxietyFamily[s.Emotion] {
			score = s.Confidence
		}
		out = append(out, Point{Date: dateOf(s.Timestamp), Score: round4(score)})
	}
	return out
}

// MovingAverageAnxiety smooths the anxiety trend with a centred moving
// average of width window, zero padded at both ends so the output has the
// same length as the input. With fewer points than window the raw trend is
// returned unchanged.
func (e *Engine) MovingAverageAnxiety(sessions []store.SessionRecord, window int) []Point {
	trend := e.AnxietyTrend(sessions)
	if window <= 0 || len(trend) < window {
		return trend
	}

	// Output i is the full convolution at i+offset.
	offset := (window - 1) / 2
	out := make([]Point, len(trend))
	for i := range trend {
		var sum float64
		for j := 0; j < window; j++ {
			k := i + offset - j
			if k < 0 || k >= len(trend) {
				continue
			}
			sum += trend[k].Score
		}
		out[i] = Point{Date: trend[i].Date, Score: round4(sum / float64(window))}
	}
	return out
}

// ImprovementTrend returns, per calendar day in ascending order, the share
// of that day's sessions in the positive partition.
func (e *Engine) ImprovementTrend(sessions []store.SessionRecord) []Point {
	type tally struct{ pos, total int }
	days := make(map[string]*tally)
	for _, s := range sessions {
		d := dateOf(s.Timestamp)
		t, ok := days[d]
		if !ok {
			t = &tally{}
			days[d] = t
		}
		t.total++
		if emotion.IsPositive(labelOf(s)) {
			t.pos++
		}
	}

	keys := make([]string, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	out := make([]Point, 0, len(keys))
	for _, d := range keys {
		t := days[d]
		out = append(out, Point{Date: d, Score: round4(float64(t.pos) / float64(t.total))})
	}
	return out
}

// Heatmap returns one cell per session in chronological order.
func (e *Engine) Heatmap(sessions []store.SessionRecord) []HeatmapCell {
	ordered := chronological(sessions)
	out := make([]HeatmapCell, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, HeatmapCell{
			Date:    dateOf(s.Timestamp),
			Emotion: labelOf(s),
			Score:   round4(s.Confidence),
		})
	}
	return out
}
