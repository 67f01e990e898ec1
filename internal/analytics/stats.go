package analytics

import (
	"math"
	"slices"

	"github.com/AKakshat1729/AGI-119/internal/store"
)

// Summary describes the distribution of confidence scores.
type Summary struct {
	MeanConfidence   float64 `json:"mean_confidence"`
	StdConfidence    float64 `json:"std_confidence"`
	MinConfidence    float64 `json:"min_confidence"`
	MaxConfidence    float64 `json:"max_confidence"`
	MedianConfidence float64 `json:"median_confidence"`
	SessionCount     int     `json:"session_count"`
}

// Summarize computes the confidence summary. Standard deviation is the
// population one. An empty input yields the zero Summary.
func (e *Engine) Summarize(sessions []store.SessionRecord) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}
	xs := confidences(sessions)
	return Summary{
		MeanConfidence:   round4(mean(xs)),
		StdConfidence:    round4(math.Sqrt(variance(xs))),
		MinConfidence:    round4(slices.Min(xs)),
		MaxConfidence:    round4(slices.Max(xs)),
		MedianConfidence: round4(median(xs)),
		SessionCount:     len(sessions),
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the population variance (divides by n).
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return ss / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
