package emotion

import (
	"math"
	"strings"
)

const (
	// maxHits caps keyword hits per category before normalisation.
	maxHits = 6

	// fallbackConfidence is reported when no category matches.
	fallbackConfidence = 0.30
)

// Config holds the tunable parameters of the classifier.
type Config struct {
	// ConfidenceOffset is added to the dominant category's raw score so that
	// a single keyword hit still registers moderate confidence. Empirically
	// chosen; treat as a tuning knob.
	ConfidenceOffset float64
}

// DefaultConfig returns the classifier defaults.
func DefaultConfig() Config {
	return Config{ConfidenceOffset: 0.28}
}

// Classifier scores text against the weighted keyword table.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier with the given configuration.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the dominant emotion for text. Empty or unmatched text
// yields neutral with fallback confidence.
func (c *Classifier) Classify(text string) Score {
	lower := strings.ToLower(text)

	scores := make(map[Label]float64)
	var (
		dominant Label
		best     = -1.0
	)
	for _, cat := range table {
		hits := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		raw := round4(float64(min(hits, maxHits)) / maxHits * cat.weight)
		scores[cat.label] = raw
		// Strict comparison keeps the earlier row on ties.
		if raw > best {
			best = raw
			dominant = cat.label
		}
	}

	if len(scores) == 0 {
		return Score{
			Label:      LabelNeutral,
			Confidence: fallbackConfidence,
			AllScores:  map[Label]float64{LabelNeutral: fallbackConfidence},
		}
	}

	return Score{
		Label:      dominant,
		Confidence: round4(math.Max(0, math.Min(best+c.cfg.ConfidenceOffset, 1.0))),
		AllScores:  scores,
	}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
