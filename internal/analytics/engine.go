// Package analytics computes therapy KPIs, time series and summaries over
// stored session records. Every function is pure and recomputes from the
// records it is given; an empty input yields a defined empty value.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

// Config holds the tunable constants of the engine.
type Config struct {
	// VolatilityWindow is how many of the newest sessions feed the EVI.
	VolatilityWindow int `yaml:"volatility_window"`
	// StabilitySensitivity scales EVI into the stability index. Tuning knob.
	StabilitySensitivity float64 `yaml:"stability_sensitivity"`
	// HighConfidence is the cut above which a negative session counts
	// against progress.
	HighConfidence float64 `yaml:"high_confidence"`
	// AnxietyCategoryThreshold is the cut above which an anxiety-family
	// session is categorised as "anxiety".
	AnxietyCategoryThreshold float64 `yaml:"anxiety_category_threshold"`
	// SmoothingWindow is the moving-average kernel width.
	SmoothingWindow int `yaml:"smoothing_window"`
	// TrendLookback is how many mood scores TrendDirection compares.
	TrendLookback int `yaml:"trend_lookback"`
	// TrendDelta is the mood change that counts as a direction.
	TrendDelta float64 `yaml:"trend_delta"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		VolatilityWindow:         7,
		StabilitySensitivity:     4,
		HighConfidence:           0.60,
		AnxietyCategoryThreshold: 0.50,
		SmoothingWindow:          3,
		TrendLookback:            3,
		TrendDelta:               0.2,
	}
}

// Engine evaluates analytics with a fixed configuration. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ProgressScore (TPS) is the share of positive sessions minus the share of
// negative sessions above HighConfidence, clamped to [-1, 1].
func (e *Engine) ProgressScore(sessions []store.SessionRecord) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var pos, highNeg int
	for _, s := range sessions {
		label := labelOf(s)
		switch {
		case emotion.IsPositive(label):
			pos++
		case emotion.IsNegative(label) && s.Confidence > e.cfg.HighConfidence:
			highNeg++
		}
	}
	n := float64(len(sessions))
	tps := float64(pos)/n - float64(highNeg)/n
	return round4(clamp(tps, -1, 1))
}

// VolatilityIndex (EVI) is the population variance of confidence over the
// newest VolatilityWindow sessions. Fewer than two sessions yield 0.
func (e *Engine) VolatilityIndex(sessions []store.SessionRecord) float64 {
	recent := newestFirst(sessions)
	if len(recent) > e.cfg.VolatilityWindow {
		recent = recent[:e.cfg.VolatilityWindow]
	}
	if len(recent) < 2 {
		return 0
	}
	return round4(variance(confidences(recent)))
}

// StabilityIndex (MSI) is max(0, 1 - StabilitySensitivity*EVI).
func (e *Engine) StabilityIndex(sessions []store.SessionRecord) float64 {
	evi := e.VolatilityIndex(sessions)
	return round4(math.Max(0, 1-evi*e.cfg.StabilitySensitivity))
}

// DominantNegativePct is the share of sessions labelled negative.
func (e *Engine) DominantNegativePct(sessions []store.SessionRecord) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var neg int
	for _, s := range sessions {
		if emotion.IsNegative(labelOf(s)) {
			neg++
		}
	}
	return round4(float64(neg) / float64(len(sessions)))
}

// Direction summarises where mood is heading.
type Direction string

const (
	Improving Direction = "improving"
	Declining Direction = "declining"
	Stable    Direction = "stable"
)

// TrendDirection compares the first and last of the newest TrendLookback
// mood scores in chronological order.
func (e *Engine) TrendDirection(sessions []store.SessionRecord) Direction {
	ordered := chronological(sessions)
	if len(ordered) < 2 {
		return Stable
	}
	start := 0
	if e.cfg.TrendLookback > 1 && len(ordered) > e.cfg.TrendLookback {
		start = len(ordered) - e.cfg.TrendLookback
	}
	recent := ordered[start:]

	diff := recent[len(recent)-1].MoodScore - recent[0].MoodScore
	switch {
	case diff > e.cfg.TrendDelta:
		return Improving
	case diff < -e.cfg.TrendDelta:
		return Declining
	default:
		return Stable
	}
}

func chronological(sessions []store.SessionRecord) []store.SessionRecord {
	out := make([]store.SessionRecord, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func newestFirst(sessions []store.SessionRecord) []store.SessionRecord {
	out := make([]store.SessionRecord, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// labelOf reads a stored label; rows without one count as neutral.
func labelOf(s store.SessionRecord) emotion.Label {
	if s.Emotion == "" {
		return emotion.LabelNeutral
	}
	return s.Emotion
}

func confidences(sessions []store.SessionRecord) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = s.Confidence
	}
	return out
}

func dateOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
