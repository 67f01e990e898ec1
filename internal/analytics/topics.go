package analytics

import (
	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/store"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

// DefaultStressor is reported when no session carries a theme.
const DefaultStressor = "general_stress"

// NoTopic is reported as the most frequent topic when there are none.
const NoTopic = "none"

// TopicFrequency counts stored themes across sessions, highest first.
func (e *Engine) TopicFrequency(sessions []store.SessionRecord) themes.Frequency {
	var all []themes.Theme
	for _, s := range sessions {
		all = append(all, s.Themes...)
	}
	return themes.Count(all)
}

// DominantStressor returns the most frequent stored theme, or
// DefaultStressor when none exist.
func (e *Engine) DominantStressor(sessions []store.SessionRecord) string {
	if top, ok := e.TopicFrequency(sessions).Top(); ok {
		return string(top)
	}
	return DefaultStressor
}

// Category is the coarse bucket a session falls into.
type Category string

const (
	CategoryAnxiety  Category = "anxiety"
	CategoryPositive Category = "positive"
	CategoryNeutral  Category = "neutral"
)

// CategorizeSession buckets one session. Anxiety, depression and trauma
// above AnxietyCategoryThreshold are "anxiety"; the positive partition is
// "positive"; everything else is "neutral".
func (e *Engine) CategorizeSession(label emotion.Label, confidence float64) Category {
	switch label {
	case emotion.LabelAnxiety, emotion.LabelDepression, emotion.LabelTrauma:
		if confidence > e.cfg.AnxietyCategoryThreshold {
			return CategoryAnxiety
		}
	}
	if emotion.IsPositive(label) {
		return CategoryPositive
	}
	return CategoryNeutral
}

// CategoryBreakdown counts sessions per category. All three keys are
// always present.
func (e *Engine) CategoryBreakdown(sessions []store.SessionRecord) map[Category]int {
	out := map[Category]int{
		CategoryAnxiety:  0,
		CategoryPositive: 0,
		CategoryNeutral:  0,
	}
	for _, s := range sessions {
		out[e.CategorizeSession(labelOf(s), s.Confidence)]++
	}
	return out
}

// EmotionCounts counts sessions per stored emotion label.
func (e *Engine) EmotionCounts(sessions []store.SessionRecord) map[emotion.Label]int {
	out := make(map[emotion.Label]int)
	for _, s := range sessions {
		out[labelOf(s)]++
	}
	return out
}
