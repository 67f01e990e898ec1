package emotion

// Label names an emotion category.
type Label string

const (
	LabelAnxiety    Label = "anxiety"
	LabelDepression Label = "depression"
	LabelStress     Label = "stress"
	LabelLoneliness Label = "loneliness"
	LabelAnger      Label = "anger"
	LabelTrauma     Label = "trauma"
	LabelNeutral    Label = "neutral"
	LabelPositive   Label = "positive"
)

// Score is the result of classifying one piece of text.
type Score struct {
	Label      Label             `json:"emotion_label"`
	Confidence float64           `json:"confidence_score"` // 0.0–1.0
	AllScores  map[Label]float64 `json:"all_scores"`
}

// IsNegative reports whether label belongs to the negative partition.
func IsNegative(label Label) bool {
	switch label {
	case LabelAnxiety, LabelDepression, LabelStress, LabelLoneliness, LabelAnger, LabelTrauma:
		return true
	}
	return false
}

// IsPositive reports whether label belongs to the positive partition.
// Neutral counts as positive for trend and mood-score purposes.
func IsPositive(label Label) bool {
	return label == LabelPositive || label == LabelNeutral
}
