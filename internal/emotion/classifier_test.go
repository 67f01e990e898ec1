package emotion

import (
	"reflect"
	"strings"
	"testing"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultConfig())
}

func TestClassify_EmptyTextIsNeutral(t *testing.T) {
	got := newTestClassifier().Classify("")
	if got.Label != LabelNeutral {
		t.Errorf("label = %q, want %q", got.Label, LabelNeutral)
	}
	if got.Confidence != 0.30 {
		t.Errorf("confidence = %v, want 0.30", got.Confidence)
	}
	if got.AllScores[LabelNeutral] != 0.30 {
		t.Errorf("all_scores[neutral] = %v, want 0.30", got.AllScores[LabelNeutral])
	}
}

func TestClassify_UnmatchedTextIsNeutral(t *testing.T) {
	got := newTestClassifier().Classify("the train leaves at seven")
	if got.Label != LabelNeutral || got.Confidence != 0.30 {
		t.Errorf("got %+v, want neutral/0.30", got)
	}
}

func TestClassify_HopelessIsDepression(t *testing.T) {
	got := newTestClassifier().Classify("I feel hopeless and empty, nothing matters anymore")
	if got.Label != LabelDepression {
		t.Fatalf("label = %q, want %q", got.Label, LabelDepression)
	}
	if got.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", got.Confidence)
	}
	// Two hits: 2/6 = 0.3333, plus the 0.28 offset.
	if got.Confidence != 0.6133 {
		t.Errorf("confidence = %v, want 0.6133", got.Confidence)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := newTestClassifier()
	lower := c.Classify("i am so anxious")
	upper := c.Classify("I AM SO ANXIOUS")
	if !reflect.DeepEqual(lower, upper) {
		t.Errorf("case changed the result: %+v vs %+v", lower, upper)
	}
}

func TestClassify_TieGoesToEarlierCategory(t *testing.T) {
	// One anxiety hit and one depression hit, both weight 1.0.
	got := newTestClassifier().Classify("anxious and depressed")
	if got.Label != LabelAnxiety {
		t.Errorf("label = %q, want %q (earlier row wins ties)", got.Label, LabelAnxiety)
	}
	if got.AllScores[LabelDepression] != got.AllScores[LabelAnxiety] {
		t.Errorf("expected a tie, got %v", got.AllScores)
	}
}

func TestClassify_HitsAreCapped(t *testing.T) {
	got := newTestClassifier().Classify("panic fear scared dread tense uneasy nervous phobia")
	if got.Label != LabelAnxiety {
		t.Fatalf("label = %q, want anxiety", got.Label)
	}
	if got.AllScores[LabelAnxiety] != 1.0 {
		t.Errorf("raw anxiety score = %v, want 1.0 (capped at 6 hits)", got.AllScores[LabelAnxiety])
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", got.Confidence)
	}
}

func TestClassify_WeightApplied(t *testing.T) {
	got := newTestClassifier().Classify("I feel happy")
	if got.Label != LabelPositive {
		t.Fatalf("label = %q, want positive", got.Label)
	}
	// 1/6 * 0.7 = 0.1167
	if got.AllScores[LabelPositive] != 0.1167 {
		t.Errorf("raw = %v, want 0.1167", got.AllScores[LabelPositive])
	}
	if got.Confidence != 0.3967 {
		t.Errorf("confidence = %v, want 0.3967", got.Confidence)
	}
}

func TestClassify_CustomOffset(t *testing.T) {
	c := NewClassifier(Config{ConfidenceOffset: 0})
	got := c.Classify("I feel happy")
	if got.Confidence != 0.1167 {
		t.Errorf("confidence = %v, want 0.1167 with zero offset", got.Confidence)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()
	texts := []string{
		"",
		"I'm worried and stressed about the deadline, feeling lonely too",
		"angry, furious, and sad",
		strings.Repeat("panic ", 100),
	}
	for _, text := range texts {
		a := c.Classify(text)
		b := c.Classify(text)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Classify(%q) not deterministic: %+v vs %+v", text, a, b)
		}
	}
}

func TestClassify_ConfidenceBounded(t *testing.T) {
	c := newTestClassifier()
	texts := []string{
		"",
		"okay",
		"happy joy excited grateful hopeful better improving good great wonderful",
		"\x00\xff invalid utf8 \xfe",
		strings.Repeat("trauma flashback nightmare ptsd abuse ", 50),
	}
	for _, text := range texts {
		got := c.Classify(text)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Classify(%q).Confidence = %v, out of [0,1]", text, got.Confidence)
		}
	}
}

func TestPartitions(t *testing.T) {
	for _, l := range Labels() {
		if IsNegative(l) && IsPositive(l) {
			t.Errorf("%q is in both partitions", l)
		}
		if !IsNegative(l) && !IsPositive(l) {
			t.Errorf("%q is in neither partition", l)
		}
	}
}

func TestLabelsOrderIsFixed(t *testing.T) {
	want := []Label{
		LabelAnxiety, LabelDepression, LabelStress, LabelLoneliness,
		LabelAnger, LabelTrauma, LabelNeutral, LabelPositive,
	}
	if got := Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestKeywordsAreLowerCase(t *testing.T) {
	for _, l := range Labels() {
		for _, kw := range Keywords(l) {
			if kw != strings.ToLower(kw) {
				t.Errorf("%s keyword %q is not lower-case", l, kw)
			}
		}
	}
	if Keywords("nonexistent") != nil {
		t.Error("expected nil keywords for unknown label")
	}
}
