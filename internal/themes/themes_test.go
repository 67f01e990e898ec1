package themes

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Theme
	}{
		{"empty", "", []Theme{}},
		{"unmatched", "the weather is mild", []Theme{}},
		{"academic", "I'm so stressed about my exam tomorrow", []Theme{AcademicPressure}},
		{"insomnia", "can't sleep, insomnia every night", []Theme{Insomnia}},
		{"case insensitive", "My BOSS keeps yelling", []Theme{WorkCareer}},
		{
			"multiple in table order",
			"my boss fired me and now I can't pay rent",
			[]Theme{FinancialStress, WorkCareer},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_EachThemeOnce(t *testing.T) {
	got := Extract("exam exam exam study homework")
	if len(got) != 1 || got[0] != AcademicPressure {
		t.Errorf("got %v, want a single academic_pressure", got)
	}
}

func TestFrequencyOf(t *testing.T) {
	freq := FrequencyOf([]string{
		"I'm so stressed about my exam tomorrow",
		"can't sleep, insomnia every night",
	})
	want := map[Theme]int{AcademicPressure: 1, Insomnia: 1}
	if got := freq.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("FrequencyOf = %v, want %v", got, want)
	}
}

func TestFrequencyOf_SortedDescending(t *testing.T) {
	freq := FrequencyOf([]string{
		"exam",
		"rent is due",
		"my thesis",
		"grades again",
	})
	if len(freq) != 2 {
		t.Fatalf("len = %d, want 2", len(freq))
	}
	if freq[0].Theme != AcademicPressure || freq[0].Count != 3 {
		t.Errorf("first = %+v, want academic_pressure:3", freq[0])
	}
	if freq[1].Theme != FinancialStress || freq[1].Count != 1 {
		t.Errorf("second = %+v, want financial_stress:1", freq[1])
	}
}

func TestFrequencyOf_Empty(t *testing.T) {
	if got := FrequencyOf(nil); len(got) != 0 {
		t.Errorf("FrequencyOf(nil) = %v, want empty", got)
	}
	if got := FrequencyOf([]string{""}); len(got) != 0 {
		t.Errorf("FrequencyOf([\"\"]) = %v, want empty", got)
	}
}

func TestDominant(t *testing.T) {
	if _, ok := Dominant(nil); ok {
		t.Error("Dominant(nil) should report no theme")
	}
	got, ok := Dominant([]string{"rent", "debt and bills", "exam"})
	if !ok || got != FinancialStress {
		t.Errorf("Dominant = %q,%v, want financial_stress,true", got, ok)
	}
}

func TestCount_TiesKeepFirstSeen(t *testing.T) {
	freq := Count([]Theme{Insomnia, Burnout, Burnout, Insomnia, GriefLoss})
	want := Frequency{{Insomnia, 2}, {Burnout, 2}, {GriefLoss, 1}}
	if !reflect.DeepEqual(freq, want) {
		t.Errorf("Count = %v, want %v", freq, want)
	}
	if freq.Get(Burnout) != 2 || freq.Get(WorkCareer) != 0 {
		t.Errorf("Get returned wrong counts: %v", freq)
	}
}

func TestFrequency_MarshalJSONKeepsOrder(t *testing.T) {
	freq := Frequency{{Insomnia, 3}, {AcademicPressure, 1}}
	b, err := json.Marshal(freq)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"insomnia":3,"academic_pressure":1}` {
		t.Errorf("got %s", b)
	}

	empty, err := json.Marshal(Frequency{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != `{}` {
		t.Errorf("empty = %s, want {}", empty)
	}
}

func TestFrequency_UnmarshalJSON(t *testing.T) {
	var freq Frequency
	if err := json.Unmarshal([]byte(`{"burnout":1,"insomnia":4}`), &freq); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if top, _ := freq.Top(); top != Insomnia {
		t.Errorf("top = %q, want insomnia", top)
	}
}
