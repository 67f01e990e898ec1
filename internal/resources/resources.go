// Package resources holds static, read-only clinical reference material:
// coping strategies, therapeutic approaches, condition notes and crisis
// actions. Every accessor returns a copy.
package resources

import (
	"slices"
	"strings"

	"github.com/AKakshat1729/AGI-119/internal/emotion"
)

// Condition keys for coping strategies.
const (
	Anxiety    = "anxiety"
	Depression = "depression"
	Stress     = "stress"
	Insomnia   = "insomnia"
)

var copingStrategies = map[string][]string{
	Anxiety: {
		"Deep Breathing (4-7-8 technique): Inhale for 4, hold for 7, exhale for 8",
		"Progressive Muscle Relaxation: Tense and relax muscle groups systematically",
		"Grounding Technique (5-4-3-2-1): Identify 5 things you see, 4 you hear, 3 you feel, 2 you smell, 1 you taste",
		"Box Breathing: Inhale for 4, hold for 4, exhale for 4, hold for 4",
		"Mindfulness Meditation: Focus on present moment without judgment",
		"Cognitive Reframing: Challenge anxious thoughts with evidence-based thinking",
	},
	Depression: {
		"Behavioral Activation: Schedule pleasurable and meaningful activities",
		"Positive Self-Talk: Replace negative thoughts with realistic, compassionate ones",
		"Physical Exercise: 30 minutes of moderate activity 5x/week improves symptoms",
		"Sleep Hygiene: Maintain consistent sleep schedule and dark, cool bedroom",
		"Social Connection: Reach out to friends, family, or support groups",
		"Journaling: Write thoughts and feelings to process emotions",
	},
	Stress: {
		"Time Management: Prioritize tasks using Eisenhower Matrix",
		"Yoga & Stretching: Reduces cortisol levels and muscle tension",
		"Journaling: Process stressors and identify patterns",
		"Boundary Setting: Learn to say no to unreasonable demands",
		"Nature Exposure: Spend 20+ minutes in natural settings daily",
		"Meditation: Practice 10-20 minutes daily for stress reduction",
	},
	Insomnia: {
		"Sleep Restriction Therapy: Limit bed time to actual sleep time",
		"Stimulus Control: Use bed only for sleep and intimacy",
		"Muscle Relaxation: Progressive muscle relaxation before bed",
		"Cognitive Techniques: Challenge catastrophic thoughts about sleep",
		"Consistent Schedule: Same bedtime and wake time daily",
		"Limit Screens: No screens 1 hour before bed (blue light interferes)",
	},
}

// CopingStrategies returns the strategies for condition, matched
// case-insensitively. Unknown conditions yield an empty slice.
func CopingStrategies(condition string) []string {
	list, ok := copingStrategies[strings.ToLower(strings.TrimSpace(condition))]
	if !ok {
		return []string{}
	}
	return slices.Clone(list)
}

// ConditionFor maps an emotion label to the coping-strategy condition that
// serves it. Labels outside the negative partition have none.
func ConditionFor(label emotion.Label) (string, bool) {
	switch label {
	case emotion.LabelAnxiety, emotion.LabelTrauma:
		return Anxiety, true
	case emotion.LabelDepression, emotion.LabelLoneliness:
		return Depression, true
	case emotion.LabelStress, emotion.LabelAnger:
		return Stress, true
	}
	return "", false
}

// Approach describes a psychotherapy modality.
type Approach struct {
	Key         string   `json:"key"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Techniques  []string `json:"techniques"`
}

var approaches = [...]Approach{
	{
		Key:         "CBT",
		FullName:    "Cognitive Behavioral Therapy",
		Description: "Focuses on identifying and changing negative thought patterns and behaviors",
		Techniques: []string{
			"Thought Records: Document thoughts, feelings, situations, and evidence",
			"Behavioral Experiments: Test beliefs through real-world experiments",
			"Problem-Solving: Define problem, generate solutions, evaluate, implement",
			"Exposure: Gradual confrontation of feared situations or thoughts",
		},
	},
	{
		Key:         "DBT",
		FullName:    "Dialectical Behavior Therapy",
		Description: "Combines CBT with mindfulness and acceptance",
		Techniques: []string{
			"Mindfulness: Observe thoughts without judgment",
			"Distress Tolerance: Survive crisis without making it worse",
			"Emotion Regulation: Understand and manage intense emotions",
			"Interpersonal Effectiveness: Communication and relationship skills",
		},
	},
	{
		Key:         "ACT",
		FullName:    "Acceptance and Commitment Therapy",
		Description: "Accept difficult thoughts/feelings while committed to meaningful living",
		Techniques: []string{
			"Acceptance: Allow uncomfortable feelings without fighting",
			"Mindfulness: Present-moment awareness",
			"Values Clarification: Identify what matters most",
			"Committed Action: Take steps aligned with values",
		},
	},
	{
		Key:         "Psychodynamic",
		FullName:    "Psychodynamic Therapy",
		Description: "Explores unconscious patterns and past experiences",
		Techniques: []string{
			"Free Association: Express thoughts freely",
			"Dream Analysis: Explore unconscious material",
			"Attachment Exploration: Examine relationship patterns",
			"Insight Development: Understand root causes of issues",
		},
	},
}

// LookupApproach finds a therapeutic approach by key, ignoring case.
func LookupApproach(name string) (Approach, bool) {
	for _, a := range approaches {
		if strings.EqualFold(a.Key, strings.TrimSpace(name)) {
			a.Techniques = slices.Clone(a.Techniques)
			return a, true
		}
	}
	return Approach{}, false
}

// Approaches lists every therapeutic approach.
func Approaches() []Approach {
	out := make([]Approach, len(approaches))
	for i, a := range approaches {
		a.Techniques = slices.Clone(a.Techniques)
		out[i] = a
	}
	return out
}

var crisisActions = [...]string{
	"If in immediate danger: Call 911 or go to emergency room",
	"Tell someone trusted what you're experiencing",
	"Remove access to means of self-harm if possible",
	"Stay with someone safe until crisis passes",
	"Call a crisis line: 988",
}

// CrisisActions returns the immediate steps for someone in crisis.
func CrisisActions() []string {
	return slices.Clone(crisisActions[:])
}

var warningSigns = [...]string{
	"Suicidal thoughts or plans",
	"Self-harm urges or behaviors",
	"Severe hallucinations or delusions",
	"Complete inability to function (eat, hygiene, etc.)",
	"Severe substance use affecting functioning",
	"Thoughts of harming others",
	"Complete loss of reality orientation",
}

// WarningSigns returns the signs that call for emergency care.
func WarningSigns() []string {
	return slices.Clone(warningSigns[:])
}
