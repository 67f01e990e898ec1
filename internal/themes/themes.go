// Package themes detects topical stressor themes in free text.
package themes

import "strings"

// Theme identifies a stressor category.
type Theme string

const (
	AcademicPressure   Theme = "academic_pressure"
	FinancialStress    Theme = "financial_stress"
	RelationshipIssues Theme = "relationship_issues"
	Insomnia           Theme = "insomnia"
	Burnout            Theme = "burnout"
	GriefLoss          Theme = "grief_loss"
	SocialAnxiety      Theme = "social_anxiety"
	TraumaAbuse        Theme = "trauma_abuse"
	SelfEsteem         Theme = "self_esteem"
	WorkCareer         Theme = "work_career"
)

type themeKeywords struct {
	theme    Theme
	keywords []string
}

// table is the ordered keyword table; Extract reports themes in this order.
var table = [...]themeKeywords{
	{AcademicPressure, []string{
		"exam", "study", "university", "college", "grades", "assignment", "thesis",
		"deadline", "professor", "fail", "test", "homework", "school", "semester",
		"gpa", "marks", "academic", "lecture", "classes",
	}},
	{FinancialStress, []string{
		"money", "debt", "broke", "afford", "bills", "rent", "loan", "financial",
		"poverty", "unemployed", "job loss", "can't pay", "salary", "income",
		"expenses", "budget", "savings", "bankrupt",
	}},
	{RelationshipIssues, []string{
		"breakup", "divorce", "cheating", "partner", "boyfriend", "girlfriend",
		"husband", "wife", "relationship", "fight", "argument", "toxic", "heartbreak",
		"separated", "trust issues", "manipulation", "jealousy", "infidelity",
	}},
	{Insomnia, []string{
		"sleep", "insomnia", "can't sleep", "awake at night", "tired", "fatigue",
		"exhausted", "sleeping pills", "nightmares", "lying awake", "sleep schedule",
		"oversleeping", "no rest", "restless night", "3am", "4am",
	}},
	{Burnout, []string{
		"burnout", "burned out", "no energy", "drained", "overworked", "productivity",
		"no motivation", "lost interest", "tired of everything", "numb to work",
		"can't focus", "distracted", "procrastinating", "unmotivated",
	}},
	{GriefLoss, []string{
		"death", "died", "passed away", "funeral", "loss", "grief", "mourning",
		"miss them", "gone", "bereaved", "parent died", "friend died", "bereavement",
		"widow", "orphan", "memorial",
	}},
	{SocialAnxiety, []string{
		"social anxiety", "crowd", "people", "judgment", "embarrassed", "shy",
		"nervous around people", "avoid social", "public speaking", "introvert",
		"social situations", "social media", "comparison", "fear of judgment",
	}},
	{TraumaAbuse, []string{
		"trauma", "abuse", "assault", "violated", "ptsd", "childhood", "victim",
		"flashback", "nightmare", "survivor", "domestic violence", "harassment", "rape",
	}},
	{SelfEsteem, []string{
		"worthless", "useless", "ugly", "hate myself", "not good enough",
		"inadequate", "inferior", "failure", "nobody likes", "rejected", "imposter",
		"confidence", "self-doubt", "insecure", "body image", "low self-worth",
	}},
	{WorkCareer, []string{
		"work", "career", "boss", "coworker", "office", "promotion", "fired", "quit",
		"job", "workplace", "toxic boss", "overtime", "work-life balance", "remote work",
		"layoff", "interview", "rejection",
	}},
}

// All returns every theme in table order.
func All() []Theme {
	out := make([]Theme, len(table))
	for i, row := range table {
		out[i] = row.theme
	}
	return out
}

// Extract returns the themes whose keywords appear in text, in table order.
// Unmatched or empty text yields an empty, non-nil slice.
func Extract(text string) []Theme {
	lower := strings.ToLower(text)
	found := []Theme{}
	for _, row := range table {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, row.theme)
				break
			}
		}
	}
	return found
}

// FrequencyOf counts, per theme, how many texts touch it.
func FrequencyOf(texts []string) Frequency {
	var all []Theme
	for _, text := range texts {
		all = append(all, Extract(text)...)
	}
	return Count(all)
}

// Dominant returns the most frequent theme across texts. The boolean is
// false when no text matched any theme.
func Dominant(texts []string) (Theme, bool) {
	return FrequencyOf(texts).Top()
}
