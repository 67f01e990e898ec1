package safety

import (
	"regexp"
	"sort"
	"strings"
)

// Category is a risk category.
type Category string

const (
	CategorySuicidalIdeation Category = "suicidal_ideation"
	CategorySelfHarm         Category = "self_harm"
	CategoryHarmToOthers     Category = "intent_to_harm_others"
	CategorySubstanceCrisis  Category = "substance_crisis"
)

type riskPattern struct {
	category Category
	re       *regexp.Regexp
}

// riskPatterns is scanned in order; Categories in a Result follow it.
var riskPatterns = [...]riskPattern{
	{CategorySuicidalIdeation, regexp.MustCompile(
		`(?i)\b(suicide|suicidal|kill myself|end my life|take my life|` +
			`want to die|don'?t want to live|life is not worth|rather be dead|` +
			`end it all|no reason to live|die by suicide)\b`)},
	{CategorySelfHarm, regexp.MustCompile(
		`(?i)\b(self[- ]?harm|cut myself|hurt myself|harm myself|self[- ]?injur|` +
			`scratch|burn myself|hit myself|blade|razor|cut my arm)\b`)},
	{CategoryHarmToOthers, regexp.MustCompile(
		`(?i)\b(hurt someone|kill someone|harm others|threaten|murder|attack|` +
			`plan to hurt|violence against)\b`)},
	{CategorySubstanceCrisis, regexp.MustCompile(
		`(?i)\b(overdose|opioid crisis|drug overdose|alcohol poisoning|` +
			`took too many pills|swallowed pills)\b`)},
}

// Categories returns every risk category in scan order.
func Categories() []Category {
	out := make([]Category, len(riskPatterns))
	for i, p := range riskPatterns {
		out[i] = p.category
	}
	return out
}

// Detect scans text for every risk category. Matches are lower-cased,
// de-duplicated and sorted. Categories without matches are absent.
func Detect(text string) map[Category][]string {
	lower := strings.ToLower(text)
	detected := make(map[Category][]string)
	for _, p := range riskPatterns {
		hits := uniqueSorted(p.re.FindAllString(lower, -1))
		if len(hits) > 0 {
			detected[p.category] = hits
		}
	}
	return detected
}

func uniqueSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
