// Package profile extracts medical and personal facts from conversation
// transcripts with regular expressions. It runs offline and holds no state.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AKakshat1729/AGI-119/internal/safety"
)

const (
	noMedicalRecords = "No medical records detected yet."
	noPersonalData   = "No personal profile data detected yet."

	// maxRiskInstances bounds how many matches a risk line quotes.
	maxRiskInstances = 3
)

// Report is the structured profile shown on the dashboard.
type Report struct {
	UserID          string                   `json:"user_id"`
	Identity        map[IdentityField]string `json:"identity"`
	MedicalHistory  []string                 `json:"medical_history"`
	PersonalProfile []string                 `json:"personal_profile"`
	RiskFlags       []string                 `json:"risk_flags"`
	Raw             RawFindings              `json:"raw"`
}

// RawFindings carries the unformatted extractor output.
type RawFindings struct {
	Medical map[MedicalCategory][]string `json:"medical"`
	Events  []string                     `json:"events"`
	Risks   map[safety.Category][]string `json:"risks"`
}

func joinTexts(texts []string) string {
	return strings.Join(texts, " ")
}

// titler returns a fresh title caser. Casers are stateful and must not be
// shared between goroutines.
func titler() cases.Caser {
	return cases.Title(language.English)
}

// ExtractMedical returns title-cased, de-duplicated, sorted matches per
// medical category. Categories without matches are absent.
func ExtractMedical(texts []string) map[MedicalCategory][]string {
	full := strings.ToLower(joinTexts(texts))
	title := titler()
	out := make(map[MedicalCategory][]string)
	for _, p := range medicalPatterns {
		found := collect(p.re.FindAllString(full, -1), title.String)
		if len(found) > 0 {
			out[p.category] = found
		}
	}
	return out
}

// ExtractIdentity returns the first match per identity field, title-cased.
func ExtractIdentity(texts []string) map[IdentityField]string {
	full := joinTexts(texts)
	title := titler()
	out := make(map[IdentityField]string)
	for _, p := range identityPatterns {
		for _, re := range p.res {
			m := re.FindStringSubmatch(full)
			if m == nil {
				continue
			}
			out[p.field] = title.String(strings.TrimSpace(m[1]))
			break
		}
	}
	return out
}

// ExtractLifeEvents returns the distinct life events mentioned, title-cased
// and sorted. The result is never nil.
func ExtractLifeEvents(texts []string) []string {
	full := strings.ToLower(joinTexts(texts))
	found := collect(lifeEventPattern.FindAllString(full, -1), titler().String)
	if found == nil {
		return []string{}
	}
	return found
}

// ExtractRiskIndicators runs the safety patterns over the joined texts.
func ExtractRiskIndicators(texts []string) map[safety.Category][]string {
	return safety.Detect(joinTexts(texts))
}

// BuildReport assembles the display-ready profile for a user.
func BuildReport(userID string, texts []string) *Report {
	medical := ExtractMedical(texts)
	identity := ExtractIdentity(texts)
	events := ExtractLifeEvents(texts)
	risks := ExtractRiskIndicators(texts)

	var history []string
	if v := identity[FieldName]; v != "" {
		history = append(history, "👤 Name: "+v)
	}
	if v := identity[FieldAge]; v != "" {
		history = append(history, "🎂 Age: "+v)
	}
	if v := identity[FieldProfession]; v != "" {
		history = append(history, "💼 Profession: "+v)
	}
	prefixes := [...]struct {
		cat    MedicalCategory
		prefix string
	}{
		{DiagnosedConditions, "🏥 Diagnosed: "},
		{Medications, "💊 Medication: "},
		{SleepIssues, "😴 Sleep Issue: "},
		{AnxietyPatterns, "⚡ Anxiety Pattern: "},
		{SubstanceUse, "🔴 Substance Mention: "},
	}
	for _, p := range prefixes {
		for _, v := range medical[p.cat] {
			history = append(history, p.prefix+v)
		}
	}

	var personal []string
	if v := identity[FieldFamily]; v != "" {
		personal = append(personal, "👨‍👩‍👧 Family: "+v)
	}
	for _, ev := range events {
		personal = append(personal, "📌 Life Event: "+ev)
	}

	title := titler()
	flags := []string{}
	for _, cat := range safety.Categories() {
		instances, ok := risks[cat]
		if !ok {
			continue
		}
		label := title.String(strings.ReplaceAll(string(cat), "_", " "))
		flags = append(flags, fmt.Sprintf("⚠️ %s: %s", label,
			strings.Join(instances[:min(len(instances), maxRiskInstances)], ", ")))
	}

	if len(history) == 0 {
		history = []string{noMedicalRecords}
	}
	if len(personal) == 0 {
		personal = []string{noPersonalData}
	}

	return &Report{
		UserID:          userID,
		Identity:        identity,
		MedicalHistory:  history,
		PersonalProfile: personal,
		RiskFlags:       flags,
		Raw: RawFindings{
			Medical: medical,
			Events:  events,
			Risks:   risks,
		},
	}
}

func collect(matches []string, format func(string) string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		v := format(strings.TrimSpace(m))
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
