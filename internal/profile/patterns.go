package profile

import "regexp"

// MedicalCategory groups medical findings.
type MedicalCategory string

const (
	DiagnosedConditions MedicalCategory = "diagnosed_conditions"
	Medications         MedicalCategory = "medications"
	SleepIssues         MedicalCategory = "sleep_issues"
	AnxietyPatterns     MedicalCategory = "anxiety_patterns"
	SubstanceUse        MedicalCategory = "substance_use"
)

// IdentityField names a personal detail.
type IdentityField string

const (
	FieldName       IdentityField = "name"
	FieldAge        IdentityField = "age"
	FieldProfession IdentityField = "profession"
	FieldFamily     IdentityField = "family"
)

type medicalPattern struct {
	category MedicalCategory
	re       *regexp.Regexp
}

var medicalPatterns = [...]medicalPattern{
	{DiagnosedConditions, regexp.MustCompile(
		`(?i)\b(depression|anxiety disorder|bipolar|schizophrenia|ptsd|ocd|adhd|` +
			`autism|eating disorder|borderline personality|panic disorder|` +
			`social anxiety disorder|generalized anxiety|major depressive disorder` +
			`|cyclothymia|dysthymia)\b`)},
	{Medications, regexp.MustCompile(
		`(?i)\b(sertraline|fluoxetine|lexapro|zoloft|prozac|xanax|valium|` +
			`lorazepam|clonazepam|lithium|risperdal|abilify|wellbutrin|effexor|` +
			`citalopram|escitalopram|paroxetine|venlafaxine|bupropion|quetiapine|` +
			`olanzapine|antidepressant|antipsychotic|sleeping pill|melatonin|` +
			`medication|prescription|mg|pill|tablet)\b`)},
	{SleepIssues, regexp.MustCompile(
		`(?i)\b(insomnia|can'?t sleep|sleep disorder|sleep apnea|nightmare|` +
			`sleep deprivation|hypersomnia|oversleeping|restless sleep|` +
			`disrupted sleep|sleep schedule|up all night|awake at \d)\b`)},
	{AnxietyPatterns, regexp.MustCompile(
		`(?i)\b(panic attack|racing heart|shortness of breath|chest tightness|` +
			`hyperventilat|phobia|trigger|avoidance|compulsion|intrusive thought)\b`)},
	{SubstanceUse, regexp.MustCompile(
		`(?i)\b(alcohol|drinking|drunk|wine|beer|vodka|whiskey|cannabis|weed|` +
			`marijuana|cocaine|heroin|opioid|drugs|substance|addicted|addiction|` +
			`smoking|cigarette|vaping|relapse|sobriety)\b`)},
}

type identityPattern struct {
	field IdentityField
	// res are tried in order; the first one to match wins.
	res []*regexp.Regexp
}

var identityPatterns = [...]identityPattern{
	{FieldName, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:my name is|i'?m called|call me)\s+([A-Z][a-z]+)`),
	}},
	{FieldAge, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:i'?m|i am)\s+(\d{1,2})\s+years?\s+old`),
		regexp.MustCompile(`(?i)(?:age|aged)\s+(\d{1,2})`),
	}},
	{FieldProfession, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:i'?m a|i work as a|i am a|my job is|working as)\s+` +
			`(student|doctor|engineer|teacher|lawyer|nurse|designer|developer|` +
			`manager|consultant|professor|entrepreneur|writer|artist|chef|pilot|` +
			`pharmacist|accountant|analyst|researcher)\b`),
	}},
	{FieldFamily, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:my (mother|father|mom|dad|sister|brother|wife|husband|son|daughter|` +
			`parents|children|family|boyfriend|girlfriend|partner))\b`),
	}},
}

var lifeEventPattern = regexp.MustCompile(
	`(?i)\b(breakup|broke up|divorce|separated|lost my job|fired|laid off|` +
		`death|died|passed away|failed|accident|diagnosed|hospitalized|` +
		`moved|relocated|graduated|dropped out|fight with|argument with)\b`)
