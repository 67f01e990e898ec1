// Package safety scans free text for crisis indicators and attaches
// emergency guidance when any are found.
package safety

import "time"

// Severity grades a safety result.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
)

// Resource is one crisis line or service.
type Resource struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

var emergencyResources = [...]Resource{
	{"🆘 Suicide & Crisis Lifeline (US)", "Call or text **988**"},
	{"💬 Crisis Text Line", "Text HOME to **741741**"},
	{"🇮🇳 iCall (India)", "**9152987821**"},
	{"🇮🇳 Vandrevala Foundation (India)", "**1860-2662-345** (24/7)"},
	{"🌍 International Crisis Centres", "https://www.iasp.info/resources/Crisis_Centres/"},
	{"🚨 Emergency Services", "Call **911** (US) / **112** (EU) / **100** (India)"},
	{"🏥 NIMHANS Helpline (India)", "**080-46110007**"},
	{"💙 Fortis Stress Helpline (India)", "**8376804102**"},
}

var safetyTips = [...]string{
	"Reach out to a trusted friend or family member right now.",
	"Move to a safe, public space if you feel in danger.",
	"Remove access to anything that could be used for self-harm.",
	"Call a crisis line. Trained counsellors are available 24/7.",
	"Go to the nearest emergency room if the urge becomes overwhelming.",
	"Practice grounding: name 5 things you can see, 4 you can touch.",
}

// Message accompanies every flagged result.
const Message = "You are not alone. Your feelings are valid and help is available. " +
	"Please reach out to a crisis professional immediately."

// EmergencyResources returns a copy of the crisis line table.
func EmergencyResources() []Resource {
	out := make([]Resource, len(emergencyResources))
	copy(out, emergencyResources[:])
	return out
}

// SafetyTips returns a copy of the immediate safety tips.
func SafetyTips() []string {
	out := make([]string, len(safetyTips))
	copy(out, safetyTips[:])
	return out
}

// Result is the outcome of analysing one text.
type Result struct {
	RiskFlag           bool       `json:"risk_flag"`
	Categories         []Category `json:"risk_categories"`
	Severity           Severity   `json:"severity"`
	Timestamp          time.Time  `json:"timestamp"`
	EmergencyResources []Resource `json:"emergency_resources,omitempty"`
	SafetyTips         []string   `json:"safety_tips,omitempty"`
	SafetyMessage      string     `json:"safety_message,omitempty"`
}

// Module analyses text for risk. The zero value is usable and stamps
// results with time.Now.
type Module struct {
	now func() time.Time
}

// NewModule creates a Module that stamps results with now.
// A nil now falls back to time.Now.
func NewModule(now func() time.Time) *Module {
	return &Module{now: now}
}

// Analyze scans text and grades it. Suicidal ideation is HIGH, any other
// category MODERATE, nothing NONE.
func (m *Module) Analyze(text string) Result {
	detected := Detect(text)

	res := Result{
		RiskFlag:   len(detected) > 0,
		Categories: []Category{},
		Severity:   SeverityNone,
		Timestamp:  m.clock(),
	}
	for _, p := range riskPatterns {
		if _, ok := detected[p.category]; ok {
			res.Categories = append(res.Categories, p.category)
		}
	}

	switch {
	case len(detected[CategorySuicidalIdeation]) > 0:
		res.Severity = SeverityHigh
	case res.RiskFlag:
		res.Severity = SeverityModerate
	}

	if res.RiskFlag {
		res.EmergencyResources = EmergencyResources()
		res.SafetyTips = SafetyTips()
		res.SafetyMessage = Message
	}
	return res
}

func (m *Module) clock() time.Time {
	if m == nil || m.now == nil {
		return time.Now().UTC()
	}
	return m.now()
}
