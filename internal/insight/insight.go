// Package insight asks an LLM for a short progress narrative built from
// aggregated dashboard numbers. Transcripts and identifiers never leave
// the process.
package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/AKakshat1729/AGI-119/internal/analytics"
	"github.com/AKakshat1729/AGI-119/internal/clinical"
	"github.com/AKakshat1729/AGI-119/internal/llm"
	"github.com/AKakshat1729/AGI-119/internal/logger"
)

// ErrDisabled is returned by a nil Service.
var ErrDisabled = errors.New("insights disabled: no LLM provider configured")

// Narrative is the structured reply.
type Narrative struct {
	Summary       string   `json:"summary" jsonschema:"required,minLength=1" jsonschema_description:"Two or three sentences on how the recent sessions have gone"`
	FocusAreas    []string `json:"focus_areas" jsonschema:"required,maxItems=3" jsonschema_description:"Up to three themes worth attention next"`
	Encouragement string   `json:"encouragement" jsonschema:"required" jsonschema_description:"One supportive sentence addressed to the client"`
}

// Facts is everything the model sees.
type Facts struct {
	TotalSessions       int                        `json:"total_sessions"`
	ProgressScore       float64                    `json:"therapy_progress_score"`
	StabilityIndex      float64                    `json:"mood_stability_index"`
	Volatility          float64                    `json:"emotional_volatility"`
	DominantNegativePct float64                    `json:"dominant_negative_pct"`
	TrendDirection      analytics.Direction        `json:"trend_direction"`
	DominantStressor    string                     `json:"dominant_stressor"`
	TopTopics           []string                   `json:"top_topics"`
	Categories          map[analytics.Category]int `json:"session_categories"`
	RiskAlerts          int                        `json:"recent_risk_alerts"`
}

const maxTopics = 5

// FactsFrom reduces a dashboard to the aggregate numbers sent upstream.
func FactsFrom(d *clinical.DashboardData) Facts {
	f := Facts{
		TotalSessions:       d.TotalSessions,
		ProgressScore:       d.TherapyProgressScore,
		StabilityIndex:      d.MoodStabilityIndex,
		Volatility:          d.EmotionalVolatility,
		DominantNegativePct: d.DominantNegativePct,
		TrendDirection:      d.TrendDirection,
		DominantStressor:    d.DominantStressor,
		TopTopics:           []string{},
		Categories:          d.CategoryBreakdown,
		RiskAlerts:          len(d.RiskAlerts),
	}
	for i, tc := range d.TopicFrequency {
		if i == maxTopics {
			break
		}
		f.TopTopics = append(f.TopTopics, string(tc.Theme))
	}
	return f
}

const systemPrompt = `You write brief progress notes for a mental-health support app.
You receive aggregate statistics about a client's recent sessions:
progress and stability scores in [-1, 1] and [0, 1], a trend direction,
recurring topics and a count of recent risk alerts.
Describe the overall picture in plain, warm language. Do not diagnose,
do not invent events and do not mention the raw numbers.
If there are recent risk alerts, gently suggest reaching out to a
professional or a crisis line.`

// Service generates narratives. A nil *Service is valid and disabled.
type Service struct {
	provider  llm.Provider
	log       *logger.Logger
	maxTokens int
	schema    *llm.Schema
}

// New returns nil when p is nil, so callers can hold the result
// unconditionally.
func New(p llm.Provider, log *logger.Logger) *Service {
	if p == nil {
		return nil
	}
	return &Service{
		provider:  p,
		log:       log,
		maxTokens: 512,
		schema: &llm.Schema{
			Name:        "insight-narrative",
			Description: "Short progress narrative for a client dashboard",
			Definition:  NarrativeSchema(),
		},
	}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool { return s != nil }

// Narrate asks the provider for a narrative. A user with no sessions gets
// a fixed reply without a provider call.
func (s *Service) Narrate(ctx context.Context, facts Facts) (*Narrative, error) {
	if s == nil {
		return nil, ErrDisabled
	}
	if facts.TotalSessions == 0 {
		return &Narrative{
			Summary:       "No sessions have been recorded yet.",
			FocusAreas:    []string{},
			Encouragement: "Whenever you are ready, the first conversation is a good place to start.",
		}, nil
	}

	body, err := json.Marshal(facts)
	if err != nil {
		return nil, fmt.Errorf("marshal facts: %w", err)
	}
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeInsight), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: string(body)}},
		Schema:      s.schema,
		MaxTokens:   s.maxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	var n Narrative
	if err := json.Unmarshal(resp.Content, &n); err != nil {
		return nil, fmt.Errorf("decode narrative: %w", err)
	}
	if n.FocusAreas == nil {
		n.FocusAreas = []string{}
	}
	s.log.Debug("insight generated",
		"provider", s.provider.Name(),
		"model", resp.Model,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return &n, nil
}

// NarrativeSchema reflects Narrative into a plain JSON Schema map with
// every field required and no extra properties.
func NarrativeSchema() map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Anonymous:                  true,
	}
	raw, err := json.Marshal(r.Reflect(&Narrative{}))
	if err != nil {
		panic(fmt.Sprintf("reflect narrative schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		panic(fmt.Sprintf("decode narrative schema: %v", err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

// Result is the read-side payload for the insights endpoint.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"user_id"`
	*Narrative
}

// ForUser builds the dashboard for userID and narrates it. Like the
// clinical read methods it never returns an error.
func (s *Service) ForUser(ctx context.Context, e *clinical.Engine, userID string) Result {
	if s == nil {
		return Result{UserID: userID, Error: ErrDisabled.Error()}
	}
	d := e.GetDashboardData(ctx, userID)
	if !d.Success {
		return Result{UserID: userID, Error: d.Error}
	}
	n, err := s.Narrate(ctx, FactsFrom(d.DashboardData))
	if err != nil {
		s.log.Warn("insight failed", "user_id", userID, "err", err)
		return Result{UserID: userID, Error: "Insight generation is temporarily unavailable."}
	}
	return Result{Success: true, UserID: userID, Narrative: n}
}
