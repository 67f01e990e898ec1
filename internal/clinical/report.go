package clinical

import (
	"context"
	"fmt"

	"github.com/AKakshat1729/AGI-119/internal/analytics"
	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/metrics"
	"github.com/AKakshat1729/AGI-119/internal/profile"
	"github.com/AKakshat1729/AGI-119/internal/safety"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

// Placeholders returned when the transcript history cannot be read.
const (
	MedicalErrorPlaceholder = "Error loading medical records."
	ProfileErrorPlaceholder = "Error loading personal profile."
)

// MedicalReport wraps a profile report with the success envelope.
type MedicalReport struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	*profile.Report
}

// RiskAlerts lists a user's stored alerts with the static safety
// resources.
type RiskAlerts struct {
	Success            bool              `json:"success"`
	Error              string            `json:"error,omitempty"`
	RiskAlerts         []AlertView       `json:"risk_alerts"`
	Count              int               `json:"count"`
	EmergencyResources []safety.Resource `json:"emergency_resources,omitempty"`
	SafetyTips         []string          `json:"safety_tips,omitempty"`
}

// MemoryContext is a compact summary of recent sessions for prompt
// building in the host application.
type MemoryContext struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"user_id"`
	*MemoryData
}

// MemoryData holds the aggregate fields of a memory context.
type MemoryData struct {
	SessionCount         int                   `json:"session_count"`
	DominantEmotions     map[emotion.Label]int `json:"dominant_emotions"`
	TopicFrequency       themes.Frequency      `json:"topic_frequency"`
	DominantStressor     string                `json:"dominant_stressor"`
	TherapyProgressScore float64               `json:"therapy_progress_score"`
	StatisticalSummary   analytics.Summary     `json:"statistical_summary"`
}

// GetMedicalReport runs the profile extractor over the user's stored
// transcripts.
func (e *Engine) GetMedicalReport(ctx context.Context, userID string) (rep *MedicalReport) {
	defer e.recoverRead(metrics.EndpointMedicalReport, userID, func(err error) {
		rep = medicalFailure(userID, err)
	})

	texts, err := e.sessions.GetUserTranscripts(ctx, userID, e.settings.ReportTranscripts)
	if err != nil {
		err = fmt.Errorf("load transcripts: %w", err)
		e.readFailed(metrics.EndpointMedicalReport, userID, err)
		return medicalFailure(userID, err)
	}
	return &MedicalReport{Success: true, Report: profile.BuildReport(userID, texts)}
}

func medicalFailure(userID string, err error) *MedicalReport {
	return &MedicalReport{
		Success: false,
		Error:   err.Error(),
		Report: &profile.Report{
			UserID:          userID,
			Identity:        map[profile.IdentityField]string{},
			MedicalHistory:  []string{MedicalErrorPlaceholder},
			PersonalProfile: []string{ProfileErrorPlaceholder},
			RiskFlags:       []string{},
		},
	}
}

// GetRiskAlerts returns the user's stored alerts, newest first.
func (e *Engine) GetRiskAlerts(ctx context.Context, userID string) (res *RiskAlerts) {
	defer e.recoverRead(metrics.EndpointRiskAlerts, userID, func(err error) {
		res = &RiskAlerts{Success: false, Error: err.Error(), RiskAlerts: []AlertView{}}
	})

	alerts, err := e.alerts.GetRiskAlerts(ctx, userID, e.settings.AlertHistory)
	if err != nil {
		err = fmt.Errorf("load risk alerts: %w", err)
		e.readFailed(metrics.EndpointRiskAlerts, userID, err)
		return &RiskAlerts{Success: false, Error: err.Error(), RiskAlerts: []AlertView{}}
	}
	views := alertViews(alerts, 0)
	return &RiskAlerts{
		Success:            true,
		RiskAlerts:         views,
		Count:              len(views),
		EmergencyResources: safety.EmergencyResources(),
		SafetyTips:         safety.SafetyTips(),
	}
}

// GetMemoryContext summarises the user's most recent sessions.
func (e *Engine) GetMemoryContext(ctx context.Context, userID string) (mc *MemoryContext) {
	defer e.recoverRead(metrics.EndpointMemoryContext, userID, func(err error) {
		mc = &MemoryContext{Success: false, Error: err.Error(), UserID: userID}
	})

	sessions, err := e.sessions.GetUserSessions(ctx, userID, e.settings.MemoryHistory)
	if err != nil {
		err = fmt.Errorf("load sessions: %w", err)
		e.readFailed(metrics.EndpointMemoryContext, userID, err)
		return &MemoryContext{Success: false, Error: err.Error(), UserID: userID}
	}

	a := e.analytics
	return &MemoryContext{
		Success: true,
		UserID:  userID,
		MemoryData: &MemoryData{
			SessionCount:         len(sessions),
			DominantEmotions:     a.EmotionCounts(sessions),
			TopicFrequency:       a.TopicFrequency(sessions),
			DominantStressor:     a.DominantStressor(sessions),
			TherapyProgressScore: a.ProgressScore(sessions),
			StatisticalSummary:   a.Summarize(sessions),
		},
	}
}

func (e *Engine) readFailed(endpoint, userID string, err error) {
	metrics.ReadFailures.WithLabelValues(endpoint).Inc()
	e.log.Error("read failed", "endpoint", endpoint, "user_id", userID, "err", err)
}

// recoverRead turns a panic in a read path into a failure payload via
// fail. It must be deferred directly.
func (e *Engine) recoverRead(endpoint, userID string, fail func(error)) {
	r := recover()
	if r == nil {
		return
	}
	err := fmt.Errorf("internal error: %v", r)
	e.readFailed(endpoint, userID, err)
	fail(err)
}
