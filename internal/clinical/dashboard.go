package clinical

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AKakshat1729/AGI-119/internal/analytics"
	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/metrics"
	"github.com/AKakshat1729/AGI-119/internal/resources"
	"github.com/AKakshat1729/AGI-119/internal/safety"
	"github.com/AKakshat1729/AGI-119/internal/store"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

// Dashboard is the read-side payload for one user. On failure only
// success, error and user_id are set.
type Dashboard struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"user_id"`
	*DashboardData
}

// DashboardData holds every computed dashboard field.
type DashboardData struct {
	TotalSessions        int                        `json:"total_sessions"`
	AnxietyTrend         []analytics.Point          `json:"anxiety_trend"`
	SmoothedAnxietyTrend []analytics.Point          `json:"smoothed_anxiety_trend"`
	MoodStabilityIndex   float64                    `json:"mood_stability_index"`
	DominantStressor     string                     `json:"dominant_stressor"`
	TherapyProgressScore float64                    `json:"therapy_progress_score"`
	EmotionalVolatility  float64                    `json:"emotional_volatility"`
	DominantNegativePct  float64                    `json:"dominant_negative_pct"`
	TrendDirection       analytics.Direction        `json:"trend_direction"`
	MostFrequentTopic    string                     `json:"most_frequent_topic"`
	ImprovementTrend     []analytics.Point          `json:"improvement_trend"`
	RiskAlerts           []AlertView                `json:"risk_alerts"`
	TopicFrequency       themes.Frequency           `json:"topic_frequency"`
	CategoryBreakdown    map[analytics.Category]int `json:"session_category_breakdown"`
	HeatmapData          []analytics.HeatmapCell    `json:"heatmap_data"`
	StatisticalSummary   analytics.Summary          `json:"statistical_summary"`
	CopingStrategies     map[string][]string        `json:"coping_strategies"`
	EmergencyResources   []safety.Resource          `json:"emergency_resources"`
	SafetyTips           []string                   `json:"safety_tips"`
	GeneratedAt          time.Time                  `json:"generated_at"`
}

// AlertView is the display form of a stored risk alert.
type AlertView struct {
	SessionID  string    `json:"session_id"`
	Severity   string    `json:"severity"`
	Categories []string  `json:"categories"`
	Timestamp  time.Time `json:"timestamp"`
}

func alertViews(alerts []store.RiskAlert, limit int) []AlertView {
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	out := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		cats := a.Categories
		if cats == nil {
			cats = []string{}
		}
		out = append(out, AlertView{
			SessionID:  a.SessionID,
			Severity:   a.Severity,
			Categories: cats,
			Timestamp:  a.Timestamp,
		})
	}
	return out
}

// GetDashboardData recomputes the full dashboard from the user's stored
// history. It never returns an error; failures come back as
// Success=false.
func (e *Engine) GetDashboardData(ctx context.Context, userID string) (dash *Dashboard) {
	defer e.recoverRead(metrics.EndpointDashboard, userID, func(err error) {
		dash = &Dashboard{Success: false, Error: err.Error(), UserID: userID}
	})

	var (
		sessions []store.SessionRecord
		alerts   []store.RiskAlert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(guarded(func() error {
		var err error
		sessions, err = e.sessions.GetUserSessions(gctx, userID, e.settings.DashboardHistory)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		return nil
	}))
	g.Go(guarded(func() error {
		var err error
		alerts, err = e.alerts.GetRiskAlerts(gctx, userID, e.settings.AlertHistory)
		if err != nil {
			return fmt.Errorf("load risk alerts: %w", err)
		}
		return nil
	}))
	if err := g.Wait(); err != nil {
		e.readFailed(metrics.EndpointDashboard, userID, err)
		return &Dashboard{Success: false, Error: err.Error(), UserID: userID}
	}

	a := e.analytics
	freq := a.TopicFrequency(sessions)
	mostFrequent := analytics.NoTopic
	if top, ok := freq.Top(); ok {
		mostFrequent = string(top)
	}

	return &Dashboard{
		Success: true,
		UserID:  userID,
		DashboardData: &DashboardData{
			TotalSessions:        len(sessions),
			AnxietyTrend:         a.AnxietyTrend(sessions),
			SmoothedAnxietyTrend: a.MovingAverageAnxiety(sessions, a.Config().SmoothingWindow),
			MoodStabilityIndex:   a.StabilityIndex(sessions),
			DominantStressor:     a.DominantStressor(sessions),
			TherapyProgressScore: a.ProgressScore(sessions),
			EmotionalVolatility:  a.VolatilityIndex(sessions),
			DominantNegativePct:  a.DominantNegativePct(sessions),
			TrendDirection:       a.TrendDirection(sessions),
			MostFrequentTopic:    mostFrequent,
			ImprovementTrend:     a.ImprovementTrend(sessions),
			RiskAlerts:           alertViews(alerts, e.settings.AlertsShown),
			TopicFrequency:       freq,
			CategoryBreakdown:    a.CategoryBreakdown(sessions),
			HeatmapData:          a.Heatmap(sessions),
			StatisticalSummary:   a.Summarize(sessions),
			CopingStrategies:     copingFor(a.EmotionCounts(sessions), freq),
			EmergencyResources:   safety.EmergencyResources(),
			SafetyTips:           safety.SafetyTips(),
			GeneratedAt:          e.now(),
		},
	}
}

// guarded converts a panic inside an errgroup goroutine into its error,
// since recoverRead only sees panics on the calling goroutine.
func guarded(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("internal error: %v", r)
			}
		}()
		return fn()
	}
}

// copingFor picks strategies for the most frequent negative emotion and
// for insomnia when it shows up among the themes.
func copingFor(counts map[emotion.Label]int, freq themes.Frequency) map[string][]string {
	out := make(map[string][]string)

	var (
		dominant emotion.Label
		best     int
	)
	for _, label := range emotion.Labels() {
		if emotion.IsNegative(label) && counts[label] > best {
			dominant, best = label, counts[label]
		}
	}
	if cond, ok := resources.ConditionFor(dominant); ok {
		out[cond] = resources.CopingStrategies(cond)
	}
	if freq.Get(themes.Insomnia) > 0 {
		out[resources.Insomnia] = resources.CopingStrategies(resources.Insomnia)
	}
	return out
}
