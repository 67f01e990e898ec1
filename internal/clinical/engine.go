// Package clinical composes the classifier, theme extractor, safety module,
// profile extractor, store and analytics engine into the ingest and
// dashboard entry points used by the host application.
package clinical

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AKakshat1729/AGI-119/internal/analytics"
	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/logger"
	"github.com/AKakshat1729/AGI-119/internal/metrics"
	"github.com/AKakshat1729/AGI-119/internal/safety"
	"github.com/AKakshat1729/AGI-119/internal/store"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

// Settings sizes the worker pool and the history each read looks at.
type Settings struct {
	Analytics analytics.Config

	Workers   int
	QueueSize int

	DashboardHistory  int
	AlertHistory      int
	ReportTranscripts int
	MemoryHistory     int
	AlertsShown       int
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		Analytics:         analytics.DefaultConfig(),
		Workers:           4,
		QueueSize:         256,
		DashboardHistory:  200,
		AlertHistory:      50,
		ReportTranscripts: 50,
		MemoryHistory:     50,
		AlertsShown:       15,
	}
}

// Engine is the facade. It is safe for concurrent use.
type Engine struct {
	sessions store.SessionRepo
	alerts   store.AlertRepo

	classifier *emotion.Classifier
	safety     *safety.Module
	analytics  *analytics.Engine

	settings Settings
	log      *logger.Logger
	now      func() time.Time

	queue  chan ingestJob
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithSettings replaces DefaultSettings.
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the clock used for safety timestamps and
// generated_at.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithClassifier overrides the emotion classifier configuration.
func WithClassifier(cfg emotion.Config) Option {
	return func(e *Engine) { e.classifier = emotion.NewClassifier(cfg) }
}

// New creates an engine over the given repositories and starts the async
// ingestion workers. Call Close to drain them.
func New(sessions store.SessionRepo, alerts store.AlertRepo, opts ...Option) *Engine {
	e := &Engine{
		sessions:   sessions,
		alerts:     alerts,
		classifier: emotion.NewClassifier(emotion.DefaultConfig()),
		settings:   DefaultSettings(),
		log:        logger.NewNop(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.safety = safety.NewModule(e.now)
	e.analytics = analytics.NewEngine(e.settings.Analytics)

	workers := max(e.settings.Workers, 1)
	e.queue = make(chan ingestJob, max(e.settings.QueueSize, 1))
	for range workers {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

// Analytics exposes the statistics engine the facade uses.
func (e *Engine) Analytics() *analytics.Engine {
	return e.analytics
}

// Outcome is what ProcessSession derived and stored for one session.
type Outcome struct {
	Session *store.SessionRecord `json:"session"`
	Safety  safety.Result        `json:"safety"`
	Alert   *store.RiskAlert     `json:"alert,omitempty"`
}

// ProcessSession analyses transcript and persists the result, plus a risk
// alert when the safety scan flags it. Re-processing a session id replaces
// the earlier record.
func (e *Engine) ProcessSession(ctx context.Context, userID, sessionID, transcript string, messageCount int) (*Outcome, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("process session: %w", store.ErrMissingKey)
	}
	start := time.Now()

	score := e.classifier.Classify(transcript)
	found := themes.Extract(transcript)
	check := e.safety.Analyze(transcript)

	mood := -score.Confidence
	if emotion.IsPositive(score.Label) {
		mood = score.Confidence
	}

	saved, err := e.sessions.UpsertSession(ctx, store.SessionRecord{
		SessionID:    sessionID,
		UserID:       userID,
		Emotion:      score.Label,
		Confidence:   score.Confidence,
		Themes:       found,
		RiskFlag:     check.RiskFlag,
		MoodScore:    mood,
		MessageCount: messageCount,
		Transcript:   transcript,
	})
	if err != nil {
		return nil, fmt.Errorf("process session: %w", err)
	}
	out := &Outcome{Session: saved, Safety: check}

	if check.RiskFlag {
		cats := make([]string, len(check.Categories))
		for i, c := range check.Categories {
			cats[i] = string(c)
		}
		alert, err := e.alerts.StoreRiskAlert(ctx, sessionID, userID, cats, string(check.Severity))
		if err != nil {
			return out, fmt.Errorf("store risk alert: %w", err)
		}
		out.Alert = alert
		metrics.RiskAlerts.WithLabelValues(string(check.Severity)).Inc()
	}

	metrics.SessionsProcessed.WithLabelValues(string(score.Label)).Inc()
	metrics.ObserveProcessing(start)
	e.log.Info("session processed",
		"user_id", userID,
		"session_id", sessionID,
		"emotion", score.Label,
		"confidence", score.Confidence,
		"themes", found,
		"risk", check.RiskFlag,
		"severity", check.Severity,
	)
	return out, nil
}

// CheckSafety scans text synchronously. It never touches storage.
func (e *Engine) CheckSafety(text string) safety.Result {
	return e.safety.Analyze(text)
}
