package store

import (
	"context"
	"time"

	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

// MaxTranscriptRunes bounds the transcript text kept per session.
const MaxTranscriptRunes = 2000

// SessionRecord is one analysed session.
type SessionRecord struct {
	SessionID    string         `json:"session_id"`
	UserID       string         `json:"user_id"`
	Emotion      emotion.Label  `json:"emotion"`
	Confidence   float64        `json:"confidence"`
	Themes       []themes.Theme `json:"themes"`
	RiskFlag     bool           `json:"risk_flag"`
	MoodScore    float64        `json:"mood_score"`
	MessageCount int            `json:"message_count"`
	Transcript   string         `json:"transcript,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// RiskAlert is an append-only record of a flagged session.
type RiskAlert struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Categories []string  `json:"categories"`
	Severity   string    `json:"severity"`
	Timestamp  time.Time `json:"timestamp"`
}

// SessionRepo persists analysed sessions.
type SessionRepo interface {
	// UpsertSession inserts or replaces the record keyed by SessionID. The
	// timestamp is always set to the store clock; the stored record is
	// returned.
	UpsertSession(ctx context.Context, rec SessionRecord) (*SessionRecord, error)

	// GetUserSessions returns up to limit sessions for userID, newest first.
	GetUserSessions(ctx context.Context, userID string, limit int) ([]SessionRecord, error)

	// GetUserTranscripts returns up to limit non-empty transcripts for
	// userID, newest first.
	GetUserTranscripts(ctx context.Context, userID string, limit int) ([]string, error)
}

// AlertRepo persists risk alerts.
type AlertRepo interface {
	// StoreRiskAlert appends a new alert with a fresh id.
	StoreRiskAlert(ctx context.Context, sessionID, userID string, categories []string, severity string) (*RiskAlert, error)

	// GetRiskAlerts returns up to limit alerts for userID, newest first.
	GetRiskAlerts(ctx context.Context, userID string, limit int) ([]RiskAlert, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event with id, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
