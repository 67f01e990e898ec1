package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/goccy/go-json"

	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/logger"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

// ErrMissingKey is returned when a record lacks its session or user id.
var ErrMissingKey = errors.New("session_id and user_id are required")

var sessionColumns = []string{
	"session_id", "user_id", "emotion", "confidence", "themes",
	"risk_flag", "mood_score", "message_count", "transcript", "timestamp",
}

// sessionRepo implements SessionRepo over the session_analytics table.
type sessionRepo struct {
	db  *sql.DB
	now func() time.Time
	log *logger.Logger
}

func (r *sessionRepo) UpsertSession(ctx context.Context, rec SessionRecord) (*SessionRecord, error) {
	if rec.SessionID == "" || rec.UserID == "" {
		return nil, ErrMissingKey
	}
	rec.Timestamp = r.now().UTC().Truncate(time.Microsecond)
	rec.Transcript = truncateRunes(rec.Transcript, MaxTranscriptRunes)
	if rec.Themes == nil {
		rec.Themes = []themes.Theme{}
	}

	themesJSON, err := json.Marshal(rec.Themes)
	if err != nil {
		return nil, fmt.Errorf("marshal themes: %w", err)
	}

	query, args := builder().Insert(sessionTable).
		Columns(sessionColumns...).
		Values(
			rec.SessionID,
			rec.UserID,
			string(rec.Emotion),
			rec.Confidence,
			string(themesJSON),
			boolToInt(rec.RiskFlag),
			rec.MoodScore,
			rec.MessageCount,
			rec.Transcript,
			formatTime(rec.Timestamp),
		).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("upsert session %s: %w", rec.SessionID, err)
	}
	return &rec, nil
}

func (r *sessionRepo) GetUserSessions(ctx context.Context, userID string, limit int) ([]SessionRecord, error) {
	b := builder()
	t := b.Table(sessionTable)
	sel := b.Select(sessionColumns...).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		OrderBy(entsql.Desc(t.C("timestamp")))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []SessionRecord{}
	for rows.Next() {
		rec, err := scanSession(rows, r.log)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) GetUserTranscripts(ctx context.Context, userID string, limit int) ([]string, error) {
	b := builder()
	t := b.Table(sessionTable)
	sel := b.Select(t.C("transcript")).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("user_id"), userID),
			entsql.NotNull(t.C("transcript")),
			entsql.NEQ(t.C("transcript"), ""),
		)).
		OrderBy(entsql.Desc(t.C("timestamp")))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		out = append(out, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return out, nil
}

// scanSession reads one row in sessionColumns order. Rows written by older
// releases may carry NULLs in any non-key column. Undecodable themes read as
// empty and an unparseable timestamp as the zero time; only scan errors fail.
func scanSession(rows *sql.Rows, log *logger.Logger) (SessionRecord, error) {
	var (
		rec          SessionRecord
		emo          sql.NullString
		confidence   sql.NullFloat64
		themesJSON   sql.NullString
		riskFlag     sql.NullInt64
		moodScore    sql.NullFloat64
		messageCount sql.NullInt64
		transcript   sql.NullString
		ts           sql.NullString
	)
	if err := rows.Scan(
		&rec.SessionID, &rec.UserID, &emo, &confidence, &themesJSON,
		&riskFlag, &moodScore, &messageCount, &transcript, &ts,
	); err != nil {
		return rec, fmt.Errorf("scan session: %w", err)
	}

	rec.Emotion = emotion.Label(emo.String)
	rec.Confidence = confidence.Float64
	rec.RiskFlag = riskFlag.Int64 != 0
	rec.MoodScore = moodScore.Float64
	rec.MessageCount = int(messageCount.Int64)
	rec.Transcript = transcript.String
	rec.Themes = decodeList[themes.Theme](log, themesJSON, "themes", "session_id", rec.SessionID)
	rec.Timestamp = readTime(log, ts, "session_id", rec.SessionID)
	return rec, nil
}

// decodeList decodes a JSON array column. NULL, empty and malformed values
// all yield an empty, non-nil slice.
func decodeList[T any](log *logger.Logger, col sql.NullString, column, idKey, id string) []T {
	out := []T{}
	if !col.Valid || col.String == "" {
		return out
	}
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		log.Warn("unreadable column, using empty list", "column", column, idKey, id, "error", err)
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// readTime parses a timestamp column, falling back to the zero time.
func readTime(log *logger.Logger, col sql.NullString, idKey, id string) time.Time {
	if !col.Valid {
		return time.Time{}
	}
	t, err := parseTime(col.String)
	if err != nil {
		log.Warn("unreadable timestamp, using zero time", idKey, id, "error", err)
		return time.Time{}
	}
	return t
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
