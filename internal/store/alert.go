package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/AKakshat1729/AGI-119/internal/logger"
)

var alertColumns = []string{"id", "session_id", "user_id", "categories", "severity", "timestamp"}

// alertRepo implements AlertRepo over the append-only risk_alerts table.
type alertRepo struct {
	db  *sql.DB
	now func() time.Time
	log *logger.Logger
}

func (r *alertRepo) StoreRiskAlert(ctx context.Context, sessionID, userID string, categories []string, severity string) (*RiskAlert, error) {
	if userID == "" {
		return nil, ErrMissingKey
	}
	if categories == nil {
		categories = []string{}
	}
	alert := &RiskAlert{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		UserID:     userID,
		Categories: categories,
		Severity:   severity,
		Timestamp:  r.now().UTC().Truncate(time.Microsecond),
	}

	catJSON, err := json.Marshal(alert.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	query, args := builder().Insert(alertTable).
		Columns(alertColumns...).
		Values(alert.ID, alert.SessionID, alert.UserID, string(catJSON), alert.Severity, formatTime(alert.Timestamp)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("store risk alert: %w", err)
	}
	return alert, nil
}

func (r *alertRepo) GetRiskAlerts(ctx context.Context, userID string, limit int) ([]RiskAlert, error) {
	b := builder()
	t := b.Table(alertTable)
	sel := b.Select(alertColumns...).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		OrderBy(entsql.Desc(t.C("timestamp")))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query risk alerts: %w", err)
	}
	defer rows.Close()

	out := []RiskAlert{}
	for rows.Next() {
		var (
			a       RiskAlert
			session sql.NullString
			cats    sql.NullString
			sev     sql.NullString
			ts      sql.NullString
		)
		if err := rows.Scan(&a.ID, &session, &a.UserID, &cats, &sev, &ts); err != nil {
			return nil, fmt.Errorf("scan risk alert: %w", err)
		}
		a.SessionID = session.String
		a.Severity = sev.String
		a.Categories = decodeList[string](r.log, cats, "categories", "alert_id", a.ID)
		a.Timestamp = readTime(r.log, ts, "alert_id", a.ID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate risk alerts: %w", err)
	}
	return out, nil
}
