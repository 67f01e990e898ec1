package clinical

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AKakshat1729/AGI-119/internal/analytics"
	"github.com/AKakshat1729/AGI-119/internal/emotion"
	"github.com/AKakshat1729/AGI-119/internal/metrics"
	"github.com/AKakshat1729/AGI-119/internal/resources"
	"github.com/AKakshat1729/AGI-119/internal/safety"
	"github.com/AKakshat1729/AGI-119/internal/store"
	"github.com/AKakshat1729/AGI-119/internal/themes"
)

const (
	sadExam  = "I feel hopeless and empty before my exam, I can't sleep"
	crisis   = "I want to kill myself, I can't go on"
	goodDay  = "Feeling happy and grateful today"
	fixedNow = "2026-03-01T12:00:00Z"
)

func testClock() time.Time {
	t, _ := time.Parse(time.RFC3339, fixedNow)
	return t
}

type storeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *storeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Hour)
	return c.t
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *store.Store) {
	t.Helper()
	clock := &storeClock{t: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)}
	st, err := store.Open(filepath.Join(t.TempDir(), "clinical.db"), store.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	opts = append([]Option{WithClock(testClock)}, opts...)
	e := New(st.SessionRepo(), st.AlertRepo(), opts...)
	t.Cleanup(e.Close)
	return e, st
}

func TestProcessSession_PersistsAnalysis(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()

	out, err := e.ProcessSession(ctx, "u1", "s1", sadExam, 6)
	require.NoError(t, err)

	got := out.Session
	assert.Equal(t, emotion.LabelDepression, got.Emotion)
	assert.Equal(t, 0.6133, got.Confidence)
	assert.Equal(t, -0.6133, got.MoodScore)
	assert.Equal(t, []themes.Theme{themes.AcademicPressure, themes.Insomnia}, got.Themes)
	assert.False(t, got.RiskFlag)
	assert.Equal(t, 6, got.MessageCount)
	assert.Nil(t, out.Alert, "no alert without a risk flag")

	alerts, err := st.AlertRepo().GetRiskAlerts(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestProcessSession_PositiveMoodSign(t *testing.T) {
	e, _ := newTestEngine(t)
	out, err := e.ProcessSession(context.Background(), "u1", "s1", goodDay, 2)
	require.NoError(t, err)
	assert.Equal(t, emotion.LabelPositive, out.Session.Emotion)
	assert.Equal(t, 0.5133, out.Session.MoodScore)
}

func TestProcessSession_RiskWritesAlert(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()

	out, err := e.ProcessSession(ctx, "u1", "s-risk", crisis, 1)
	require.NoError(t, err)
	require.NotNil(t, out.Alert)
	assert.True(t, out.Session.RiskFlag)
	assert.Equal(t, safety.SeverityHigh, out.Safety.Severity)
	assert.Equal(t, []string{"suicidal_ideation"}, out.Alert.Categories)
	assert.Equal(t, "HIGH", out.Alert.Severity)

	// Re-processing replaces the session but appends another alert.
	_, err = e.ProcessSession(ctx, "u1", "s-risk", crisis, 2)
	require.NoError(t, err)
	sessions, err := st.SessionRepo().GetUserSessions(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	alerts, err := st.AlertRepo().GetRiskAlerts(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestProcessSession_RequiresKeys(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.ProcessSession(context.Background(), "", "s1", goodDay, 0)
	assert.ErrorIs(t, err, store.ErrMissingKey)
}

func TestReads_SurviveMalformedLegacyRow(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessSession(ctx, "u1", "s1", sadExam, 6)
	require.NoError(t, err)
	_, err = st.DB().Exec(`INSERT INTO session_analytics
		(session_id, user_id, emotion, confidence, themes, risk_flag, timestamp)
		VALUES ('bad', 'u1', 'stress', 0.5, 'work_career', 0, '')`)
	require.NoError(t, err)

	dash := e.GetDashboardData(ctx, "u1")
	require.True(t, dash.Success, dash.Error)
	assert.Equal(t, 2, dash.TotalSessions)

	mem := e.GetMemoryContext(ctx, "u1")
	require.True(t, mem.Success, mem.Error)
	assert.Equal(t, 2, mem.SessionCount)
}

func TestCheckSafety(t *testing.T) {
	e, _ := newTestEngine(t)

	flagged := e.CheckSafety(crisis)
	assert.True(t, flagged.RiskFlag)
	assert.Equal(t, testClock(), flagged.Timestamp)
	assert.NotEmpty(t, flagged.EmergencyResources)

	quiet := e.CheckSafety("")
	assert.False(t, quiet.RiskFlag)
	assert.Equal(t, safety.SeverityNone, quiet.Severity)
}

func seed(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	for i, text := range []string{sadExam, crisis, goodDay} {
		_, err := e.ProcessSession(ctx, "u1", []string{"s1", "s2", "s3"}[i], text, i+1)
		require.NoError(t, err)
	}
}

func TestGetDashboardData(t *testing.T) {
	e, _ := newTestEngine(t)
	seed(t, e)

	d := e.GetDashboardData(context.Background(), "u1")
	require.True(t, d.Success, d.Error)
	assert.Equal(t, "u1", d.UserID)
	assert.Equal(t, 3, d.TotalSessions)
	assert.Len(t, d.AnxietyTrend, 3)
	assert.Len(t, d.SmoothedAnxietyTrend, 3)
	assert.Equal(t, 0.6133, d.AnxietyTrend[0].Score, "trend is chronological")
	assert.Equal(t, map[analytics.Category]int{
		analytics.CategoryAnxiety:  1,
		analytics.CategoryPositive: 2,
		analytics.CategoryNeutral:  0,
	}, d.CategoryBreakdown)
	require.Len(t, d.RiskAlerts, 1)
	assert.Equal(t, "s2", d.RiskAlerts[0].SessionID)
	assert.Equal(t, []string{"suicidal_ideation"}, d.RiskAlerts[0].Categories)
	assert.Len(t, d.TopicFrequency, 2)
	assert.Contains(t, []string{"academic_pressure", "insomnia"}, d.MostFrequentTopic)
	assert.Equal(t, resources.CopingStrategies(resources.Depression), d.CopingStrategies[resources.Depression])
	assert.Contains(t, d.CopingStrategies, resources.Insomnia)
	assert.Equal(t, safety.EmergencyResources(), d.EmergencyResources)
	assert.Equal(t, safety.SafetyTips(), d.SafetyTips)
	assert.Equal(t, 3, d.StatisticalSummary.SessionCount)
	assert.Equal(t, testClock(), d.GeneratedAt)
}

func TestGetDashboardData_EmptyUser(t *testing.T) {
	e, _ := newTestEngine(t)
	d := e.GetDashboardData(context.Background(), "nobody")
	require.True(t, d.Success)
	assert.Equal(t, 0, d.TotalSessions)
	assert.Equal(t, analytics.NoTopic, d.MostFrequentTopic)
	assert.Equal(t, analytics.DefaultStressor, d.DominantStressor)
	assert.Equal(t, 1.0, d.MoodStabilityIndex)
	assert.Empty(t, d.RiskAlerts)
	assert.Empty(t, d.CopingStrategies)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"risk_alerts":[]`)
	assert.Contains(t, string(raw), `"anxiety_trend":[]`)
}

func TestGetDashboardData_CapsAlerts(t *testing.T) {
	s := DefaultSettings()
	s.AlertsShown = 2
	e, _ := newTestEngine(t, WithSettings(s))
	for _, id := range []string{"a", "b", "c"} {
		_, err := e.ProcessSession(context.Background(), "u1", id, crisis, 1)
		require.NoError(t, err)
	}
	d := e.GetDashboardData(context.Background(), "u1")
	require.True(t, d.Success)
	require.Len(t, d.RiskAlerts, 2)
	assert.Equal(t, "c", d.RiskAlerts[0].SessionID, "newest first")
}

func TestGetMedicalReport(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.ProcessSession(ctx, "u1", "s1", "My name is Priya and I was diagnosed with ADHD", 1)
	require.NoError(t, err)

	rep := e.GetMedicalReport(ctx, "u1")
	require.True(t, rep.Success)
	assert.Equal(t, "u1", rep.UserID)
	assert.Equal(t, "Priya", rep.Identity["name"])
	assert.NotEqual(t, []string{MedicalErrorPlaceholder}, rep.MedicalHistory)

	empty := e.GetMedicalReport(ctx, "nobody")
	require.True(t, empty.Success)
	assert.Equal(t, []string{"No medical records detected yet."}, empty.MedicalHistory)
}

func TestGetRiskAlerts(t *testing.T) {
	e, _ := newTestEngine(t)
	seed(t, e)

	res := e.GetRiskAlerts(context.Background(), "u1")
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Count)
	assert.Len(t, res.RiskAlerts, 1)
	assert.Equal(t, "HIGH", res.RiskAlerts[0].Severity)
	assert.NotEmpty(t, res.EmergencyResources)
	assert.NotEmpty(t, res.SafetyTips)
}

func TestGetMemoryContext(t *testing.T) {
	e, _ := newTestEngine(t)
	seed(t, e)

	mc := e.GetMemoryContext(context.Background(), "u1")
	require.True(t, mc.Success)
	assert.Equal(t, 3, mc.SessionCount)
	assert.Equal(t, map[emotion.Label]int{
		emotion.LabelDepression: 1,
		emotion.LabelNeutral:    1,
		emotion.LabelPositive:   1,
	}, mc.DominantEmotions)
	assert.Equal(t, 3, mc.StatisticalSummary.SessionCount)
}

// brokenRepo fails every call, or panics when panicky is set.
type brokenRepo struct{ panicky bool }

var errDisk = errors.New("disk I/O error")

func (r brokenRepo) fail() error {
	if r.panicky {
		panic("corrupted row")
	}
	return errDisk
}

func (r brokenRepo) UpsertSession(context.Context, store.SessionRecord) (*store.SessionRecord, error) {
	return nil, r.fail()
}

func (r brokenRepo) GetUserSessions(context.Context, string, int) ([]store.SessionRecord, error) {
	return nil, r.fail()
}

func (r brokenRepo) GetUserTranscripts(context.Context, string, int) ([]string, error) {
	return nil, r.fail()
}

func (r brokenRepo) StoreRiskAlert(context.Context, string, string, []string, string) (*store.RiskAlert, error) {
	return nil, r.fail()
}

func (r brokenRepo) GetRiskAlerts(context.Context, string, int) ([]store.RiskAlert, error) {
	return nil, r.fail()
}

func TestReadsDegradeOnStoreFailure(t *testing.T) {
	for _, repo := range []brokenRepo{{}, {panicky: true}} {
		e := New(repo, repo)
		ctx := context.Background()

		d := e.GetDashboardData(ctx, "u1")
		assert.False(t, d.Success)
		assert.NotEmpty(t, d.Error)
		assert.Equal(t, "u1", d.UserID)
		assert.Nil(t, d.DashboardData)

		raw, err := json.Marshal(d)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "total_sessions")

		rep := e.GetMedicalReport(ctx, "u1")
		assert.False(t, rep.Success)
		assert.Equal(t, []string{MedicalErrorPlaceholder}, rep.MedicalHistory)
		assert.Equal(t, []string{ProfileErrorPlaceholder}, rep.PersonalProfile)
		assert.Equal(t, []string{}, rep.RiskFlags)

		alerts := e.GetRiskAlerts(ctx, "u1")
		assert.False(t, alerts.Success)
		assert.Equal(t, []AlertView{}, alerts.RiskAlerts)

		mc := e.GetMemoryContext(ctx, "u1")
		assert.False(t, mc.Success)
		assert.Nil(t, mc.MemoryData)

		e.Close()
	}
}

func TestProcessSession_StoreFailure(t *testing.T) {
	e := New(brokenRepo{}, brokenRepo{})
	defer e.Close()
	_, err := e.ProcessSession(context.Background(), "u1", "s1", goodDay, 0)
	assert.ErrorIs(t, err, errDisk)
}

func TestProcessSessionAsync_DrainsOnClose(t *testing.T) {
	clock := &storeClock{t: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)}
	st, err := store.Open(filepath.Join(t.TempDir(), "async.db"), store.WithClock(clock.Now))
	require.NoError(t, err)
	defer st.Close()

	e := New(st.SessionRepo(), st.AlertRepo())
	for _, id := range []string{"a", "b", "c", "d"} {
		assert.True(t, e.ProcessSessionAsync("u1", id, sadExam, 1))
	}
	e.Close()
	e.Close()

	sessions, err := st.SessionRepo().GetUserSessions(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 4)
	assert.False(t, e.ProcessSessionAsync("u1", "late", goodDay, 1), "closed engine drops jobs")
}

// gatedRepo blocks UpsertSession until release is closed.
type gatedRepo struct {
	brokenRepo
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	saved   []string
}

func (g *gatedRepo) UpsertSession(_ context.Context, rec store.SessionRecord) (*store.SessionRecord, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	g.mu.Lock()
	g.saved = append(g.saved, rec.SessionID)
	g.mu.Unlock()
	return &rec, nil
}

func TestProcessSessionAsync_DropsWhenFull(t *testing.T) {
	repo := &gatedRepo{started: make(chan struct{}), release: make(chan struct{})}
	s := DefaultSettings()
	s.Workers, s.QueueSize = 1, 1
	e := New(repo, repo, WithSettings(s))

	depth := testutil.ToFloat64(metrics.IngestQueueDepth)
	require.True(t, e.ProcessSessionAsync("u1", "first", goodDay, 1))
	<-repo.started
	assert.Equal(t, depth, testutil.ToFloat64(metrics.IngestQueueDepth), "picked-up job leaves the queue")
	require.True(t, e.ProcessSessionAsync("u1", "queued", goodDay, 1))
	assert.False(t, e.ProcessSessionAsync("u1", "dropped", goodDay, 1))
	assert.Equal(t, depth+1, testutil.ToFloat64(metrics.IngestQueueDepth), "dropped job is not counted")

	close(repo.release)
	e.Close()
	assert.Equal(t, []string{"first", "queued"}, repo.saved)
	assert.Equal(t, depth, testutil.ToFloat64(metrics.IngestQueueDepth))
}

// panicRepo panics on the first upsert and succeeds afterwards.
type panicRepo struct {
	gatedRepo
	calls int
}

func (p *panicRepo) UpsertSession(_ context.Context, rec store.SessionRecord) (*store.SessionRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls == 1 {
		panic("boom")
	}
	p.saved = append(p.saved, rec.SessionID)
	return &rec, nil
}

func TestProcessSessionAsync_WorkerSurvivesPanic(t *testing.T) {
	repo := &panicRepo{}
	s := DefaultSettings()
	s.Workers = 1
	e := New(repo, repo, WithSettings(s))

	e.ProcessSessionAsync("u1", "explodes", goodDay, 1)
	e.ProcessSessionAsync("u1", "survives", goodDay, 1)
	e.Close()

	assert.Equal(t, []string{"survives"}, repo.saved)
}
