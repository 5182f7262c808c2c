package assessment

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker/internal/catalog"
	"symptom-checker/internal/scoring"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := newFakeClock()
	return NewStore(WithClock(clock.Now)), clock
}

func TestCreateSession(t *testing.T) {
	s, clock := newTestStore()

	sess := s.CreateSession("curl/8.0", "10.0.0.1")

	_, err := uuid.Parse(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), sess.CreatedAt)
	assert.Equal(t, sess.CreatedAt, sess.LastActivity)
	assert.NotNil(t, sess.Assessments)
	assert.Empty(t, sess.Assessments)
	assert.Equal(t, "curl/8.0", sess.UserAgent)
	assert.Equal(t, "10.0.0.1", sess.IPAddress)

	other := s.CreateSession("", "")
	assert.NotEqual(t, sess.ID, other.ID)
}

func TestGetSessionUnknown(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.GetSession("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSessionReturnsSnapshot(t *testing.T) {
	s, _ := newTestStore()
	sess := s.CreateSession("", "")
	s.SaveAssessment(Assessment{Condition: catalog.Mesothelioma, SessionID: sess.ID})

	got, err := s.GetSession(sess.ID)
	require.NoError(t, err)
	got.Assessments[0].Score = 99
	got.Assessments = append(got.Assessments, Assessment{})

	again, err := s.GetSession(sess.ID)
	require.NoError(t, err)
	require.Len(t, again.Assessments, 1)
	assert.Equal(t, 0, again.Assessments[0].Score)
}

func TestTouchActivity(t *testing.T) {
	s, clock := newTestStore()
	sess := s.CreateSession("", "")

	clock.Advance(time.Minute)
	s.TouchActivity(sess.ID)
	got, _ := s.GetSession(sess.ID)
	assert.Equal(t, sess.CreatedAt.Add(time.Minute), got.LastActivity)

	// A clock step backwards never moves activity back.
	clock.Advance(-time.Hour)
	s.TouchActivity(sess.ID)
	got, _ = s.GetSession(sess.ID)
	assert.Equal(t, sess.CreatedAt.Add(time.Minute), got.LastActivity)
	assert.Equal(t, sess.CreatedAt, got.CreatedAt)

	assert.NotPanics(t, func() { s.TouchActivity("missing") })
}

func TestSaveAssessmentInSession(t *testing.T) {
	s, clock := newTestStore()
	sess := s.CreateSession("", "")
	clock.Advance(5 * time.Minute)

	a := s.SaveAssessment(Assessment{
		Condition:        catalog.CoronaryHeartDisease,
		Risk:             scoring.RiskModerate,
		SelectedSymptoms: []string{"Chest pain"},
		SessionID:        sess.ID,
	})

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, clock.Now(), a.Timestamp)

	got, err := s.GetAssessment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, *got)

	updated, _ := s.GetSession(sess.ID)
	require.Len(t, updated.Assessments, 1)
	assert.Equal(t, a.ID, updated.Assessments[0].ID)
	assert.Equal(t, clock.Now(), updated.LastActivity)

	hist, err := s.GetHistory(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, hist.TotalAssessments)
	assert.Equal(t, a.ID, hist.Assessments[0].ID)
}

func TestSaveAssessmentStandalone(t *testing.T) {
	s, _ := newTestStore()
	sess := s.CreateSession("", "")

	unknown := s.SaveAssessment(Assessment{Condition: catalog.LiverCirrhosis, SessionID: "no-such-session"})
	none := s.SaveAssessment(Assessment{Condition: catalog.LiverCirrhosis})

	for _, id := range []string{unknown.ID, none.ID} {
		_, err := s.GetAssessment(id)
		assert.NoError(t, err)
	}

	got, _ := s.GetSession(sess.ID)
	assert.Empty(t, got.Assessments)
	assert.Equal(t, 2, s.GlobalStats().TotalAssessments)
}

func TestSaveAssessmentKeepsGivenIDAndCopiesSlices(t *testing.T) {
	s, _ := newTestStore()
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	symptoms := []string{"Fatigue"}

	a := s.SaveAssessment(Assessment{ID: "fixed", Timestamp: ts, SelectedSymptoms: symptoms})
	symptoms[0] = "changed"

	assert.Equal(t, "fixed", a.ID)
	assert.Equal(t, ts, a.Timestamp)
	got, _ := s.GetAssessment("fixed")
	assert.Equal(t, []string{"Fatigue"}, got.SelectedSymptoms)
}

func TestGetAssessmentUnknown(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.GetAssessment("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetHistory(t *testing.T) {
	s, _ := newTestStore()
	sess := s.CreateSession("", "")
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	save := func(cond catalog.ConditionKey, risk scoring.RiskLevel, score int, offset time.Duration) {
		s.SaveAssessment(Assessment{
			Condition: cond,
			Risk:      risk,
			Score:     score,
			Timestamp: base.Add(offset),
			SessionID: sess.ID,
		})
	}
	save(catalog.DiabetesMellitus, scoring.RiskLow, 10, 2*time.Hour)
	save(catalog.Mesothelioma, scoring.RiskHigh, 70, 3*time.Hour)
	save(catalog.DiabetesMellitus, scoring.RiskModerate, 40, time.Hour)

	hist, err := s.GetHistory(sess.ID)
	require.NoError(t, err)

	assert.Equal(t, sess.ID, hist.SessionID)
	assert.Equal(t, 3, hist.TotalAssessments)
	require.NotNil(t, hist.LastAssessment)
	assert.Equal(t, base.Add(3*time.Hour), *hist.LastAssessment)

	require.Len(t, hist.RiskTrends, 2)
	assert.Equal(t, catalog.DiabetesMellitus, hist.RiskTrends[0].Condition)
	assert.Equal(t, catalog.Mesothelioma, hist.RiskTrends[1].Condition)
	assert.Equal(t, []TrendPoint{
		{Timestamp: base.Add(time.Hour), Risk: scoring.RiskModerate, Score: 40},
		{Timestamp: base.Add(2 * time.Hour), Risk: scoring.RiskLow, Score: 10},
	}, hist.RiskTrends[0].Assessments)
}

func TestGetHistoryEmptyAndUnknown(t *testing.T) {
	s, _ := newTestStore()
	sess := s.CreateSession("", "")

	hist, err := s.GetHistory(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, hist.TotalAssessments)
	assert.Empty(t, hist.RiskTrends)
	assert.Nil(t, hist.LastAssessment)

	_, err = s.GetHistory("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGlobalStats(t *testing.T) {
	s, _ := newTestStore()

	empty := s.GlobalStats()
	assert.Equal(t, 0, empty.TotalSessions)
	assert.Equal(t, 0.0, empty.AverageAssessmentsPerSession)
	assert.Equal(t, map[scoring.RiskLevel]int{scoring.RiskLow: 0, scoring.RiskModerate: 0, scoring.RiskHigh: 0}, empty.RiskDistribution)

	a := s.CreateSession("", "")
	s.CreateSession("", "")
	s.SaveAssessment(Assessment{Condition: catalog.Mesothelioma, Risk: scoring.RiskHigh, SessionID: a.ID})
	s.SaveAssessment(Assessment{Condition: catalog.Mesothelioma, Risk: scoring.RiskLow, SessionID: a.ID})
	s.SaveAssessment(Assessment{Condition: catalog.LiverCirrhosis, Risk: scoring.RiskLow})

	st := s.GlobalStats()
	assert.Equal(t, 2, st.TotalSessions)
	assert.Equal(t, 3, st.TotalAssessments)
	assert.Equal(t, 1.5, st.AverageAssessmentsPerSession)
	assert.Equal(t, map[catalog.ConditionKey]int{catalog.Mesothelioma: 2, catalog.LiverCirrhosis: 1}, st.AssessmentsByCondition)
	assert.Equal(t, 2, st.RiskDistribution[scoring.RiskLow])
	assert.Equal(t, 0, st.RiskDistribution[scoring.RiskModerate])
	assert.Equal(t, 1, st.RiskDistribution[scoring.RiskHigh])
}

func TestRecentActivity(t *testing.T) {
	s, clock := newTestStore()

	old := s.CreateSession("", "")
	s.SaveAssessment(Assessment{SessionID: old.ID})
	clock.Advance(8 * 24 * time.Hour)

	s.CreateSession("", "")
	s.SaveAssessment(Assessment{})

	ra := s.RecentActivity()
	assert.Equal(t, 1, ra.SessionsLast24h)
	assert.Equal(t, 1, ra.AssessmentsLast7d)
}

func TestSweepExpired(t *testing.T) {
	s, clock := newTestStore()

	idle := s.CreateSession("", "")
	owned := s.SaveAssessment(Assessment{SessionID: idle.ID})
	standalone := s.SaveAssessment(Assessment{})

	clock.Advance(23 * time.Hour)
	active := s.CreateSession("", "")

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, s.SweepExpired())

	_, err := s.GetSession(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetAssessment(owned.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetSession(active.ID)
	assert.NoError(t, err)
	_, err = s.GetAssessment(standalone.ID)
	assert.NoError(t, err)

	assert.Equal(t, 0, s.SweepExpired())
}

func TestSweepExpiredBoundary(t *testing.T) {
	s, clock := newTestStore()
	sess := s.CreateSession("", "")

	clock.Advance(DefaultSessionTTL)
	assert.Equal(t, 0, s.SweepExpired(), "exactly one TTL idle is still live")

	clock.Advance(time.Second)
	assert.Equal(t, 1, s.SweepExpired())
	_, err := s.GetSession(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepExpiredCustomTTL(t *testing.T) {
	clock := newFakeClock()
	s := NewStore(WithClock(clock.Now), WithSessionTTL(time.Hour))
	s.CreateSession("", "")

	clock.Advance(61 * time.Minute)
	assert.Equal(t, 1, s.SweepExpired())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := s.CreateSession(fmt.Sprintf("agent-%d", i), "")
			for j := 0; j < 10; j++ {
				a := s.SaveAssessment(Assessment{Condition: catalog.Mesothelioma, SessionID: sess.ID})
				_, _ = s.GetAssessment(a.ID)
				_, _ = s.GetHistory(sess.ID)
				s.TouchActivity(sess.ID)
				_ = s.GlobalStats()
				_ = s.RecentActivity()
				s.SweepExpired()
			}
		}(i)
	}
	wg.Wait()

	st := s.GlobalStats()
	assert.Equal(t, workers, st.TotalSessions)
	assert.Equal(t, workers*10, st.TotalAssessments)
	assert.Equal(t, 10.0, st.AverageAssessmentsPerSession)
}
