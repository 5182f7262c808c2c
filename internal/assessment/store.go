package assessment

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"

	"symptom-checker/internal/catalog"
	"symptom-checker/internal/scoring"
)

var ErrNotFound = errors.New("not found")

// DefaultSessionTTL is how long a session may stay idle before a sweep
// evicts it.
const DefaultSessionTTL = 24 * time.Hour

// Store keeps sessions and assessments in memory for the life of the
// process. A single lock serialises every mutation, including sweeps.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	assessments map[string]Assessment

	ttl time.Duration
	now func() time.Time
}

type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithSessionTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions:    make(map[string]*Session),
		assessments: make(map[string]Assessment),
		ttl:         DefaultSessionTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateSession(userAgent, ipAddress string) *Session {
	now := s.now().UTC()
	sess := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
		Assessments:  []Assessment{},
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.snapshot()
}

func (s *Store) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sess.snapshot(), nil
}

// TouchActivity records activity on a session. Unknown ids are ignored.
func (s *Store) TouchActivity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked(id)
}

func (s *Store) touchLocked(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	if now := s.now().UTC(); now.After(sess.LastActivity) {
		sess.LastActivity = now
	}
}

// SaveAssessment stores a. When a.SessionID names a live session the
// assessment is also appended to it; otherwise it is kept standalone.
// Missing ids and timestamps are filled in and the stored value returned.
func (s *Store) SaveAssessment(a Assessment) Assessment {
	if a.ID == "" {
		a.ID = ulid.Make().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now().UTC()
	}
	a.SelectedSymptoms = slices.Clone(a.SelectedSymptoms)
	a.Recommendations = slices.Clone(a.Recommendations)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assessments[a.ID] = a
	if sess, ok := s.sessions[a.SessionID]; ok && a.SessionID != "" {
		sess.Assessments = append(sess.Assessments, a)
		s.touchLocked(a.SessionID)
	}
	return a
}

func (s *Store) GetAssessment(id string) (*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assessments[id]
	if !ok {
		return nil, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return &a, nil
}

// GetHistory aggregates a session's assessments. Trends are grouped by
// condition in order of first appearance, each group oldest first.
func (s *Store) GetHistory(sessionID string) (*History, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	h := &History{
		SessionID:        sessionID,
		Assessments:      sess.Assessments,
		TotalAssessments: len(sess.Assessments),
		RiskTrends:       []RiskTrend{},
	}

	groups := lo.GroupBy(sess.Assessments, func(a Assessment) catalog.ConditionKey { return a.Condition })
	order := lo.Uniq(lo.Map(sess.Assessments, func(a Assessment, _ int) catalog.ConditionKey { return a.Condition }))
	for _, cond := range order {
		points := lo.Map(groups[cond], func(a Assessment, _ int) TrendPoint {
			return TrendPoint{Timestamp: a.Timestamp, Risk: a.Risk, Score: a.Score}
		})
		slices.SortStableFunc(points, func(a, b TrendPoint) int { return a.Timestamp.Compare(b.Timestamp) })
		h.RiskTrends = append(h.RiskTrends, RiskTrend{Condition: cond, Assessments: points})
	}

	for _, a := range sess.Assessments {
		if h.LastAssessment == nil || a.Timestamp.After(*h.LastAssessment) {
			ts := a.Timestamp
			h.LastAssessment = &ts
		}
	}
	return h, nil
}

// GlobalStats counts what the store currently holds. Every risk level is
// reported; a condition appears once it has been assessed.
func (s *Store) GlobalStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalSessions:          len(s.sessions),
		TotalAssessments:       len(s.assessments),
		AssessmentsByCondition: map[catalog.ConditionKey]int{},
		RiskDistribution:       map[scoring.RiskLevel]int{},
	}
	for _, level := range scoring.Levels {
		st.RiskDistribution[level] = 0
	}
	for _, a := range s.assessments {
		st.AssessmentsByCondition[a.Condition]++
		st.RiskDistribution[a.Risk]++
	}
	if st.TotalSessions > 0 {
		st.AverageAssessmentsPerSession = float64(st.TotalAssessments) / float64(st.TotalSessions)
	}
	return st
}

// RecentActivity counts sessions active in the last day and assessments
// made in the last week.
func (s *Store) RecentActivity() RecentActivity {
	now := s.now()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var ra RecentActivity
	for _, sess := range s.sessions {
		if sess.LastActivity.After(dayAgo) {
			ra.SessionsLast24h++
		}
	}
	for _, a := range s.assessments {
		if a.Timestamp.After(weekAgo) {
			ra.AssessmentsLast7d++
		}
	}
	return ra
}

// SweepExpired evicts sessions idle for longer than the TTL together with
// the assessments they own, and reports how many sessions went.
func (s *Store) SweepExpired() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if !sess.LastActivity.Before(cutoff) {
			continue
		}
		for _, a := range sess.Assessments {
			delete(s.assessments, a.ID)
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}
