package assessment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"

	"symptom-checker/internal/agent"
	"symptom-checker/internal/catalog"
	"symptom-checker/internal/scoring"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnavailable    = errors.New("not configured")
)

// Analyst produces scripted health insights for a symptom list.
type Analyst interface {
	Analyze(ctx context.Context, symptoms []string, patient agent.PatientData) (*agent.Analysis, error)
}

// ReportService renders assessment reports and forwards high-risk ones to a
// clinician.
type ReportService interface {
	Render(a Assessment) ([]byte, error)
	SendClinicianReport(ctx context.Context, a Assessment) error
}

type Service interface {
	CreateAssessment(ctx context.Context, req Request) (*Assessment, error)
	GetAssessment(ctx context.Context, id string) (*Assessment, error)
	RenderReport(ctx context.Context, id string) ([]byte, error)
	CreateSession(ctx context.Context, userAgent, ipAddress string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	TouchSession(ctx context.Context, id string) (*Session, error)
	GetHistory(ctx context.Context, sessionID string) (*History, error)
	GetInsights(ctx context.Context, sessionID string) (Insights, error)
	Stats(ctx context.Context) Stats
	Analytics(ctx context.Context) Analytics
	HealthInsights(ctx context.Context, symptoms []string, patient agent.PatientData) (*agent.Analysis, error)
}

type Analytics struct {
	Stats
	RecentActivity RecentActivity `json:"recentActivity"`
	SystemHealth   SystemHealth   `json:"systemHealth"`
}

type SystemHealth struct {
	Uptime      float64     `json:"uptime"`
	MemoryUsage MemoryUsage `json:"memoryUsage"`
	Timestamp   time.Time   `json:"timestamp"`
}

type MemoryUsage struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

type service struct {
	store     *Store
	catalog   *catalog.Catalog
	engine    *scoring.Engine
	archive   Archive
	reportSvc ReportService
	analyst   Analyst
	startedAt time.Time
}

// NewService wires the assessment flow. reportSvc may be nil, in which case
// no clinician reports are sent and report rendering is unavailable.
func NewService(store *Store, cat *catalog.Catalog, archive Archive, reportSvc ReportService, analyst Analyst) Service {
	if archive == nil {
		archive = nopArchive{}
	}
	return &service{
		store:     store,
		catalog:   cat,
		engine:    scoring.NewEngine(cat),
		archive:   archive,
		reportSvc: reportSvc,
		analyst:   analyst,
		startedAt: time.Now(),
	}
}

func (s *service) CreateAssessment(ctx context.Context, req Request) (*Assessment, error) {
	if req.Condition == "" || req.Symptoms == nil {
		return nil, fmt.Errorf("%w: condition and symptoms array required", ErrInvalidRequest)
	}

	result, err := s.engine.Score(req.Condition, req.Symptoms, req.RiskFactors)
	if err != nil {
		return nil, err
	}
	cond, _ := s.catalog.Get(req.Condition)

	a := s.store.SaveAssessment(Assessment{
		ID:               ulid.Make().String(),
		Condition:        req.Condition,
		ConditionName:    cond.Name,
		Score:            result.Score,
		Risk:             result.Risk,
		Matches:          result.Matches,
		TotalSymptoms:    result.TotalSymptoms,
		SelectedSymptoms: req.Symptoms,
		RiskFactorScore:  result.RiskFactorScore,
		Recommendations:  s.engine.Recommendations(result.Risk, req.Condition),
		SessionID:        req.SessionID,
		UserInfo:         req.UserInfo,
	})

	if err := s.archive.Save(ctx, a); err != nil {
		log.Printf("archive: %v", err)
	}

	if a.Risk == scoring.RiskHigh && s.reportSvc != nil {
		go func(a Assessment) {
			// The request context ends with the response.
			if err := s.reportSvc.SendClinicianReport(context.Background(), a); err != nil {
				log.Printf("Failed to send clinician report for %s: %v", a.ID, err)
			}
		}(a)
	}

	return &a, nil
}

func (s *service) GetAssessment(ctx context.Context, id string) (*Assessment, error) {
	return s.store.GetAssessment(id)
}

// RenderReport falls back to the archive for assessments already evicted
// from memory.
func (s *service) RenderReport(ctx context.Context, id string) ([]byte, error) {
	if s.reportSvc == nil {
		return nil, fmt.Errorf("reports: %w", ErrUnavailable)
	}
	a, err := s.store.GetAssessment(id)
	if errors.Is(err, ErrNotFound) {
		a, err = s.archive.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return s.reportSvc.Render(*a)
}

func (s *service) CreateSession(ctx context.Context, userAgent, ipAddress string) (*Session, error) {
	return s.store.CreateSession(userAgent, ipAddress), nil
}

// GetSession returns the session as it was before this read, then records
// the read as activity.
func (s *service) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	s.store.TouchActivity(id)
	return sess, nil
}

func (s *service) TouchSession(ctx context.Context, id string) (*Session, error) {
	if _, err := s.store.GetSession(id); err != nil {
		return nil, err
	}
	s.store.TouchActivity(id)
	return s.store.GetSession(id)
}

func (s *service) GetHistory(ctx context.Context, sessionID string) (*History, error) {
	return s.store.GetHistory(sessionID)
}

func (s *service) GetInsights(ctx context.Context, sessionID string) (Insights, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return Insights{}, err
	}
	return Summarize(sess.Assessments), nil
}

// Stats reports every catalog condition, including those never assessed.
func (s *service) Stats(ctx context.Context) Stats {
	st := s.store.GlobalStats()
	for _, id := range s.catalog.Keys() {
		if _, ok := st.AssessmentsByCondition[id]; !ok {
			st.AssessmentsByCondition[id] = 0
		}
	}
	return st
}

func (s *service) Analytics(ctx context.Context) Analytics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Analytics{
		Stats:          s.Stats(ctx),
		RecentActivity: s.store.RecentActivity(),
		SystemHealth: SystemHealth{
			Uptime: time.Since(s.startedAt).Seconds(),
			MemoryUsage: MemoryUsage{
				Alloc:      mem.Alloc,
				TotalAlloc: mem.TotalAlloc,
				Sys:        mem.Sys,
				NumGC:      mem.NumGC,
			},
			Timestamp: time.Now().UTC(),
		},
	}
}

func (s *service) HealthInsights(ctx context.Context, symptoms []string, patient agent.PatientData) (*agent.Analysis, error) {
	if s.analyst == nil {
		return nil, fmt.Errorf("insights: %w", ErrUnavailable)
	}
	return s.analyst.Analyze(ctx, symptoms, patient)
}
