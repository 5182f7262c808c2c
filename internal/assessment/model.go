package assessment

import (
	"fmt"
	"slices"
	"time"

	"symptom-checker/internal/catalog"
	"symptom-checker/internal/scoring"
)

type UserInfo struct {
	Age                *int     `json:"age,omitempty"`
	Gender             string   `json:"gender,omitempty"` // "male", "female" or "other"
	MedicalHistory     []string `json:"medicalHistory,omitempty"`
	CurrentMedications []string `json:"currentMedications,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
}

// Assessment is the immutable outcome of scoring one symptom selection.
type Assessment struct {
	ID               string               `json:"id"`
	Condition        catalog.ConditionKey `json:"condition"`
	ConditionName    string               `json:"conditionName"`
	Score            int                  `json:"score"`
	Risk             scoring.RiskLevel    `json:"risk"`
	Matches          int                  `json:"matches"`
	TotalSymptoms    int                  `json:"totalSymptoms"`
	SelectedSymptoms []string             `json:"selectedSymptoms"`
	RiskFactorScore  int                  `json:"riskFactorScore"`
	Recommendations  []string             `json:"recommendations"`
	Timestamp        time.Time            `json:"timestamp"`
	SessionID        string               `json:"sessionId,omitempty"`
	UserInfo         *UserInfo            `json:"userInfo,omitempty"`
}

// Summary is a one-line description of the assessment.
func (a Assessment) Summary() string {
	return fmt.Sprintf("%s assessment completed with %d%% symptom match (%s risk). %d out of %d symptoms matched.",
		a.ConditionName, a.Score, a.Risk, a.Matches, a.TotalSymptoms)
}

// Session groups the assessments one client made. Assessments only grows.
type Session struct {
	ID           string       `json:"id"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastActivity time.Time    `json:"lastActivity"`
	Assessments  []Assessment `json:"assessments"`
	UserAgent    string       `json:"userAgent,omitempty"`
	IPAddress    string       `json:"ipAddress,omitempty"`
}

func (s *Session) snapshot() *Session {
	cp := *s
	cp.Assessments = slices.Clone(s.Assessments)
	return &cp
}

type TrendPoint struct {
	Timestamp time.Time         `json:"timestamp"`
	Risk      scoring.RiskLevel `json:"risk"`
	Score     int               `json:"score"`
}

type RiskTrend struct {
	Condition   catalog.ConditionKey `json:"condition"`
	Assessments []TrendPoint         `json:"assessments"`
}

type History struct {
	SessionID        string       `json:"sessionId"`
	Assessments      []Assessment `json:"assessments"`
	TotalAssessments int          `json:"totalAssessments"`
	LastAssessment   *time.Time   `json:"lastAssessment"`
	RiskTrends       []RiskTrend  `json:"riskTrends"`
}

type Stats struct {
	TotalSessions                int                          `json:"totalSessions"`
	TotalAssessments             int                          `json:"totalAssessments"`
	AssessmentsByCondition       map[catalog.ConditionKey]int `json:"assessmentsByCondition"`
	RiskDistribution             map[scoring.RiskLevel]int    `json:"riskDistribution"`
	AverageAssessmentsPerSession float64                      `json:"averageAssessmentsPerSession"`
}

type RecentActivity struct {
	SessionsLast24h   int `json:"sessionsLast24h"`
	AssessmentsLast7d int `json:"assessmentsLast7d"`
}

// Request is the input for creating an assessment.
type Request struct {
	Condition   catalog.ConditionKey `json:"condition"`
	Symptoms    []string             `json:"symptoms"`
	RiskFactors []string             `json:"riskFactors,omitempty"`
	UserInfo    *UserInfo            `json:"userInfo,omitempty"`
	SessionID   string               `json:"sessionId,omitempty"`
}
