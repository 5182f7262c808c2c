// Package agent holds the health-insights analyst. Its output is scripted:
// a fixed set of rules over the symptom labels, with no model behind it.
package agent

import (
	"context"
	"math"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// PatientData is free-form context sent by the client. It is accepted for
// compatibility and does not change the analysis.
type PatientData map[string]any

type RiskFactor struct {
	Category    string `json:"category"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

type SymptomCluster struct {
	Type         string   `json:"type"`
	Symptoms     []string `json:"symptoms"`
	Significance string   `json:"significance"`
}

type Timeline struct {
	Onset       string `json:"onset"`
	Progression string `json:"progression"`
	Pattern     string `json:"pattern"`
}

type PredictiveIndicators struct {
	EarlyWarningSigns         []string `json:"earlyWarningSigns"`
	MonitoringRecommendations []string `json:"monitoringRecommendations"`
	PreventiveActions         []string `json:"preventiveActions"`
}

type Insights struct {
	RiskFactors          []RiskFactor         `json:"riskFactors"`
	SymptomClusters      []SymptomCluster     `json:"symptomClusters"`
	TimelineAnalysis     Timeline             `json:"timelineAnalysis"`
	PredictiveIndicators PredictiveIndicators `json:"predictiveIndicators"`
}

type Analysis struct {
	ID              string   `json:"analysisId"`
	Insights        Insights `json:"insights"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
}

// ScriptedAnalyst applies fixed rules to symptom labels.
type ScriptedAnalyst struct{}

func NewAnalyst() *ScriptedAnalyst {
	return &ScriptedAnalyst{}
}

var respiratoryLabels = []string{"cough", "shortness_of_breath", "chest_pain"}

func (a *ScriptedAnalyst) Analyze(ctx context.Context, symptoms []string, patient PatientData) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Analysis{
		ID: "ai_" + ulid.Make().String(),
		Insights: Insights{
			RiskFactors:     riskFactors(symptoms),
			SymptomClusters: symptomClusters(symptoms),
			TimelineAnalysis: Timeline{
				Onset:       "Gradual over 3-6 months",
				Progression: "Progressive worsening",
				Pattern:     "Chronic with acute exacerbations",
			},
			PredictiveIndicators: PredictiveIndicators{
				EarlyWarningSigns:         []string{"Progressive fatigue", "Unexplained weight loss"},
				MonitoringRecommendations: []string{"Weekly symptom tracking", "Monthly health assessments"},
				PreventiveActions:         []string{"Lifestyle modifications", "Regular medical follow-up"},
			},
		},
		Confidence: Confidence(len(symptoms)),
		Recommendations: []string{
			"Schedule comprehensive medical evaluation",
			"Consider specialized testing based on symptom clusters",
			"Implement symptom tracking and monitoring",
			"Discuss findings with healthcare provider",
			"Consider lifestyle modifications for risk reduction",
		},
	}, nil
}

// Confidence grows by 0.05 per symptom from 0.75, capped at 0.95.
func Confidence(symptomCount int) float64 {
	bonus := math.Min(float64(symptomCount)*0.05, 0.2)
	return math.Min(0.75+bonus, 0.95)
}

func riskFactors(symptoms []string) []RiskFactor {
	labels := normalize(symptoms)
	out := []RiskFactor{}

	if lo.Contains(labels, "chest_pain") || lo.Contains(labels, "shortness_of_breath") {
		out = append(out, RiskFactor{
			Category:    "Cardiovascular",
			Level:       "Moderate",
			Description: "Symptoms suggest potential cardiovascular involvement",
		})
	}
	if lo.Contains(labels, "fatigue") && lo.Contains(labels, "weight_loss") {
		out = append(out, RiskFactor{
			Category:    "Systemic",
			Level:       "High",
			Description: "Constitutional symptoms may indicate systemic condition",
		})
	}
	return out
}

func symptomClusters(symptoms []string) []SymptomCluster {
	respiratory := lo.Filter(symptoms, func(s string, _ int) bool {
		return lo.Contains(respiratoryLabels, normalizeLabel(s))
	})
	if len(respiratory) < 2 {
		return []SymptomCluster{}
	}
	return []SymptomCluster{{
		Type:         "Respiratory",
		Symptoms:     respiratory,
		Significance: "High correlation with pulmonary conditions",
	}}
}

// normalizeLabel maps "Shortness of breath" and "shortness_of_breath" to the
// same key.
func normalizeLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func normalize(symptoms []string) []string {
	return lo.Map(symptoms, func(s string, _ int) string { return normalizeLabel(s) })
}
