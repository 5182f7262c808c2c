package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRiskFactors(t *testing.T) {
	tests := []struct {
		name       string
		symptoms   []string
		categories []string
	}{
		{"none", []string{"Dizziness"}, []string{}},
		{"cardiovascular from chest pain", []string{"chest_pain"}, []string{"Cardiovascular"}},
		{"cardiovascular from catalog label", []string{"Shortness of breath"}, []string{"Cardiovascular"}},
		{"systemic needs both", []string{"Fatigue"}, []string{}},
		{"systemic", []string{"Fatigue", "Weight loss"}, []string{"Systemic"}},
		{"both", []string{"Chest pain", "fatigue", "weight_loss"}, []string{"Cardiovascular", "Systemic"}},
	}

	analyst := NewAnalyst()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analyst.Analyze(context.Background(), tt.symptoms, nil)
			require.NoError(t, err)

			cats := []string{}
			for _, rf := range got.Insights.RiskFactors {
				cats = append(cats, rf.Category)
			}
			assert.Equal(t, tt.categories, cats)
		})
	}
}

func TestAnalyzeClusters(t *testing.T) {
	analyst := NewAnalyst()

	got, err := analyst.Analyze(context.Background(), []string{"Chest pain"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Insights.SymptomClusters)

	got, err = analyst.Analyze(context.Background(), []string{"cough", "Chest pain", "Nausea"}, nil)
	require.NoError(t, err)
	require.Len(t, got.Insights.SymptomClusters, 1)
	assert.Equal(t, "Respiratory", got.Insights.SymptomClusters[0].Type)
	assert.Equal(t, []string{"cough", "Chest pain"}, got.Insights.SymptomClusters[0].Symptoms)
}

func TestAnalyzeFixedParts(t *testing.T) {
	got, err := NewAnalyst().Analyze(context.Background(), nil, PatientData{"age": 50})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.ID, "ai_"))
	assert.Len(t, got.Recommendations, 5)
	assert.Equal(t, "Gradual over 3-6 months", got.Insights.TimelineAnalysis.Onset)
	assert.NotEmpty(t, got.Insights.PredictiveIndicators.EarlyWarningSigns)
	assert.InDelta(t, 0.75, got.Confidence, 1e-9)
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyst().Analyze(ctx, []string{"cough"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0.75},
		{1, 0.80},
		{3, 0.90},
		{4, 0.95},
		{10, 0.95},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Confidence(tt.n), 1e-9, "n=%d", tt.n)
	}
}
