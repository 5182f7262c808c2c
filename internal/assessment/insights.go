package assessment

import (
	"github.com/samber/lo"

	"symptom-checker/internal/catalog"
	"symptom-checker/internal/scoring"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// minTrendAssessments is the fewest assessments a trend is computed from.
const minTrendAssessments = 4

const trendMargin = 0.3

type Insights struct {
	MostCommonCondition *catalog.ConditionKey `json:"mostCommonCondition"`
	AverageRiskLevel    scoring.RiskLevel     `json:"averageRiskLevel"`
	TotalSymptoms       int                   `json:"totalSymptoms"`
	RiskTrend           Trend                 `json:"riskTrend"`
}

var riskWeight = map[scoring.RiskLevel]float64{
	scoring.RiskLow:      1,
	scoring.RiskModerate: 2,
	scoring.RiskHigh:     3,
}

// Summarize derives aggregate insights from assessments, oldest first.
func Summarize(assessments []Assessment) Insights {
	if len(assessments) == 0 {
		return Insights{AverageRiskLevel: scoring.RiskLow, RiskTrend: TrendStable}
	}

	return Insights{
		MostCommonCondition: lo.ToPtr(mostCommonCondition(assessments)),
		AverageRiskLevel:    averageRiskLevel(meanRisk(assessments)),
		TotalSymptoms: len(lo.Uniq(lo.FlatMap(assessments, func(a Assessment, _ int) []string {
			return a.SelectedSymptoms
		}))),
		RiskTrend: riskTrend(assessments),
	}
}

// mostCommonCondition breaks ties in favour of the condition that was first
// assessed latest.
func mostCommonCondition(assessments []Assessment) catalog.ConditionKey {
	counts := lo.CountValuesBy(assessments, func(a Assessment) catalog.ConditionKey { return a.Condition })
	order := lo.Uniq(lo.Map(assessments, func(a Assessment, _ int) catalog.ConditionKey { return a.Condition }))

	best := order[0]
	for _, cond := range order[1:] {
		if counts[best] <= counts[cond] {
			best = cond
		}
	}
	return best
}

func meanRisk(assessments []Assessment) float64 {
	return lo.SumBy(assessments, func(a Assessment) float64 { return riskWeight[a.Risk] }) / float64(len(assessments))
}

func averageRiskLevel(mean float64) scoring.RiskLevel {
	switch {
	case mean >= 2.5:
		return scoring.RiskHigh
	case mean >= 1.5:
		return scoring.RiskModerate
	default:
		return scoring.RiskLow
	}
}

// riskTrend compares the mean risk of the older half with the newer half.
func riskTrend(assessments []Assessment) Trend {
	if len(assessments) < minTrendAssessments {
		return TrendStable
	}
	mid := len(assessments) / 2
	first, second := meanRisk(assessments[:mid]), meanRisk(assessments[mid:])

	switch {
	case second > first+trendMargin:
		return TrendWorsening
	case first > second+trendMargin:
		return TrendImproving
	default:
		return TrendStable
	}
}
