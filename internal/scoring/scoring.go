// Package scoring turns a symptom selection into a score, a risk level and
// a list of recommendations. Everything here is pure.
package scoring

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"symptom-checker/internal/catalog"
)

var ErrUnknownCondition = errors.New("unknown condition")

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Levels lists risk levels from lowest to highest.
var Levels = []RiskLevel{RiskLow, RiskModerate, RiskHigh}

func (r RiskLevel) Valid() bool {
	return lo.Contains(Levels, r)
}

// Thresholds on the 0-100 symptom score and risk-factor score.
const (
	HighScoreThreshold     = 60
	ModerateScoreThreshold = 30

	RiskFactorModerateThreshold = 50
	RiskFactorHighThreshold     = 75
)

type Result struct {
	Score           int       `json:"score"`
	Risk            RiskLevel `json:"risk"`
	Matches         int       `json:"matches"`
	TotalSymptoms   int       `json:"totalSymptoms"`
	RiskFactorScore int       `json:"riskFactorScore"`
}

// Engine scores selections against a catalog.
type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Score matches symptoms and riskFactors against the condition's reference
// lists. Labels compare exactly and each distinct label counts once.
func (e *Engine) Score(id catalog.ConditionKey, symptoms, riskFactors []string) (Result, error) {
	cond, ok := e.catalog.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCondition, id)
	}

	matches := countMatches(symptoms, cond.Symptoms)
	score := percent(matches, len(cond.Symptoms))

	riskFactorScore := 0
	if len(riskFactors) > 0 {
		riskFactorScore = percent(countMatches(riskFactors, cond.RiskFactors), len(cond.RiskFactors))
	}

	return Result{
		Score:           score,
		Risk:            Classify(score, riskFactorScore),
		Matches:         matches,
		TotalSymptoms:   len(cond.Symptoms),
		RiskFactorScore: riskFactorScore,
	}, nil
}

// Classify derives the risk level from the symptom score, then escalates it
// by the risk-factor score. The two escalation steps run in sequence, so a
// high enough risk-factor score lifts low straight to high.
func Classify(score, riskFactorScore int) RiskLevel {
	risk := RiskLow
	switch {
	case score >= HighScoreThreshold:
		risk = RiskHigh
	case score >= ModerateScoreThreshold:
		risk = RiskModerate
	}

	if riskFactorScore >= RiskFactorModerateThreshold && risk == RiskLow {
		risk = RiskModerate
	}
	if riskFactorScore >= RiskFactorHighThreshold && risk == RiskModerate {
		risk = RiskHigh
	}
	return risk
}

func countMatches(selected, reference []string) int {
	return len(lo.Intersect(lo.Uniq(reference), lo.Uniq(selected)))
}

// percent is round-half-up of 100*n/total.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return (200*n + total) / (2 * total)
}
