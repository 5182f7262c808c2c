package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// MinSearchLength is the shortest query Search answers.
const MinSearchLength = 2

// Catalog is an immutable, ordered set of conditions.
type Catalog struct {
	order []ConditionKey
	byID  map[ConditionKey]Condition
}

// New builds a catalog from conditions, keeping their order. Every condition
// needs a unique id and at least one symptom and risk factor.
func New(conditions []Condition) (*Catalog, error) {
	c := &Catalog{
		order: make([]ConditionKey, 0, len(conditions)),
		byID:  make(map[ConditionKey]Condition, len(conditions)),
	}
	for _, cond := range conditions {
		if cond.ID == "" {
			return nil, fmt.Errorf("condition %q has no id", cond.Name)
		}
		if _, dup := c.byID[cond.ID]; dup {
			return nil, fmt.Errorf("duplicate condition id %q", cond.ID)
		}
		if len(cond.Symptoms) == 0 || len(cond.RiskFactors) == 0 {
			return nil, fmt.Errorf("condition %q needs symptoms and risk factors", cond.ID)
		}
		cond.Symptoms = slices.Clone(cond.Symptoms)
		cond.RiskFactors = slices.Clone(cond.RiskFactors)
		c.order = append(c.order, cond.ID)
		c.byID[cond.ID] = cond
	}
	return c, nil
}

// Default returns the built-in reference catalog.
func Default() *Catalog {
	c, err := New(defaultConditions)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id ConditionKey) (Condition, bool) {
	cond, ok := c.byID[id]
	if !ok {
		return Condition{}, false
	}
	return clone(cond), true
}

func (c *Catalog) Has(id ConditionKey) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every condition in catalog order.
func (c *Catalog) All() []Condition {
	return lo.Map(c.order, func(id ConditionKey, _ int) Condition {
		return clone(c.byID[id])
	})
}

// Conditions encodes as a JSON object keyed by condition id. Keys keep the
// slice order, which encoding a Go map would not.
type Conditions []Condition

func (cs Conditions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cond := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cond.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(cond)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", cond.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Catalog) Keys() []ConditionKey {
	return slices.Clone(c.order)
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Search returns every (condition, symptom) pair whose label contains query,
// ignoring case. Queries shorter than MinSearchLength match nothing.
func (c *Catalog) Search(query string) []SymptomMatch {
	if len([]rune(query)) < MinSearchLength {
		return []SymptomMatch{}
	}
	needle := strings.ToLower(query)

	results := []SymptomMatch{}
	for _, id := range c.order {
		for _, symptom := range c.byID[id].Symptoms {
			if strings.Contains(strings.ToLower(symptom), needle) {
				results = append(results, SymptomMatch{Condition: id, Symptom: symptom})
			}
		}
	}
	return results
}

// CommonSymptoms returns labels shared by more than one condition, most
// frequent first. Ties keep the order in which labels first appear.
func (c *Catalog) CommonSymptoms() []string {
	var seen []string
	counts := map[string]int{}
	for _, id := range c.order {
		for _, symptom := range lo.Uniq(c.byID[id].Symptoms) {
			if counts[symptom] == 0 {
				seen = append(seen, symptom)
			}
			counts[symptom]++
		}
	}

	common := lo.Filter(seen, func(s string, _ int) bool { return counts[s] > 1 })
	sort.SliceStable(common, func(i, j int) bool {
		return counts[common[i]] > counts[common[j]]
	})
	return common
}

func clone(cond Condition) Condition {
	cond.Symptoms = slices.Clone(cond.Symptoms)
	cond.RiskFactors = slices.Clone(cond.RiskFactors)
	return cond
}
