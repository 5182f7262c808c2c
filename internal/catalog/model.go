package catalog

// ConditionKey identifies a condition in the catalog.
type ConditionKey string

const (
	Mesothelioma         ConditionKey = "mesothelioma"
	ChronicKidneyDisease ConditionKey = "chronickidneydisease"
	CoronaryHeartDisease ConditionKey = "coronaryheartdisease"
	DiabetesMellitus     ConditionKey = "diabetesmelitus"
	LiverCirrhosis       ConditionKey = "livercirrhosis"
)

// Condition is a static reference entry. Symptoms and RiskFactors keep the
// order they were declared in.
type Condition struct {
	ID          ConditionKey `json:"-"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Symptoms    []string     `json:"symptoms"`
	RiskFactors []string     `json:"riskFactors"`
}

type SymptomMatch struct {
	Condition ConditionKey `json:"condition"`
	Symptom   string       `json:"symptom"`
}
