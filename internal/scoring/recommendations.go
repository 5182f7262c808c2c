package scoring

import "symptom-checker/internal/catalog"

// Disclaimers close every recommendation list.
var Disclaimers = []string{
	"This assessment is for informational purposes only and should not replace professional medical advice.",
	"Consult with a healthcare provider for proper diagnosis and treatment.",
}

var tierRecommendations = map[RiskLevel][]string{
	RiskHigh: {
		"⚠️ HIGH RISK: Seek immediate medical attention from a healthcare professional.",
		"Schedule an appointment with your doctor as soon as possible.",
		"Keep a detailed log of your symptoms and their severity.",
	},
	RiskModerate: {
		"⚠️ MODERATE RISK: Consider scheduling a medical consultation.",
		"Monitor your symptoms and note any changes or worsening.",
		"Maintain a healthy lifestyle and follow preventive measures.",
	},
	RiskLow: {
		"✅ LOW RISK: Continue monitoring your health and symptoms.",
		"Maintain regular health check-ups and preventive care.",
		"Consider lifestyle modifications for better health outcomes.",
	},
}

var conditionRecommendations = map[catalog.ConditionKey]map[RiskLevel][]string{
	catalog.Mesothelioma: {
		RiskHigh:     {"Consider chest imaging (X-ray or CT scan)", "Discuss asbestos exposure history with your doctor"},
		RiskModerate: {"Monitor respiratory symptoms closely", "Avoid further asbestos exposure"},
		RiskLow:      {"Maintain lung health with regular exercise", "Avoid smoking and secondhand smoke"},
	},
	catalog.ChronicKidneyDisease: {
		RiskHigh:     {"Request kidney function tests (creatinine, BUN)", "Monitor blood pressure regularly"},
		RiskModerate: {"Stay hydrated and limit sodium intake", "Monitor urination patterns"},
		RiskLow:      {"Maintain healthy blood pressure", "Stay hydrated and eat a balanced diet"},
	},
	catalog.CoronaryHeartDisease: {
		RiskHigh:     {"Consider cardiac evaluation (ECG, stress test)", "Monitor chest pain episodes"},
		RiskModerate: {"Adopt heart-healthy diet and exercise", "Monitor blood pressure and cholesterol"},
		RiskLow:      {"Maintain regular cardiovascular exercise", "Follow a heart-healthy diet"},
	},
	catalog.DiabetesMellitus: {
		RiskHigh:     {"Request blood glucose and HbA1c testing", "Monitor symptoms of high blood sugar"},
		RiskModerate: {"Monitor blood sugar levels if possible", "Maintain healthy weight and diet"},
		RiskLow:      {"Follow a balanced diet low in refined sugars", "Maintain regular physical activity"},
	},
	catalog.LiverCirrhosis: {
		RiskHigh:     {"Request liver function tests", "Avoid alcohol completely"},
		RiskModerate: {"Limit alcohol consumption", "Monitor abdominal symptoms"},
		RiskLow:      {"Maintain liver health with balanced diet", "Limit alcohol and avoid hepatotoxic substances"},
	},
}

// Recommendations returns the tier lines for risk, the condition-specific
// lines for (id, risk) when the table has any, then Disclaimers. An unknown
// risk level is treated as low.
func Recommendations(risk RiskLevel, id catalog.ConditionKey) []string {
	if !risk.Valid() {
		risk = RiskLow
	}
	tier := tierRecommendations[risk]

	out := make([]string, 0, len(tier)+2+len(Disclaimers))
	out = append(out, tier...)
	out = append(out, conditionRecommendations[id][risk]...)
	out = append(out, Disclaimers...)
	return out
}

// Recommendations is the engine-bound form of the package function.
func (e *Engine) Recommendations(risk RiskLevel, id catalog.ConditionKey) []string {
	return Recommendations(risk, id)
}
