package catalog

var defaultConditions = []Condition{
	{
		ID:          Mesothelioma,
		Name:        "Mesothelioma",
		Description: "Cancer affecting the lining of lungs, abdomen, or heart",
		Symptoms: []string{
			"Chest pain",
			"Shortness of breath",
			"Persistent cough",
			"Fatigue",
			"Weight loss",
			"Abdominal pain",
			"Abdominal swelling",
			"Difficulty swallowing",
			"Hoarse voice",
			"Night sweats",
		},
		RiskFactors: []string{"Asbestos exposure", "Age over 65", "Male gender", "Radiation exposure"},
	},
	{
		ID:          ChronicKidneyDisease,
		Name:        "Chronic Kidney Disease",
		Description: "Gradual loss of kidney function over time",
		Symptoms: []string{
			"Fatigue",
			"Swelling in legs/feet",
			"Frequent urination",
			"Blood in urine",
			"Foamy urine",
			"High blood pressure",
			"Nausea",
			"Loss of appetite",
			"Muscle cramps",
			"Itchy skin",
		},
		RiskFactors: []string{"Diabetes", "High blood pressure", "Family history", "Age over 60"},
	},
	{
		ID:          CoronaryHeartDisease,
		Name:        "Coronary Heart Disease",
		Description: "Narrowed or blocked coronary arteries",
		Symptoms: []string{
			"Chest pain",
			"Chest pressure",
			"Shortness of breath",
			"Fatigue",
			"Heart palpitations",
			"Dizziness",
			"Nausea",
			"Cold sweats",
			"Pain in arms/shoulders",
			"Jaw pain",
		},
		RiskFactors: []string{"High cholesterol", "High blood pressure", "Smoking", "Diabetes"},
	},
	{
		ID:          DiabetesMellitus,
		Name:        "Diabetes Mellitus",
		Description: "High blood sugar due to insulin problems",
		Symptoms: []string{
			"Frequent urination",
			"Excessive thirst",
			"Increased hunger",
			"Fatigue",
			"Blurred vision",
			"Slow healing wounds",
			"Frequent infections",
			"Weight loss",
			"Tingling in hands/feet",
			"Dry mouth",
		},
		RiskFactors: []string{"Family history", "Obesity", "Age over 45", "Sedentary lifestyle"},
	},
	{
		ID:          LiverCirrhosis,
		Name:        "Liver Cirrhosis",
		Description: "Scarring and damage to the liver",
		Symptoms: []string{
			"Fatigue",
			"Abdominal pain",
			"Abdominal swelling",
			"Jaundice",
			"Nausea",
			"Loss of appetite",
			"Weight loss",
			"Swelling in legs",
			"Easy bruising",
			"Dark urine",
			"Pale stools",
			"Confusion",
		},
		RiskFactors: []string{"Alcohol abuse", "Hepatitis B/C", "Fatty liver disease", "Autoimmune diseases"},
	},
}
