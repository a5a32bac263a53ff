package heartcheck

import "github.com/hejijunhao/heartcheck/internal/model"

// Prediction is the verdict for one patient.
// This is the stable public type; internal representations may evolve
// independently.
type Prediction struct {
	Row         int      `json:"row"`                    // Input row (0 for single predictions)
	Label       int      `json:"label"`                  // 0 healthy, 1..4 increasing severity
	Severity    string   `json:"severity"`               // Display name, e.g. "Heart Disease Level 2"
	Description string   `json:"description,omitempty"`  // Canned explanation
	OutOfRange  []string `json:"out_of_range,omitempty"` // Features outside the reference range
}

// Patient is the human-readable form of one patient. Categorical fields
// take the display strings listed by Options.
type Patient struct {
	Age                  float64 // years
	Sex                  string  // "Male", "Female"
	ChestPain            string  // "Typical Angina" .. "Asymptomatic"
	RestingBloodPressure float64 // mm Hg
	Cholesterol          float64 // mg/dl
	FastingBloodSugar    string  // "True" when > 120 mg/dl
	RestingECG           string
	MaxHeartRate         float64
	ExerciseAngina       string // "Yes", "No"
	STDepression         float64
}

// FitScore is the classifier's accuracy on its own balanced training data.
// It is not a held-out estimate.
type FitScore struct {
	Percent float64
	Rows    int
	Note    string
}

// Level is one row of the severity table.
type Level struct {
	Label       int
	Name        string
	Description string
}

// Features returns the ten feature column names in canonical order.
func Features() []string { return model.FeatureNames() }

// Options returns the accepted strings for each categorical Patient field,
// keyed by field.
func Options() map[string][]string {
	return map[string][]string{
		"sex":                 model.Options(model.SexCodes),
		"chest_pain":          model.Options(model.ChestPainCodes),
		"fasting_blood_sugar": model.Options(model.FastingBloodSugarCodes),
		"resting_ecg":         model.Options(model.RestingECGCodes),
		"exercise_angina":     model.Options(model.ExerciseAnginaCodes),
	}
}

func (p Patient) form() model.Form {
	return model.Form{
		Age:                  p.Age,
		Sex:                  p.Sex,
		ChestPain:            p.ChestPain,
		RestingBloodPressure: p.RestingBloodPressure,
		Cholesterol:          p.Cholesterol,
		FastingBloodSugar:    p.FastingBloodSugar,
		RestingECG:           p.RestingECG,
		MaxHeartRate:         p.MaxHeartRate,
		ExerciseAngina:       p.ExerciseAngina,
		STDepression:         p.STDepression,
	}
}

func predictionFromModel(p model.Prediction) Prediction {
	return Prediction{
		Row:         p.Row,
		Label:       p.Label,
		Severity:    p.Severity,
		Description: p.Description,
		OutOfRange:  p.OutOfRange,
	}
}
