package model

// FeatureCount is the width of every input vector.
const FeatureCount = 10

// LabelColumn is the reference dataset's label column name.
const LabelColumn = "target"

// Feature names in the canonical order the classifier was trained on.
const (
	Age                  = "age"
	Sex                  = "sex"
	ChestPain            = "cp"
	RestingBloodPressure = "trestbps"
	Cholesterol          = "chol"
	FastingBloodSugar    = "fbs"
	RestingECG           = "restecg"
	MaxHeartRate         = "thalach"
	ExerciseAngina       = "exang"
	STDepression         = "oldpeak"
)

var featureNames = [FeatureCount]string{
	Age, Sex, ChestPain, RestingBloodPressure, Cholesterol,
	FastingBloodSugar, RestingECG, MaxHeartRate, ExerciseAngina, STDepression,
}

// FeatureNames returns a copy of the canonical feature order.
func FeatureNames() []string {
	out := make([]string, FeatureCount)
	copy(out, featureNames[:])
	return out
}

// FeatureIndex returns the position of name in the canonical order, or -1.
func FeatureIndex(name string) int {
	for i, n := range featureNames {
		if n == name {
			return i
		}
	}
	return -1
}

var labels = [...]int{0, 1, 2, 3, 4}

// Labels returns a copy of the closed set of classifier outputs.
func Labels() []int {
	out := make([]int, len(labels))
	copy(out, labels[:])
	return out
}

// ValidLabel reports whether l is one of Labels.
func ValidLabel(l int) bool {
	return l >= labels[0] && l <= labels[len(labels)-1]
}
