package model

// Prediction is the classifier's verdict for one input vector.
type Prediction struct {
	Row         int      `json:"row"`                    // input row index (0 for single predictions)
	Label       int      `json:"label"`                  // 0..4
	Severity    string   `json:"severity"`               // e.g. "Heart Disease Level 2"
	Description string   `json:"description,omitempty"`  // canned explanation
	OutOfRange  []string `json:"out_of_range,omitempty"` // features outside reference bounds
}

// FitScore is the classifier's accuracy on the balanced, scaled reference
// data it was effectively trained on. It is not a held-out estimate.
type FitScore struct {
	Percent float64 `json:"percent"`
	Rows    int     `json:"rows"`
	Note    string  `json:"note"`
}

// FitScoreNote labels every FitScore shown to users.
const FitScoreNote = "training-set fit score (not a held-out metric)"
