package models

// Prediction is one (label, confidence) pair from the inference service.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationResult is the normalized output of one inference call.
// It is advisory only and never persisted.
type ClassificationResult struct {
	Labels      []Prediction  `json:"raw_labels"`
	TopLabel    string        `json:"topLabel"`
	TopScore    float64       `json:"topScore"`
	Category    IssueCategory `json:"category"`
	Description string        `json:"description"`
}
