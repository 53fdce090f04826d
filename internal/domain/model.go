package domain

import "time"

// Model statuses.
const (
	ModelStatusReady    = "ready"
	ModelStatusTraining = "training"
	ModelStatusFailed   = "failed"
	ModelStatusDisabled = "disabled"
)

// MLModel is the status record of a deployed model (platform table ml_models).
type MLModel struct {
	Name      string    `json:"name" db:"name"`
	Version   string    `json:"version" db:"version"`
	Status    string    `json:"status" db:"status"`
	Accuracy  float64   `json:"accuracy" db:"accuracy"` // last recorded evaluation accuracy
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ModelEvaluation holds binary classification metrics; label 1 is positive.
type ModelEvaluation struct {
	Model          string  `json:"model"`
	Samples        int     `json:"samples"`
	TruePositives  int     `json:"truePositives"`
	FalsePositives int     `json:"falsePositives"`
	TrueNegatives  int     `json:"trueNegatives"`
	FalseNegatives int     `json:"falseNegatives"`
	Accuracy       float64 `json:"accuracy"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}
