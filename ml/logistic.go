package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// LogisticRegression is a fitted binary logistic model. Label 1 is predicted
// when sigmoid(coef·x + intercept) >= Threshold.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Threshold float64   `json:"threshold,omitempty"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if len(lr.Coef) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != len(lr.Coef) {
		return 0, 0, fmt.Errorf("model expects %d features, got %d", len(lr.Coef), len(features))
	}
	z := lr.Intercept
	for i, w := range lr.Coef {
		z += w * features[i]
	}
	prob := sigmoid(z)
	if prob >= lr.threshold() {
		return 1, prob, nil
	}
	return 0, 1 - prob, nil
}

func (lr *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var model LogisticRegression
	if err := json.Unmarshal(payload, &model); err != nil {
		return fmt.Errorf("decode logistic regression: %w", err)
	}
	if len(model.Coef) != FeatureCount {
		return fmt.Errorf("logistic regression expects %d features, vector has %d", len(model.Coef), FeatureCount)
	}
	*lr = model
	return nil
}

func (lr *LogisticRegression) threshold() float64 {
	if lr.Threshold <= 0 || lr.Threshold >= 1 {
		return 0.5
	}
	return lr.Threshold
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
