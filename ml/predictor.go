package ml

import (
	"errors"
	"fmt"
)

const (
	ResultHasCancer = "Has Cancer"
	ResultNoCancer  = "Does Not Have Cancer"
)

// Prediction is the outcome of one inference.
type Prediction struct {
	Label      int                `json:"label"`
	Result     string             `json:"result"`
	Confidence float64            `json:"confidence"`
	Engineered EngineeredFeatures `json:"engineered"`
	Raw        []float64          `json:"raw_features"`
	Scaled     []float64          `json:"features"`
}

// Predictor runs the bucket, encode, scale and classify steps against a
// loaded artifact bundle. It holds no mutable state.
type Predictor struct {
	artifacts *Artifacts
}

func NewPredictor(artifacts *Artifacts) (*Predictor, error) {
	if artifacts == nil {
		return nil, errors.New("artifacts are required")
	}
	if err := artifacts.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{artifacts: artifacts}, nil
}

func (p *Predictor) Artifacts() *Artifacts {
	return p.artifacts
}

func (p *Predictor) Predict(input PatientInput) (*Prediction, error) {
	engineered := Engineer(input)
	bmiCode := p.artifacts.BMIEncoder.SafeTransform(engineered.BMICategory)
	ageCode := p.artifacts.AgeEncoder.SafeTransform(engineered.AgeGroup)

	raw := FeatureVector(input, bmiCode, ageCode)
	scaled, err := ScaleNumerical(raw, p.artifacts.Scaler)
	if err != nil {
		return nil, err
	}

	label, confidence, err := p.artifacts.Model.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	return &Prediction{
		Label:      label,
		Result:     ResultLabel(label),
		Confidence: confidence,
		Engineered: engineered,
		Raw:        raw,
		Scaled:     scaled,
	}, nil
}

// ScaleNumerical returns a copy of vector with the scaler applied to the
// first NumericalFeatureCount positions. The rest are copied unchanged.
func ScaleNumerical(vector []float64, scaler *StandardScaler) ([]float64, error) {
	if len(vector) != FeatureCount {
		return nil, fmt.Errorf("feature vector has %d values, expected %d", len(vector), FeatureCount)
	}
	head, err := scaler.Transform(vector[:NumericalFeatureCount])
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vector))
	copy(out, head)
	copy(out[NumericalFeatureCount:], vector[NumericalFeatureCount:])
	return out, nil
}

func ResultLabel(label int) string {
	if label == 1 {
		return ResultHasCancer
	}
	return ResultNoCancer
}
