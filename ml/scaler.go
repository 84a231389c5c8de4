package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// StandardScaler applies a fitted (x - mean) / scale transform.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	s := &StandardScaler{
		Mean:  append([]float64(nil), mean...),
		Scale: append([]float64(nil), scale...),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadStandardScaler(path string) (*StandardScaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s StandardScaler
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return errors.New("scaler has no features")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean/scale length mismatch: %d != %d", len(s.Mean), len(s.Scale))
	}
	return nil
}

// Width is the number of features the scaler was fitted on.
func (s *StandardScaler) Width() int {
	return len(s.Mean)
}

// Transform returns a scaled copy of values. A zero scale is treated as 1.
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
