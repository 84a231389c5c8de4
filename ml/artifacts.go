package ml

import (
	"fmt"
)

// ArtifactPaths locates the four serialized artifacts.
type ArtifactPaths struct {
	ModelType      string
	ModelPath      string
	ScalerPath     string
	BMIEncoderPath string
	AgeEncoderPath string
}

// Artifacts is the read-only bundle shared by every request.
type Artifacts struct {
	ModelType  string
	Model      Classifier
	Scaler     *StandardScaler
	BMIEncoder *LabelEncoder
	AgeEncoder *LabelEncoder
}

func LoadArtifacts(paths ArtifactPaths) (*Artifacts, error) {
	model, err := LoadModel(paths.ModelType, paths.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", paths.ModelPath, err)
	}
	scaler, err := LoadStandardScaler(paths.ScalerPath)
	if err != nil {
		return nil, fmt.Errorf("load scaler %s: %w", paths.ScalerPath, err)
	}
	bmiEncoder, err := LoadLabelEncoder(paths.BMIEncoderPath)
	if err != nil {
		return nil, fmt.Errorf("load bmi encoder %s: %w", paths.BMIEncoderPath, err)
	}
	ageEncoder, err := LoadLabelEncoder(paths.AgeEncoderPath)
	if err != nil {
		return nil, fmt.Errorf("load age encoder %s: %w", paths.AgeEncoderPath, err)
	}

	artifacts := &Artifacts{
		ModelType:  paths.ModelType,
		Model:      model,
		Scaler:     scaler,
		BMIEncoder: bmiEncoder,
		AgeEncoder: ageEncoder,
	}
	if err := artifacts.Validate(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (a *Artifacts) Validate() error {
	if a.Model == nil || a.Scaler == nil || a.BMIEncoder == nil || a.AgeEncoder == nil {
		return fmt.Errorf("incomplete artifact bundle")
	}
	if a.Scaler.Width() != NumericalFeatureCount {
		return fmt.Errorf("scaler fitted on %d features, expected %d", a.Scaler.Width(), NumericalFeatureCount)
	}
	return nil
}

// UnknownBuckets reports bucket labels the encoders were not fitted on.
// Such labels still encode through the SafeTransform fallback.
func (a *Artifacts) UnknownBuckets() []string {
	var missing []string
	for _, label := range BMICategories() {
		if !a.BMIEncoder.Known(label) {
			missing = append(missing, FeatureBMICategory+"="+label)
		}
	}
	for _, label := range AgeGroups() {
		if !a.AgeEncoder.Known(label) {
			missing = append(missing, FeatureAgeGroup+"="+label)
		}
	}
	return missing
}
