package ml

import (
	"errors"
	"fmt"
)

const (
	ModelTypeDecisionTree       = "decision_tree"
	ModelTypeLogisticRegression = "logistic_regression"
)

var ErrUnknownModelType = errors.New("unsupported model type")

// Classifier is a trained binary classifier over a FeatureVector. Predict
// returns the class label and the model's confidence in it.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
	Load(path string) error
}

// LoadModel reads a classifier artifact of the given type from path.
func LoadModel(modelType, path string) (Classifier, error) {
	var model Classifier
	switch modelType {
	case ModelTypeDecisionTree:
		model = &DecisionTree{}
	case ModelTypeLogisticRegression:
		model = &LogisticRegression{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModelType, modelType)
	}
	if err := model.Load(path); err != nil {
		return nil, err
	}
	return model, nil
}

func KnownModelType(modelType string) bool {
	switch modelType {
	case ModelTypeDecisionTree, ModelTypeLogisticRegression:
		return true
	}
	return false
}
