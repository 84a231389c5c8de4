package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"cancerrisk/config"
	"cancerrisk/db"
	"cancerrisk/ml"
	"go.uber.org/zap"
)

type fakeModel struct {
	label      int
	confidence float64
	err        error
}

func (f *fakeModel) Predict(features []float64) (int, float64, error) {
	return f.label, f.confidence, f.err
}

func (f *fakeModel) Load(path string) error { return nil }

type fakeAudit struct {
	mu      sync.Mutex
	records []db.PredictionRecord
	saveErr error
}

func (f *fakeAudit) SavePrediction(ctx context.Context, record db.PredictionRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAudit) RecentPredictions(ctx context.Context, limit int) ([]db.PredictionRecord, error) {
	if f.saveErr != nil {
		return nil, errors.New("read failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db.PredictionRecord, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func newTestArtifacts(t *testing.T, model ml.Classifier) *ml.Artifacts {
	t.Helper()
	scaler, err := ml.NewStandardScaler([]float64{50, 27, 5, 2}, []float64{10, 5, 2, 1})
	if err != nil {
		t.Fatal(err)
	}
	bmiEncoder, err := ml.NewLabelEncoder([]string{"Normal", "Obese", "Overweight", "Underweight"})
	if err != nil {
		t.Fatal(err)
	}
	ageEncoder, err := ml.NewLabelEncoder([]string{"40-60", "60-80", "80+", "<40"})
	if err != nil {
		t.Fatal(err)
	}
	return &ml.Artifacts{
		ModelType:  "fake",
		Model:      model,
		Scaler:     scaler,
		BMIEncoder: bmiEncoder,
		AgeEncoder: ageEncoder,
	}
}

func defaultFeatures() config.Features {
	return config.Features{
		Numerical:   ml.NumericalFeatures(),
		Categorical: ml.CategoricalFeatures(),
		Engineered:  ml.EngineeredFeatureNames(),
	}
}

// newTestRouter returns the full middleware-wrapped router. audit may be nil.
func newTestRouter(t *testing.T, artifacts *ml.Artifacts, audit AuditStore) http.Handler {
	t.Helper()
	predictor, err := ml.NewPredictor(artifacts)
	if err != nil {
		t.Fatal(err)
	}
	templates, err := NewTemplates("", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	handlers := NewHandlers(predictor, defaultFeatures(), templates, audit, zap.NewNop())
	return NewRouter(DefaultServerConfig(), handlers, zap.NewNop())
}

func sampleFormValues() map[string]string {
	return map[string]string{
		"Age":              "45",
		"Gender":           "1",
		"BMI":              "27",
		"Smoking":          "0",
		"GeneticRisk":      "1",
		"PhysicalActivity": "3.5",
		"AlcoholIntake":    "1.2",
		"CancerHistory":    "0",
	}
}
