package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cancerrisk/db"
	"cancerrisk/ml"
)

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t, newTestArtifacts(t, &fakeModel{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	expected := `{"status":"ok"}`
	if rr.Body.String() != expected+"\n" && rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestModelHandler(t *testing.T) {
	router := newTestRouter(t, newTestArtifacts(t, &fakeModel{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		ModelType      string   `json:"model_type"`
		FeatureNames   []string `json:"feature_names"`
		BMIClasses     []string `json:"bmi_classes"`
		UnknownBuckets []string `json:"unknown_buckets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.ModelType != "fake" || len(payload.FeatureNames) != ml.FeatureCount {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.BMIClasses) != 4 || len(payload.UnknownBuckets) != 0 {
		t.Fatalf("unexpected encoder info %+v", payload)
	}
}

func TestPredictionsHandler(t *testing.T) {
	audit := &fakeAudit{}
	for i := 0; i < 3; i++ {
		audit.records = append(audit.records, db.PredictionRecord{RequestID: string(rune('a' + i)), Result: ml.ResultNoCancer})
	}
	router := newTestRouter(t, newTestArtifacts(t, &fakeModel{}), audit)

	req := httptest.NewRequest(http.MethodGet, "/api/predictions?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Count       int                   `json:"count"`
		Predictions []db.PredictionRecord `json:"predictions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Count != 2 || payload.Predictions[0].RequestID != "c" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/predictions?limit=zero", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPredictionsHandlerDisabled(t *testing.T) {
	router := newTestRouter(t, newTestArtifacts(t, &fakeModel{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/predictions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
