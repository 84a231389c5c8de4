package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"cancerrisk/config"
	"cancerrisk/db"
	"cancerrisk/ml"
	"go.uber.org/zap"
)

// Predictor runs one inference against loaded artifacts.
type Predictor interface {
	Predict(input ml.PatientInput) (*ml.Prediction, error)
	Artifacts() *ml.Artifacts
}

// AuditStore records served predictions.
type AuditStore interface {
	SavePrediction(ctx context.Context, record db.PredictionRecord) error
	RecentPredictions(ctx context.Context, limit int) ([]db.PredictionRecord, error)
}

// Handlers carries everything the routes need. It is built once at startup
// and never mutated.
type Handlers struct {
	predictor Predictor
	features  config.Features
	templates *Templates
	audit     AuditStore
	logger    *zap.Logger
}

// NewHandlers wires the routes. audit may be nil to disable the audit log.
func NewHandlers(predictor Predictor, features config.Features, templates *Templates, audit AuditStore, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		predictor: predictor,
		features:  features,
		templates: templates,
		audit:     audit,
		logger:    logger,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /predict", h.handlePredictForm)

	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/model", h.handleModel)
	mux.HandleFunc("POST /api/predict", h.handlePredictJSON)
	mux.HandleFunc("GET /api/predictions", h.handlePredictions)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleModel(w http.ResponseWriter, r *http.Request) {
	artifacts := h.predictor.Artifacts()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"model_type":           artifacts.ModelType,
		"feature_names":        ml.FeatureNames(),
		"numerical_features":   h.features.Numerical,
		"categorical_features": h.features.Categorical,
		"engineered_features":  h.features.Engineered,
		"bmi_classes":          artifacts.BMIEncoder.Classes,
		"age_group_classes":    artifacts.AgeEncoder.Classes,
		"unknown_buckets":      artifacts.UnknownBuckets(),
	})
}

func (h *Handlers) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		h.respondError(w, http.StatusNotFound, "audit log disabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if l > 500 {
			l = 500
		}
		limit = l
	}

	records, err := h.audit.RecentPredictions(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read audit log", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to read predictions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(records),
		"predictions": records,
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to encode JSON", zap.Error(err))
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
