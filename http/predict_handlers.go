package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cancerrisk/db"
	"cancerrisk/ml"
	"go.uber.org/zap"
)

const indexTemplate = "index.html"

// pageData feeds index.html. Values refill the form after a submission.
type pageData struct {
	PredictionText string
	Error          string
	FieldErrors    map[string]string
	Values         map[string]string
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{})
}

func (h *Handlers) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, pageData{Error: "Could not read the submitted form."})
		return
	}

	values := make(map[string]string)
	for _, name := range h.features.Ordered() {
		values[name] = r.PostForm.Get(name)
	}

	input, err := ml.ParsePatientInput(r.PostForm, h.features.Numerical, h.features.Categorical)
	if err != nil {
		var inputErr *ml.InputError
		if errors.As(err, &inputErr) {
			h.render(w, http.StatusBadRequest, pageData{
				Error:       "Please correct the highlighted fields.",
				FieldErrors: inputErr.Fields,
				Values:      values,
			})
			return
		}
		h.render(w, http.StatusBadRequest, pageData{Error: err.Error(), Values: values})
		return
	}

	prediction, err := h.predict(r, input)
	if err != nil {
		h.render(w, http.StatusInternalServerError, pageData{Error: "Prediction failed.", Values: values})
		return
	}

	h.render(w, http.StatusOK, pageData{
		PredictionText: "Prediction: " + prediction.Result,
		Values:         values,
	})
}

// jsonFields adapts a decoded JSON object to ml.FieldSource.
type jsonFields map[string]interface{}

func (f jsonFields) Get(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

type predictResponse struct {
	Label       int       `json:"label"`
	Result      string    `json:"result"`
	Confidence  float64   `json:"confidence"`
	BMICategory string    `json:"bmi_category"`
	AgeGroup    string    `json:"age_group"`
	Features    []float64 `json:"features"`
}

func (h *Handlers) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	var fields jsonFields
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := ml.ParsePatientInput(fields, h.features.Numerical, h.features.Categorical)
	if err != nil {
		var inputErr *ml.InputError
		if errors.As(err, &inputErr) {
			h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "invalid input",
				"fields": inputErr.Fields,
			})
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	prediction, err := h.predict(r, input)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	h.respondJSON(w, http.StatusOK, predictResponse{
		Label:       prediction.Label,
		Result:      prediction.Result,
		Confidence:  prediction.Confidence,
		BMICategory: prediction.Engineered.BMICategory,
		AgeGroup:    prediction.Engineered.AgeGroup,
		Features:    prediction.Scaled,
	})
}

// predict runs the model and records the outcome in the audit log. Audit
// failures are logged and do not fail the request.
func (h *Handlers) predict(r *http.Request, input ml.PatientInput) (*ml.Prediction, error) {
	requestID := GetRequestID(r.Context())
	prediction, err := h.predictor.Predict(input)
	if err != nil {
		h.logger.Error("Prediction failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	h.logger.Debug("Prediction served",
		zap.String("request_id", requestID),
		zap.String("bmi_category", prediction.Engineered.BMICategory),
		zap.String("age_group", prediction.Engineered.AgeGroup),
		zap.Int("label", prediction.Label),
	)

	if h.audit != nil {
		record := db.PredictionRecord{
			RequestID:   requestID,
			Input:       input,
			BMICategory: prediction.Engineered.BMICategory,
			AgeGroup:    prediction.Engineered.AgeGroup,
			Label:       prediction.Label,
			Result:      prediction.Result,
			Confidence:  prediction.Confidence,
			ModelType:   h.predictor.Artifacts().ModelType,
		}
		if err := h.audit.SavePrediction(r.Context(), record); err != nil {
			h.logger.Warn("Failed to record prediction", zap.String("request_id", requestID), zap.Error(err))
		}
	}
	return prediction, nil
}

func (h *Handlers) render(w http.ResponseWriter, status int, data pageData) {
	var body strings.Builder
	if err := h.templates.Render(&body, indexTemplate, data); err != nil {
		h.logger.Error("Failed to render template", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body.String()))
}
