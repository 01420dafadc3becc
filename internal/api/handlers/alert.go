package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phoa-app/sentinel/internal/domain"
	"github.com/phoa-app/sentinel/internal/service"
)

// alertEvaluator is the service surface the handler depends on.
type alertEvaluator interface {
	Evaluate(ctx context.Context, req domain.EvaluateRequest) ([]domain.AlertRecord, error)
}

type AlertHandler struct {
	svc alertEvaluator
}

func NewAlertHandler(svc alertEvaluator) *AlertHandler {
	return &AlertHandler{svc: svc}
}

type evaluateResponse struct {
	Success bool                 `json:"success"`
	Alerts  []domain.AlertRecord `json:"alerts"`
	Error   string               `json:"error,omitempty"`
}

// Evaluate runs the rule pipeline for one request. An empty alert list is a
// successful outcome; a failed request never carries a partial alert list.
func (h *AlertHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req domain.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, evaluateResponse{Error: "invalid request body"})
		return
	}

	alerts, err := h.svc.Evaluate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhobiasMissing),
			errors.Is(err, service.ErrBadContextValue):
			writeJSON(w, http.StatusBadRequest, evaluateResponse{Error: err.Error()})
		case errors.Is(err, service.ErrEngineInvariant):
			writeJSON(w, http.StatusInternalServerError, evaluateResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, evaluateResponse{Error: "evaluation failed"})
		}
		return
	}

	if alerts == nil {
		alerts = []domain.AlertRecord{}
	}
	writeJSON(w, http.StatusOK, evaluateResponse{Success: true, Alerts: alerts})
}
