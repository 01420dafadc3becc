package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phoa-app/sentinel/internal/domain"
)

type PhobiaHandler struct {
	phobias    domain.PhobiaMetadataSource
	treatments domain.RecommendationSource
}

func NewPhobiaHandler(phobias domain.PhobiaMetadataSource, treatments domain.RecommendationSource) *PhobiaHandler {
	return &PhobiaHandler{phobias: phobias, treatments: treatments}
}

type phobiaResponse struct {
	domain.Phobia
	Treatments []domain.Treatment `json:"possibleTreatment,omitempty"`
}

func (h *PhobiaHandler) List(w http.ResponseWriter, r *http.Request) {
	phobias, err := h.phobias.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list phobias")
		return
	}
	if phobias == nil {
		phobias = []domain.Phobia{}
	}
	writeJSON(w, http.StatusOK, phobias)
}

func (h *PhobiaHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	phobia, err := h.phobias.Phobia(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "phobia not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get phobia")
		return
	}

	treatments, err := h.treatments.Treatments(r.Context(), id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to get treatments")
		return
	}

	writeJSON(w, http.StatusOK, phobiaResponse{Phobia: *phobia, Treatments: treatments})
}
