package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phoa-app/sentinel/internal/domain"
	"github.com/phoa-app/sentinel/internal/rules"
)

// TriggerHandler administers the persisted trigger specs. It is only routed
// when the knowledge source is writable.
type TriggerHandler struct {
	store domain.TriggerStore
}

func NewTriggerHandler(store domain.TriggerStore) *TriggerHandler {
	return &TriggerHandler{store: store}
}

func (h *TriggerHandler) GetByPhobiaID(w http.ResponseWriter, r *http.Request) {
	spec, err := h.store.TriggerSpec(r.Context(), chi.URLParam(r, "phobiaId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trigger spec not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get trigger spec")
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

// Upsert replaces the trigger spec for a phobia. The spec is test-compiled
// first so a record that can never produce a rule is rejected at write time
// instead of being skipped on every evaluation.
func (h *TriggerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var spec domain.TriggerSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	spec.PhobiaID = chi.URLParam(r, "phobiaId")

	if _, err := rules.Compile(spec, domain.UserSubject("")); err != nil {
		writeError(w, http.StatusBadRequest, "trigger spec does not compile: "+err.Error())
		return
	}

	if err := h.store.Upsert(r.Context(), &spec); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store trigger spec")
		return
	}
	writeJSON(w, http.StatusOK, spec)
}
