package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"protostudio/internal/credits"
)

// HandleCredits reads the balance. The read itself runs the daily rollover
// guard, which is idempotent within a calendar day.
func (h *Studio) HandleCredits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ledger.Record())
}

func (h *Studio) HandlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	rec, err := h.ledger.SetPlan(credits.Plan(strings.TrimSpace(in.Plan)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
