package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"protostudio/internal/preview"
	"protostudio/internal/session"
)

func (h *Studio) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Prompt      string `json:"prompt"`
		SourceURL   string `json:"source_url"`
		WithBackend bool   `json:"with_backend"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	res, err := h.session.Generate(r.Context(), session.GenerateInput{
		Prompt:      strings.TrimSpace(in.Prompt),
		SourceURL:   strings.TrimSpace(in.SourceURL),
		WithBackend: in.WithBackend,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Studio) HandleIcon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		ConceptID string `json:"concept_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.ConceptID) == "" {
		http.Error(w, "concept_id is required", http.StatusBadRequest)
		return
	}
	icon, err := h.session.RegenerateIcon(r.Context(), in.ConceptID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"icon": icon})
}

func (h *Studio) HandlePrototype(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	proto, ok := h.session.Prototype()
	if !ok {
		http.Error(w, "no prototype generated yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prototype": proto,
		"icon":      h.session.Icon(),
		"concepts":  h.session.Concepts(),
		"shareLink": h.session.ShareLink(),
		"status":    h.session.Status(),
	})
}

// HandlePreview renders one screen of the current prototype. Navigation is by
// index (?screen=k, clamped) or by id (?screen_id=..., 400 when unknown).
func (h *Studio) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	proto, ok := h.session.Prototype()
	if !ok {
		http.Error(w, "no prototype generated yet", http.StatusNotFound)
		return
	}

	var frame *preview.Frame
	var err error
	if screenID := strings.TrimSpace(r.URL.Query().Get("screen_id")); screenID != "" {
		frame, err = preview.RenderByID(proto, screenID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		idx := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("screen")); raw != "" {
			idx, err = strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "screen must be an integer", http.StatusBadRequest)
				return
			}
		}
		frame, err = preview.Render(proto, idx)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, frame)
}

func (h *Studio) HandleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": h.session.Logs()})
}
