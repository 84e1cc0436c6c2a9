package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"protostudio/internal/attachment"
)

// HandleAttachments registers picked-file metadata (POST) or lists the
// session's attachments (GET). Only name, kind and size are accepted — the
// file content itself never reaches the server.
func (h *Studio) HandleAttachments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in struct {
			Name      string `json:"name"`
			Kind      string `json:"kind"`
			SizeBytes int64  `json:"size_bytes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		att, err := h.attachments.Add(in.Name, attachment.Kind(strings.TrimSpace(in.Kind)), in.SizeBytes)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.session.AddLog(fmt.Sprintf("%s attached: %s", strings.ToUpper(string(att.Kind)), att.Name))
		writeJSON(w, http.StatusCreated, att)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"attachments": h.attachments.List()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// HandleAttachmentByID removes one attachment: DELETE /v1/attachments/{id}.
func (h *Studio) HandleAttachmentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/attachments/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "attachment id is required", http.StatusBadRequest)
		return
	}
	if err := h.attachments.Remove(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
