package handler

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"protostudio/internal/util/jsonutil"
)

var slugSpaces = regexp.MustCompile(`\s+`)

func exportSlug(name string) string {
	return strings.ToLower(slugSpaces.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// HandleExportBlueprint serializes the current prototype to formatted JSON
// and offers it as a download. When an artifact bucket is configured a copy
// is mirrored in the background; the download never waits for it.
func (h *Studio) HandleExportBlueprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	proto, ok := h.session.Prototype()
	if !ok {
		http.Error(w, "no prototype generated yet", http.StatusNotFound)
		return
	}
	data, err := jsonutil.MarshalNoEscapeIndent(proto, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filename := exportSlug(proto.Name) + "-blueprint.json"
	h.mirrorExport(proto.ID, filename, data, "application/json")
	h.session.AddLog("Blueprint JSON exported.")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// HandleExportSQL synthesizes CREATE TABLE statements from the generated
// database schema. 404 when the prototype has no schema.
func (h *Studio) HandleExportSQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	proto, ok := h.session.Prototype()
	if !ok {
		http.Error(w, "no prototype generated yet", http.StatusNotFound)
		return
	}
	sql, err := proto.SQLSchema()
	if err != nil {
		http.Error(w, "prototype has no database schema", http.StatusNotFound)
		return
	}
	filename := exportSlug(proto.Name) + "-schema.sql"
	h.mirrorExport(proto.ID, filename, []byte(sql), "text/plain")
	h.session.AddLog("SQL schema exported.")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(sql))
}

func (h *Studio) mirrorExport(prototypeID, name string, data []byte, contentType string) {
	if h.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.mirror.Put(ctx, prototypeID, name, data, contentType); err != nil {
			log.Printf("failed to mirror export %s: %v", name, err)
		}
	}()
}
