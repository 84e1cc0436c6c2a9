// Package handler exposes the studio over plain JSON HTTP plus one WebSocket
// endpoint for build progress.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"protostudio/internal/artifact"
	"protostudio/internal/attachment"
	"protostudio/internal/buildsim"
	"protostudio/internal/credits"
	"protostudio/internal/generate"
	"protostudio/internal/session"
)

// Studio bundles the handler dependencies. Mirror may be nil when no
// artifact bucket is configured.
type Studio struct {
	session     *session.Session
	ledger      *credits.Ledger
	attachments *attachment.Registry
	sim         *buildsim.Simulator
	mirror      *artifact.S3Store
}

func NewStudio(
	sess *session.Session,
	ledger *credits.Ledger,
	attachments *attachment.Registry,
	sim *buildsim.Simulator,
	mirror *artifact.S3Store,
) *Studio {
	return &Studio{
		session:     sess,
		ledger:      ledger,
		attachments: attachments,
		sim:         sim,
		mirror:      mirror,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto the status codes the frontend keys off:
// 402 opens the paywall, 409 means an action is already in flight, 502 is a
// terminal generation failure the user retries manually.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := map[string]any{"error": err.Error()}

	var genErr *generate.GenerationError
	switch {
	case errors.Is(err, credits.ErrInsufficientCredits):
		status = http.StatusPaymentRequired
		body["paywall"] = true
	case errors.Is(err, session.ErrBusy), errors.Is(err, buildsim.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, generate.ErrEmptyInput),
		errors.Is(err, buildsim.ErrUnknownTarget),
		errors.Is(err, attachment.ErrNotFound):
		status = http.StatusBadRequest
	case errors.As(err, &genErr):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, body)
}
