package server

import (
	"net/http"

	"protostudio/internal/handler"
	"protostudio/internal/middleware"
)

func NewMux(studio *handler.Studio) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/generate", studio.HandleGenerate)
	mux.HandleFunc("/v1/icon", studio.HandleIcon)
	mux.HandleFunc("/v1/prototype", studio.HandlePrototype)
	mux.HandleFunc("/v1/preview", studio.HandlePreview)
	mux.HandleFunc("/v1/logs", studio.HandleLogs)

	mux.HandleFunc("/v1/attachments", studio.HandleAttachments)
	mux.HandleFunc("/v1/attachments/", studio.HandleAttachmentByID)

	mux.HandleFunc("/v1/credits", studio.HandleCredits)
	mux.HandleFunc("/v1/credits/plan", studio.HandlePlan)

	mux.HandleFunc("/v1/build", studio.HandleBuild)
	mux.HandleFunc("/v1/build/output", studio.HandleBuildOutput)
	mux.HandleFunc("/v1/build/watch", studio.HandleBuildWatch)

	mux.HandleFunc("/v1/export/blueprint", studio.HandleExportBlueprint)
	mux.HandleFunc("/v1/export/schema.sql", studio.HandleExportSQL)

	return middleware.CORS(mux)
}
