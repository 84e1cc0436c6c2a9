package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/genai"

	"protostudio/internal/attachment"
	"protostudio/internal/buildsim"
	"protostudio/internal/credits"
	"protostudio/internal/generate"
	"protostudio/internal/session"
)

// cannedGenerator replays a fixed queue of JSON payloads.
type cannedGenerator struct {
	queue []json.RawMessage
}

func (g *cannedGenerator) GenerateJSON(context.Context, string, *genai.Schema) (json.RawMessage, error) {
	if len(g.queue) == 0 {
		return nil, nil
	}
	out := g.queue[0]
	g.queue = g.queue[1:]
	return out, nil
}

func (g *cannedGenerator) GenerateImage(context.Context, string, string) ([]byte, string, error) {
	return []byte{0x01}, "image/png", nil
}

func (g *cannedGenerator) Name() string { return "canned" }
func (g *cannedGenerator) Close() error { return nil }

const prototypeJSON = `{
  "id": "proto-1", "name": "Fit Track", "description": "Track workouts.",
  "screens": [{"id": "s1", "name": "Home", "components": [
    {"id": "c1", "type": "header", "props": {"label": "FitTrack"}},
    {"id": "c2", "type": "list", "props": {}}]}],
  "databaseSchema": [{"name": "workouts", "columns": [{"name": "id", "type": "uuid", "isNullable": false}]}],
  "theme": {"primary": "#111", "secondary": "#222", "accent": "#333", "isDark": false}
}`

const conceptsJSON = `{"concepts":[{"id":"i1","style":"Flat","description":"d","prompt":"p1"}]}`

func newTestStudio(t *testing.T, gen *cannedGenerator) *Studio {
	t.Helper()
	svc, err := generate.New(gen)
	if err != nil {
		t.Fatalf("generate.New: %v", err)
	}
	store := credits.NewFileStore(filepath.Join(t.TempDir(), "credits.json"))
	ledger, err := credits.NewLedger(store, nil)
	if err != nil {
		t.Fatalf("credits.NewLedger: %v", err)
	}
	atts := attachment.NewRegistry()
	sess := session.New(svc, ledger, atts, nil)
	sim := buildsim.New(buildsim.Config{
		TickEvery: -1,
		Charge: func(n int) error {
			_, err := ledger.Consume(n)
			return err
		},
	})
	return NewStudio(sess, ledger, atts, sim, nil)
}

func generated(t *testing.T) *Studio {
	t.Helper()
	h := newTestStudio(t, &cannedGenerator{queue: []json.RawMessage{
		json.RawMessage(prototypeJSON),
		json.RawMessage(conceptsJSON),
	}})
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"prompt":"a fitness tracker","with_backend":true}`)
	h.HandleGenerate(rec, httptest.NewRequest(http.MethodPost, "/v1/generate", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body.String())
	}
	return h
}

func TestHandleGenerate(t *testing.T) {
	h := generated(t)

	var out struct {
		Prototype struct {
			Name string `json:"name"`
		} `json:"prototype"`
		Icon      string `json:"icon"`
		ShareLink string `json:"shareLink"`
	}
	rec := httptest.NewRecorder()
	h.HandlePrototype(rec, httptest.NewRequest(http.MethodGet, "/v1/prototype", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("prototype status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Prototype.Name != "Fit Track" || out.Icon == "" || out.ShareLink == "" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleGenerate_EmptyInput(t *testing.T) {
	h := newTestStudio(t, &cannedGenerator{})
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGenerate_Paywall(t *testing.T) {
	h := newTestStudio(t, &cannedGenerator{})
	// Burn the free balance down to below the generation cost.
	for i := 0; i < 3; i++ {
		if _, err := h.ledger.Consume(3); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{"prompt":"x"}`)))
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}
	var body struct {
		Paywall bool `json:"paywall"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !body.Paywall {
		t.Fatalf("expected paywall flag, body: %s", rec.Body.String())
	}
}

func TestHandlePrototype_NotFound(t *testing.T) {
	h := newTestStudio(t, &cannedGenerator{})
	rec := httptest.NewRecorder()
	h.HandlePrototype(rec, httptest.NewRequest(http.MethodGet, "/v1/prototype", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePreview(t *testing.T) {
	h := generated(t)

	rec := httptest.NewRecorder()
	h.HandlePreview(rec, httptest.NewRequest(http.MethodGet, "/v1/preview?screen=7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var frame struct {
		ScreenID string `json:"screenId"`
		Index    int    `json:"index"`
		Nodes    []struct {
			Kind string `json:"kind"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.ScreenID != "s1" || frame.Index != 0 || len(frame.Nodes) != 2 {
		t.Fatalf("unexpected frame: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.HandlePreview(rec, httptest.NewRequest(http.MethodGet, "/v1/preview?screen_id=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown screen_id status = %d, want 400", rec.Code)
	}
}

func TestHandleCreditsAndPlan(t *testing.T) {
	h := newTestStudio(t, &cannedGenerator{})

	rec := httptest.NewRecorder()
	h.HandleCredits(rec, httptest.NewRequest(http.MethodGet, "/v1/credits", nil))
	var out credits.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Plan != credits.PlanFree || out.Available != 10 {
		t.Fatalf("unexpected record: %+v", out)
	}

	rec = httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodPost, "/v1/credits/plan", strings.NewReader(`{"plan":"basic"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("plan status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Plan != credits.PlanBasic || out.Available != 50 {
		t.Fatalf("unexpected record after upgrade: %+v", out)
	}

	rec = httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodPost, "/v1/credits/plan", strings.NewReader(`{"plan":"enterprise"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown plan status = %d, want 400", rec.Code)
	}
}

func TestHandleAttachments(t *testing.T) {
	h := newTestStudio(t, &cannedGenerator{})

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"name":"mock.png","kind":"image","size_bytes":2048}`)
	h.HandleAttachments(rec, httptest.NewRequest(http.MethodPost, "/v1/attachments", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var att attachment.Attachment
	if err := json.Unmarshal(rec.Body.Bytes(), &att); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = httptest.NewRecorder()
	h.HandleAttachmentByID(rec, httptest.NewRequest(http.MethodDelete, "/v1/attachments/"+att.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleAttachmentByID(rec, httptest.NewRequest(http.MethodDelete, "/v1/attachments/"+att.ID, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("repeat delete status = %d, want 400", rec.Code)
	}
}

func TestHandleBuild(t *testing.T) {
	h := newTestStudio(t, &cannedGenerator{})
	rec := httptest.NewRecorder()
	h.HandleBuild(rec, httptest.NewRequest(http.MethodPost, "/v1/build", strings.NewReader(`{"target":"android"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("build without prototype status = %d, want 404", rec.Code)
	}

	h = generated(t)
	rec = httptest.NewRecorder()
	h.HandleBuild(rec, httptest.NewRequest(http.MethodPost, "/v1/build", strings.NewReader(`{"target":"android"}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("build status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.HandleBuild(rec, httptest.NewRequest(http.MethodPost, "/v1/build", strings.NewReader(`{"target":"ios"}`)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("concurrent build status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleBuild(rec, httptest.NewRequest(http.MethodGet, "/v1/build", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", rec.Code)
	}
	var snap buildsim.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.State != buildsim.StateRunning || snap.Target != buildsim.TargetAndroid {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestHandleExport(t *testing.T) {
	h := generated(t)

	rec := httptest.NewRecorder()
	h.HandleExportBlueprint(rec, httptest.NewRequest(http.MethodGet, "/v1/export/blueprint", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("blueprint status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "fit-track-blueprint.json") {
		t.Fatalf("unexpected disposition: %q", cd)
	}

	rec = httptest.NewRecorder()
	h.HandleExportSQL(rec, httptest.NewRequest(http.MethodGet, "/v1/export/schema.sql", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("sql status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CREATE TABLE workouts (") {
		t.Fatalf("unexpected sql: %s", rec.Body.String())
	}
}
