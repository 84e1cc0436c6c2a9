package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"protostudio/internal/buildsim"
)

const (
	buildWSWriteWait = 10 * time.Second
	buildWSPongWait  = 60 * time.Second
	buildWSPingEvery = (buildWSPongWait * 9) / 10
)

var buildWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleBuild starts a simulated build (POST) or reports the current
// snapshot (GET). Starting requires a prototype and the credits charge.
func (h *Studio) HandleBuild(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in struct {
			Target string `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if _, ok := h.session.Prototype(); !ok {
			http.Error(w, "no prototype to build", http.StatusNotFound)
			return
		}
		snap, err := h.sim.Start(buildsim.Target(strings.TrimSpace(in.Target)))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, snap)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.sim.Snapshot())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// HandleBuildOutput serves the "build output" view: the same blueprint and
// icon already in memory. The simulated build produces nothing else.
func (h *Studio) HandleBuildOutput(w http.ResponseWriter, r *http.Request) {
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
	})
}

// HandleBuildWatch streams build snapshots over a WebSocket until the client
// goes away. Snapshots are pushed per simulator tick.
func (h *Studio) HandleBuildWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := buildWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()
	if err := conn.SetReadDeadline(time.Now().Add(buildWSPongWait)); err != nil {
		log.Printf("build ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(buildWSPongWait))
	})

	snapCh, cancel := h.sim.Subscribe()
	defer cancel()

	// Reader goroutine: consume control frames, notice the client leaving.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(h.sim.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(buildWSPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			return
		case snap, ok := <-snapCh:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(buildWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(buildWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
