package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cwbudde/algo-vhs/bus"
	"github.com/cwbudde/algo-vhs/params"
)

const (
	controlTimeout = 2 * time.Second
	maxControlBody = 1 << 16
)

// NewControlRouter exposes the engine's message protocol over HTTP:
//
//	GET  /state     getState
//	POST /toggle    {"enabled": bool}
//	POST /options   {"options": {...}, "visible": bool}
//	GET  /settings  current snapshot as YAML
//
// Every request is executed on the engine's queue.
func NewControlRouter(e *Engine, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	c := &control{e: e, log: log}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/state", c.handleState)
	r.Post("/toggle", c.handleToggle)
	r.Post("/options", c.handleOptions)
	r.Get("/settings", c.handleSettings)
	return r
}

type control struct {
	e   *Engine
	log *slog.Logger
}

func (c *control) handleState(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, bus.Message{Type: bus.TypeGetState})
}

func (c *control) handleToggle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c.dispatch(w, r, bus.Message{Type: bus.TypeToggle, Enabled: body.Enabled})
}

func (c *control) handleOptions(w http.ResponseWriter, r *http.Request) {
	var msg bus.Message
	if err := decodeBody(w, r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	msg.Type = bus.TypeSetOptions
	c.dispatch(w, r, msg)
}

func (c *control) handleSettings(w http.ResponseWriter, r *http.Request) {
	var snap params.Snapshot
	if !c.run(w, r, func() { snap = c.e.Bus.Snapshot() }) {
		return
	}
	data, err := params.Marshal(snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}

func (c *control) dispatch(w http.ResponseWriter, r *http.Request, msg bus.Message) {
	var resp bus.Response
	if !c.run(w, r, func() { resp = c.e.Dispatcher.Handle(msg) }) {
		return
	}
	code := http.StatusOK
	if !resp.OK {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, resp)
}

func (c *control) run(w http.ResponseWriter, r *http.Request, fn func()) bool {
	ctx, cancel := context.WithTimeout(r.Context(), controlTimeout)
	defer cancel()
	if err := c.e.Do(ctx, fn); err != nil {
		c.log.Warn("control: engine did not answer", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxControlBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
