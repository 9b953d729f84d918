// Package server exposes live field validation over WebSocket.
//
// A client sends one JSON message per edit of a field and receives the
// value the field should hold and its status:
//
//	-> {"field": "passport_us", "mode": "type", "value": "AB1"}
//	<- {"field": "passport_us", "value": "A", "status": "potentially_valid", "truncated": true}
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coregx/incregex"
	"github.com/coregx/incregex/internal/fielddef"
)

const (
	// maxMessageSize bounds one client message.
	maxMessageSize = 4096

	writeWait = 5 * time.Second
)

type request struct {
	Field string        `json:"field"`
	Mode  incregex.Mode `json:"mode"`
	Value string        `json:"value"`
}

type response struct {
	Field string `json:"field"`
	*incregex.Result
	Error string `json:"error,omitempty"`
}

type fieldInfo struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	Description string `json:"description,omitempty"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithOriginCheck replaces the WebSocket origin check. By default only
// same-origin browser connections are accepted.
func WithOriginCheck(check func(r *http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = check
	}
}

// Handler serves validation requests for a fixed set of fields.
type Handler struct {
	validator *incregex.Validator
	fields    *fielddef.Set
	logger    *slog.Logger
	upgrader  websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewHandler creates a Handler validating fields with v.
func NewHandler(v *incregex.Validator, fields *fielddef.Set, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		validator: v,
		fields:    fields,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers the WebSocket endpoint and the JSON routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.handleWebSocket)
	mux.HandleFunc("GET /fields", h.handleFields)
	mux.HandleFunc("GET /health", h.handleHealth)
}

// Close closes every open WebSocket connection and refuses new ones.
// http.Server.Shutdown does not track hijacked connections, so register
// Close with RegisterOnShutdown.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Handler) track(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = struct{}{}
	return true
}

func (h *Handler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	if !h.track(conn) {
		return
	}
	defer h.untrack(conn)

	conn.SetReadLimit(maxMessageSize)
	h.logger.Debug("client connected", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "remote", r.RemoteAddr, "error", err)
			}
			return
		}

		resp := h.validate(data)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn("websocket write failed", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}

// validate answers one request. Request errors are reported to the client
// and never end the connection.
func (h *Handler) validate(data []byte) response {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return response{Error: "invalid request: " + err.Error()}
	}
	f, ok := h.fields.Lookup(req.Field)
	if !ok {
		return response{Field: req.Field, Error: "unknown field"}
	}
	res, err := h.validator.Apply(f.Pattern, req.Mode, req.Value)
	if err != nil {
		h.logger.Error("field pattern failed to build", "field", f.Name, "error", err)
		return response{Field: req.Field, Error: err.Error()}
	}
	return response{Field: req.Field, Result: &res}
}

func (h *Handler) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := h.fields.Fields()
	infos := make([]fieldInfo, len(fields))
	for i, f := range fields {
		infos[i] = fieldInfo{
			Name:        f.Name,
			Pattern:     f.Pattern.String(),
			Description: f.Description,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": infos})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := h.validator.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"matchers":  h.validator.Len(),
		"fallbacks": st.Fallbacks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
