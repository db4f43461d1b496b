// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package handlers is the HTTP surface players use to join a match, submit
// orders and watch the match unfold.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mdhender/hexclash"
	"github.com/mdhender/hexclash/model"
	"github.com/mdhender/hexclash/turns"
	"github.com/mdhender/hexclash/web/auth"
)

// Store is the persistence the handlers need.
type Store interface {
	model.Store
	ValidateCredentials(ctx context.Context, matchID, handle, password string) (*auth.User, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store    Store
	sessions *auth.SessionStore
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	matches map[string]*turns.Controller
}

// New creates a new Handlers with the given store and session store.
func New(s Store, sessions *auth.SessionStore) *Handlers {
	return &Handlers{
		store:    s,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		matches: make(map[string]*turns.Controller),
	}
}

// AddMatch makes a running match available to players.
func (h *Handlers) AddMatch(id string, c *turns.Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.matches[id] = c
}

func (h *Handlers) match(id string) (*turns.Controller, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.matches[id]
	return c, ok
}

// Sessions returns the session store.
func (h *Handlers) Sessions() *auth.SessionStore {
	return h.sessions
}

// Routes returns a mux with every endpoint registered.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/join", h.Join)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("POST /api/orders", h.RequireAuth(h.SubmitOrder))
	mux.HandleFunc("POST /api/end-turn", h.RequireAuth(h.EndTurn))
	mux.HandleFunc("POST /api/surrender", h.RequireAuth(h.Surrender))
	mux.HandleFunc("GET /api/state", h.RequireAuth(h.State))
	mux.HandleFunc("GET /api/suggest", h.RequireAuth(h.Suggest))
	mux.HandleFunc("GET /api/stream", h.RequireAuth(h.Stream))
	mux.HandleFunc("GET /api/version", h.Version)
	return mux
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(VersionHeader, hexclash.Version().String())
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, reason string) {
	writeJSON(w, status, errorResponse{Code: code, Reason: reason})
}

// VersionHeader carries the server version on every JSON response.
const VersionHeader = "X-Hexclash-Version"

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": hexclash.Version().String()})
}
