// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/mdhender/hexclash/visibility"
	"github.com/mdhender/hexclash/web/auth"
)

type sessionKey struct{}

func withSession(r *http.Request, session *auth.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey{}, session))
}

func sessionFrom(r *http.Request) *auth.Session {
	session, _ := r.Context().Value(sessionKey{}).(*auth.Session)
	return session
}

type joinRequest struct {
	Match    string `json:"match"`
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type joinResponse struct {
	Token     string            `json:"token"`
	Match     string            `json:"match"`
	Team      visibility.TeamID `json:"team"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Join checks a player's credentials and opens a session. The token is
// returned in the body for bearer use and set as a cookie.
func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid join request")
		return
	}
	if _, ok := h.match(req.Match); !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_MATCH", "no such match")
		return
	}

	user, err := h.store.ValidateCredentials(r.Context(), req.Match, req.Handle, req.Password)
	if err != nil {
		log.Printf("join: %s: %v", req.Match, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "authentication error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "BAD_CREDENTIALS", "invalid handle or password")
		return
	}

	session := h.sessions.Create(*user)
	auth.SetSessionCookie(w, session)
	writeJSON(w, http.StatusOK, joinResponse{
		Token:     session.ID,
		Match:     user.MatchID,
		Team:      user.Team,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := auth.GetSessionFromRequest(r, h.sessions); session != nil {
		h.sessions.Delete(session.ID)
	}
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// RequireAuth rejects requests without a live session.
func (h *Handlers) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.GetSessionFromRequest(r, h.sessions)
		if session == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or expired session")
			return
		}
		next(w, withSession(r, session))
	}
}
