// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package auth holds player sessions.
package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/hexclash/visibility"
)

// User is a player seated in a match.
type User struct {
	Handle  string
	MatchID string
	Team    visibility.TeamID
}

type Session struct {
	ID        string
	User      User
	ExpiresAt time.Time
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Create(user User) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		ID:        uuid.NewString(),
		User:      user,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[session.ID] = session
	return session
}

// Get returns the session, or nil if it is unknown or expired.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.now().After(session.ExpiresAt) {
		return nil
	}
	return session
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops expired sessions and returns how many it dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, now := 0, s.now()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

const SessionCookieName = "hexclash_session"

func SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// GetSessionFromRequest looks for a bearer token first, then the cookie.
func GetSessionFromRequest(r *http.Request, store *SessionStore) *Session {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return nil
		}
		return store.Get(strings.TrimSpace(token))
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return store.Get(cookie.Value)
}
