// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestSessionExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStore(time.Hour)
	s.now = func() time.Time { return now }

	session := s.Create(User{Handle: "alice", MatchID: "m1", Team: 1})
	if got := s.Get(session.ID); got == nil || got.User.Team != 1 {
		t.Fatalf("get: want team 1 session, got %+v", got)
	}

	now = now.Add(2 * time.Hour)
	if got := s.Get(session.ID); got != nil {
		t.Errorf("get after expiry: want nil, got %+v", got)
	}
	if n := s.Sweep(); n != 1 {
		t.Errorf("sweep: want 1, got %d", n)
	}
}

func TestGetSessionFromRequest(t *testing.T) {
	s := NewSessionStore(0)
	session := s.Create(User{Handle: "bob", MatchID: "m1"})

	for _, tc := range []struct {
		name   string
		header string
		cookie string
		want   bool
	}{
		{name: "bearer", header: "Bearer " + session.ID, want: true},
		{name: "cookie", cookie: session.ID, want: true},
		{name: "bad scheme", header: "Basic " + session.ID},
		{name: "unknown token", header: "Bearer nope"},
		{name: "nothing"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/state", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tc.cookie})
			}
			if got := GetSessionFromRequest(r, s) != nil; got != tc.want {
				t.Errorf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	Cost = bcrypt.MinCost
	hash, err := HashPassword("sekrit")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("sekrit", hash) {
		t.Errorf("check: want match")
	}
	if CheckPassword("Sekrit", hash) {
		t.Errorf("check: want mismatch")
	}
	if _, err := HashPassword(""); err != ErrEmptyPassword {
		t.Errorf("empty: want ErrEmptyPassword, got %v", err)
	}
}
