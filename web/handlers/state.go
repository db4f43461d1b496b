// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mdhender/hexclash/events"
)

// State returns the match as the caller's team sees it.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	c, ok := h.match(session.User.MatchID)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_MATCH", "no such match")
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot(session.User.Team))
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Stream upgrades to a websocket and sends every event after ?since=N that
// the caller's team may see, then follows the log until the client leaves.
// A client that reconnects passes the last sequence number it processed.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	c, ok := h.match(session.User.MatchID)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_MATCH", "no such match")
		return
	}
	var since uint64
	if s := r.URL.Query().Get("since"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "since must be a sequence number")
			return
		}
		since = n
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the client never sends anything we use; a read error means it's gone
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	team, feed := session.User.Team, c.Log()
	for {
		list := feed.Since(since)
		for _, e := range events.Filter(list, team) {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		}
		if n := len(list); n > 0 {
			since = list[n-1].Seq
		}

		wait, stop := context.WithTimeout(ctx, pingPeriod)
		err := feed.Wait(wait, since)
		stop()
		if ctx.Err() != nil {
			return
		} else if err != nil {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
