// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/model"
	"github.com/mdhender/hexclash/turns"
	"github.com/mdhender/hexclash/visibility"
)

type orderRequest struct {
	PieceID board.PieceID `json:"pieceId"`
	Cells   []hexes.Coord `json:"cells"`
}

type orderResponse struct {
	Accepted bool          `json:"accepted"`
	Path     []hexes.Coord `json:"path,omitempty"`
	Code     string        `json:"code,omitempty"`
	Reason   string        `json:"reason,omitempty"`
}

// SubmitOrder hands a path to the match. A refused order is not an HTTP
// failure; the body says why it was refused. Every order is recorded.
func (h *Handlers) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	c, ok := h.match(session.User.MatchID)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_MATCH", "no such match")
		return
	}
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order")
		return
	}

	round, turn := c.Round()
	path, err := c.SubmitOrder(session.User.Team, req.PieceID, req.Cells)
	resp := orderResponse{Accepted: err == nil, Path: path}
	if err != nil {
		resp.Code, resp.Reason = turns.ErrorCode(err), err.Error()
	}

	order := &model.Order{
		MatchID:   session.User.MatchID,
		Team:      session.User.Team,
		Piece:     req.PieceID,
		Round:     round,
		Turn:      turn,
		Requested: req.Cells,
		Accepted:  len(path),
		Code:      resp.Code,
	}
	if _, err := h.store.RecordOrder(r.Context(), order); err != nil {
		log.Printf("warning: orders: %s: %v", session.User.MatchID, err)
	}

	writeJSON(w, http.StatusOK, resp)
}

type suggestResponse struct {
	Path []hexes.Coord `json:"path"`
}

// Suggest proposes a straight route for one of the caller's pieces, from
// ?piece=ID toward the cell ?q=Q&z=Z, trimmed to what an order would accept.
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	c, ok := h.match(session.User.MatchID)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_MATCH", "no such match")
		return
	}
	query := r.URL.Query()
	id, err := strconv.Atoi(query.Get("piece"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "piece must be a piece id")
		return
	}
	q, errQ := strconv.Atoi(query.Get("q"))
	z, errZ := strconv.Atoi(query.Get("z"))
	if errQ != nil || errZ != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "q and z must be integers")
		return
	}
	path, err := c.Suggest(session.User.Team, board.PieceID(id), hexes.Coord{Q: q, Z: z})
	if err != nil {
		writeError(w, http.StatusNotFound, turns.ErrorCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{Path: path})
}

// EndTurn ends the caller's planning phase.
func (h *Handlers) EndTurn(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, (*turns.Controller).EndTurn)
}

// Surrender concedes the match for the caller's team.
func (h *Handlers) Surrender(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, (*turns.Controller).Surrender)
}

func (h *Handlers) act(w http.ResponseWriter, r *http.Request, fn func(*turns.Controller, visibility.TeamID) error) {
	session := sessionFrom(r)
	c, ok := h.match(session.User.MatchID)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_MATCH", "no such match")
		return
	}
	if err := fn(c, session.User.Team); err != nil {
		status := http.StatusConflict
		if errors.Is(err, turns.ErrUnknownTeam) {
			status = http.StatusForbidden
		}
		writeError(w, status, turns.ErrorCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"phase": c.Phase().String()})
}
