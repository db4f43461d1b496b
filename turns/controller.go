// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package turns runs a match: the round and turn state machine, order intake,
// and the tick loop that moves pieces and resolves what they run into.
//
// The Controller is the only thing that mutates match state. Every exported
// method takes its lock, so HTTP handlers and the tick loop may call it from
// different goroutines.
package turns

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/events"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/pieces"
	"github.com/mdhender/hexclash/planner"
	"github.com/mdhender/hexclash/rules"
	"github.com/mdhender/hexclash/visibility"
	"github.com/spf13/afero"
)

// Phase is where the match is in its turn cycle.
type Phase int

const (
	// Setup is before the first round. Maps load and pieces spawn here.
	Setup Phase = iota
	// Planning is when the current player submits orders.
	Planning
	// Playing is when every player's orders are carried out together.
	Playing
	// Over is terminal.
	Over
)

var phaseNames = []string{"setup", "planning", "playing", "over"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Player is one team's seat in the match.
type Player struct {
	Team         visibility.TeamID
	HasEndedTurn bool
	Surrendered  bool
}

// Controller owns the board, the ledger and every piece of one match.
type Controller struct {
	mu sync.Mutex

	cfg      Config
	grid     *board.Grid
	ledger   *visibility.Ledger
	log      *events.Log
	recorder *events.Recorder
	env      *pieces.Env

	pieces map[board.PieceID]*pieces.Piece
	ids    []board.PieceID
	nextID board.PieceID

	players  []*Player
	current  int
	round    int
	turn     int
	phase    Phase
	winner   visibility.TeamID
	deadline time.Time
	now      func() time.Time

	// moved is set when a step started during the turn being played
	moved bool
}

// New returns a controller in the Setup phase playing on grid.
func New(cfg Config, grid *board.Grid) *Controller {
	if cfg.Teams < 2 {
		cfg.Teams = 2
	}
	if cfg.TickStep <= 0 {
		cfg.TickStep = DefaultConfig().TickStep
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultConfig().TickRate
	}
	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = DefaultConfig().MaxTicks
	}
	c := &Controller{
		cfg:    cfg,
		log:    events.NewLog(),
		pieces: make(map[board.PieceID]*pieces.Piece),
		winner: -1,
		now:    time.Now,
	}
	var teams []visibility.TeamID
	for team := 0; team < cfg.Teams; team++ {
		teams = append(teams, visibility.TeamID(team))
		c.players = append(c.players, &Player{Team: visibility.TeamID(team)})
	}
	c.recorder = events.NewRecorder(c.log, nil, teams)
	c.setGrid(grid)
	return c
}

func (c *Controller) setGrid(grid *board.Grid) {
	c.grid = grid
	c.ledger = visibility.New(grid, c.cfg.Strict)
	c.recorder.SetLedger(c.ledger)
	c.env = &pieces.Env{
		Grid:    grid,
		Ledger:  c.ledger,
		Sink:    c.recorder,
		Display: events.SinkDisplay{Sink: c.recorder},
	}
}

// SetClock replaces the wall clock used by the turn timer.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	c.recorder.Now = now
}

// Grid returns a copy of the board as it is now. The copy does not follow
// later moves.
func (c *Controller) Grid() *board.Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Clone()
}

// Ledger returns the visibility ledger. Callers must not modify it.
func (c *Controller) Ledger() *visibility.Ledger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger
}

// Recorder returns the event recorder, for attaching journals.
func (c *Controller) Recorder() *events.Recorder {
	return c.recorder
}

// Log returns the event log observers read from.
func (c *Controller) Log() *events.Log {
	return c.log
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Round returns the round and turn counters.
func (c *Controller) Round() (round, turn int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round, c.turn
}

// Current returns the team whose turn it is.
func (c *Controller) Current() visibility.TeamID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.players[c.current].Team
}

// Winner returns the winning team once the match is over. A match that ends
// with no team standing has no winner.
func (c *Controller) Winner() (visibility.TeamID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.winner, c.phase == Over && c.winner >= 0
}

// Piece returns the piece with the given id. Callers must not modify it.
func (c *Controller) Piece(id board.PieceID) (*pieces.Piece, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pieces[id]
	return p, ok
}

// LoadMap replaces the board with one read from path. It is only allowed
// before any piece is placed. On any error the current board is kept.
func (c *Controller) LoadMap(fs afero.Fs, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Setup || len(c.pieces) != 0 {
		return fmt.Errorf("load map: %w", ErrMatchStarted)
	}
	g, err := board.LoadMap(fs, path)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	c.setGrid(g)
	return nil
}

// Spawn places a new piece for team at the given cell.
func (c *Controller) Spawn(team visibility.TeamID, kind rules.Kind, at hexes.Coord) (board.PieceID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spawn(team, kind, at)
}

func (c *Controller) spawn(team visibility.TeamID, kind rules.Kind, at hexes.Coord) (board.PieceID, error) {
	if c.phase == Over {
		return 0, fmt.Errorf("spawn: %w", ErrGameOver)
	} else if c.player(team) == nil {
		return 0, fmt.Errorf("spawn: %w: %d", ErrUnknownTeam, team)
	}
	id := c.nextID + 1
	p, err := pieces.New(c.env, id, team, kind, at)
	if err != nil {
		return 0, fmt.Errorf("spawn: %w", err)
	}
	c.nextID = id
	c.pieces[id] = p
	c.ids = append(c.ids, id)
	return id, nil
}

// Start begins the first round. Every team must have at least one piece.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Setup {
		return fmt.Errorf("start: %w", ErrMatchStarted)
	}
	for _, pl := range c.players {
		if c.livePieces(pl.Team) == 0 {
			return fmt.Errorf("start: %w: team %d has none", ErrNoPlayers, pl.Team)
		}
	}
	c.startRound()
	return nil
}

// SubmitOrder gives a piece a path to follow when the turn is played.
// It returns the accepted path, which may be shorter than the one submitted.
func (c *Controller) SubmitOrder(team visibility.TeamID, id board.PieceID, cells []hexes.Coord) ([]hexes.Coord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.canAct(team); err != nil {
		err.Piece = id
		return nil, err
	}
	p, ok := c.pieces[id]
	if !ok || p.Team != team || !p.Alive() {
		return nil, &OrderError{Code: ErrCodeUnknownPiece, Piece: id, Err: ErrUnknownPiece}
	}
	path, err := p.Order(cells)
	if err != nil {
		return nil, refusal(id, err)
	}
	c.recorder.Emit(events.Event{
		Kind:      events.KindOrderAccepted,
		Team:      team,
		Piece:     id,
		PieceKind: p.Kind.String(),
		Cells:     path,
		Remaining: p.RemainingMovement,
	})
	return path, nil
}

// Suggest proposes a straight route for one of team's pieces toward a cell,
// already cut down to what an order would accept on the current board.
// It may be called in any phase and changes nothing.
func (c *Controller) Suggest(team visibility.TeamID, id board.PieceID, to hexes.Coord) ([]hexes.Coord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pieces[id]
	if !ok || p.Team != team || !p.Alive() {
		return nil, &OrderError{Code: ErrCodeUnknownPiece, Piece: id, Err: ErrUnknownPiece}
	}
	return planner.Validate(c.grid, p.Kind, planner.Suggest(p.Cell, to)), nil
}

// EndTurn ends the current player's planning phase. Once every standing
// player has ended theirs, all of the turn's orders play out together.
func (c *Controller) EndTurn(team visibility.TeamID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.canAct(team); err != nil {
		return err
	}
	c.endTurn()
	return nil
}

// Surrender concedes the match for team.
func (c *Controller) Surrender(team visibility.TeamID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Over {
		return &OrderError{Code: ErrCodeGameOver, Err: ErrGameOver}
	}
	pl := c.player(team)
	if pl == nil {
		return fmt.Errorf("surrender: %w: %d", ErrUnknownTeam, team)
	}
	pl.Surrendered = true
	c.recorder.Emit(events.Event{Kind: events.KindSurrendered, Team: team, Public: true})
	if c.checkGameOver() {
		return nil
	}
	if c.phase == Planning && c.players[c.current] == pl {
		c.nextTurn()
	}
	return nil
}

// Tick advances the match by dt seconds of simulated time and returns the
// phase it ends in. During planning it only checks the turn timer.
func (c *Controller) Tick(dt float64) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.phase {
	case Planning:
		if c.cfg.TurnTimer > 0 && !c.now().Before(c.deadline) {
			if c.cfg.Debug {
				log.Printf("turns: round %d turn %d: timer expired for team %d\n", c.round, c.turn, c.players[c.current].Team)
			}
			c.endTurn()
		}
	case Playing:
		c.step(dt)
	}
	return c.phase
}

// Settle runs the turn being played to completion without waiting on the
// clock. It gives up after maxTicks ticks, or the configured limit if
// maxTicks is zero.
func (c *Controller) Settle(maxTicks int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if maxTicks <= 0 {
		maxTicks = c.cfg.MaxTicks
	}
	for n := 0; c.phase == Playing; n++ {
		if n >= maxTicks {
			return fmt.Errorf("settle: %w after %d ticks", ErrNotSettled, n)
		}
		c.step(c.cfg.TickStep)
	}
	return nil
}

// Run ticks the match on a timer until the match is over or ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if c.Tick(c.cfg.TickStep) == Over {
				return nil
			}
		}
	}
}

// canAct checks that team may act in the current phase.
func (c *Controller) canAct(team visibility.TeamID) *OrderError {
	if c.phase == Over {
		return &OrderError{Code: ErrCodeGameOver, Err: ErrGameOver}
	}
	if c.phase != Planning || c.players[c.current].Team != team {
		return &OrderError{Code: ErrCodeNotYourTurn, Err: ErrNotYourTurn}
	}
	return nil
}

func (c *Controller) player(team visibility.TeamID) *Player {
	for _, pl := range c.players {
		if pl.Team == team {
			return pl
		}
	}
	return nil
}

// livePieces counts the team's living pieces that can fight. Walls don't count.
func (c *Controller) livePieces(team visibility.TeamID) int {
	n := 0
	for _, p := range c.pieces {
		if p.Team == team && p.Alive() && p.Kind != rules.Wall {
			n++
		}
	}
	return n
}

func (c *Controller) startRound() {
	c.round++
	for _, id := range c.ids {
		c.pieces[id].RefreshForNewRound()
	}
	c.recorder.SetTurn(c.round, c.turn)
	c.recorder.Emit(events.Event{Kind: events.KindRoundStarted, Round: c.round, Turn: c.turn, Public: true})
	if c.cfg.Debug {
		log.Printf("turns: round %d started\n", c.round)
	}
	c.openTurn()
}

// openTurn starts a planning pass with the first standing player.
func (c *Controller) openTurn() {
	for _, pl := range c.players {
		pl.HasEndedTurn = false
	}
	c.current = slices.IndexFunc(c.players, func(pl *Player) bool { return !pl.Surrendered })
	c.startTurn()
}

func (c *Controller) startTurn() {
	c.turn++
	c.phase = Planning
	c.deadline = c.now().Add(c.cfg.TurnTimer)
	c.recorder.SetTurn(c.round, c.turn)
	team := c.players[c.current].Team
	c.recorder.Emit(events.Event{Kind: events.KindTurnStarted, Team: team, Public: true})
	if c.cfg.Debug {
		log.Printf("turns: round %d turn %d: team %d planning\n", c.round, c.turn, team)
	}
}

func (c *Controller) endTurn() {
	pl := c.players[c.current]
	pl.HasEndedTurn = true
	c.recorder.Emit(events.Event{Kind: events.KindTurnEnded, Team: pl.Team, Public: true})
	c.nextTurn()
}

// nextTurn hands planning to the next player who hasn't ended their turn.
// When there is nobody left to plan, the turn is played.
func (c *Controller) nextTurn() {
	for i := 1; i <= len(c.players); i++ {
		n := (c.current + i) % len(c.players)
		if pl := c.players[n]; !pl.HasEndedTurn && !pl.Surrendered {
			c.current = n
			c.startTurn()
			return
		}
	}
	c.playTurn()
}

// playTurn starts the first step of every piece with an order, whatever its
// team, so opposing pieces move at the same time.
func (c *Controller) playTurn() {
	c.phase = Playing
	c.moved = false
	c.recorder.Emit(events.Event{Kind: events.KindTurnPlaying, Team: -1, Public: true})
	if c.cfg.Debug {
		log.Printf("turns: round %d turn %d: playing\n", c.round, c.turn)
	}
	for _, id := range c.ids {
		if p := c.pieces[id]; p.State == pieces.HasAction && p.DoAction() {
			c.moved = true
		}
	}
}

// stopTurn applies the stop-turn policy to every piece, then ends the match,
// opens another turn in this round, or starts the next round. A round lasts
// while the last turn moved something and some piece can still move.
func (c *Controller) stopTurn() {
	for _, id := range c.ids {
		c.pieces[id].OnStopTurn()
	}
	c.recorder.Emit(events.Event{Kind: events.KindTurnStopped, Team: -1, Public: true})
	if c.checkGameOver() {
		return
	}
	if c.moved && c.canStillMove() {
		c.openTurn()
		return
	}
	c.startRound()
}

// canStillMove reports whether a standing team has a piece with movement left.
func (c *Controller) canStillMove() bool {
	for _, id := range c.ids {
		p := c.pieces[id]
		if pl := c.player(p.Team); pl == nil || pl.Surrendered {
			continue
		}
		if p.Alive() && p.CanMove && p.RemainingMovement > 0 {
			return true
		}
	}
	return false
}

// checkGameOver ends the match when at most one team is still standing.
func (c *Controller) checkGameOver() bool {
	var standing []visibility.TeamID
	for _, pl := range c.players {
		if !pl.Surrendered && c.livePieces(pl.Team) > 0 {
			standing = append(standing, pl.Team)
		}
	}
	if len(standing) > 1 {
		return false
	}
	c.phase = Over
	c.winner = -1
	if len(standing) == 1 {
		c.winner = standing[0]
	}
	c.recorder.Emit(events.Event{Kind: events.KindGameOver, Team: c.winner, Note: fmt.Sprintf("winner %d", c.winner), Public: true})
	if c.cfg.Debug {
		log.Printf("turns: round %d turn %d: game over, winner %d\n", c.round, c.turn, c.winner)
	}
	return true
}
