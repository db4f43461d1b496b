// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package turns

import "time"

// Config controls the pace of a match.
type Config struct {
	// Teams is the number of players. Teams are numbered from zero.
	Teams int
	// TurnTimer ends a player's planning phase when it runs out. Zero disables it.
	TurnTimer time.Duration
	// TickRate is how often Run advances the simulation.
	TickRate time.Duration
	// TickStep is the simulated time, in seconds, that one tick covers.
	TickStep float64
	// MaxTicks bounds Settle. A turn that needs more ticks is reported as stuck.
	MaxTicks int
	// Strict makes visibility underflows panic. Tests and debug builds want this.
	Strict bool
	// Debug logs turn transitions.
	Debug bool
}

// DefaultConfig returns the configuration for a two-player match.
func DefaultConfig() Config {
	return Config{
		Teams:     2,
		TurnTimer: 90 * time.Second,
		TickRate:  50 * time.Millisecond,
		TickStep:  0.05,
		MaxTicks:  10_000,
	}
}
