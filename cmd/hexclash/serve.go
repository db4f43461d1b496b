// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/model"
	"github.com/mdhender/hexclash/stores/sqlite"
	"github.com/mdhender/hexclash/turns"
	"github.com/mdhender/hexclash/web/auth"
	"github.com/mdhender/hexclash/web/handlers"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr       string
	dbPath     string
	rosterFile string
	mapFile    string
	width      int
	height     int
	seed       uint64
	turnTimer  time.Duration
	tickRate   time.Duration
	sessionTTL time.Duration
	strict     bool
	timeout    time.Duration
	debug      bool
}

func cmdServe() *cobra.Command {
	opts := serveOptions{
		addr:       ":8787",
		width:      16,
		height:     12,
		seed:       1,
		turnTimer:  turns.DefaultConfig().TurnTimer,
		tickRate:   turns.DefaultConfig().TickRate,
		sessionTTL: 24 * time.Hour,
	}
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "HTTP listen address")
		cmd.Flags().StringVar(&opts.dbPath, "db", opts.dbPath, "SQLite database file path (empty = in-memory)")
		cmd.Flags().StringVar(&opts.rosterFile, "roster", opts.rosterFile, "match roster file (JSON)")
		cmd.Flags().StringVar(&opts.mapFile, "map", opts.mapFile, "map file (overrides the roster's map)")
		cmd.Flags().IntVar(&opts.width, "width", opts.width, "columns on a generated board")
		cmd.Flags().IntVar(&opts.height, "height", opts.height, "rows on a generated board")
		cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed for a generated board")
		cmd.Flags().DurationVar(&opts.turnTimer, "turn-timer", opts.turnTimer, "planning time per turn (0 = no limit)")
		cmd.Flags().DurationVar(&opts.tickRate, "tick-rate", opts.tickRate, "simulation tick interval")
		cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", opts.sessionTTL, "how long a player session lasts")
		cmd.Flags().BoolVar(&opts.strict, "strict", opts.strict, "panic on visibility ledger underflow")
		cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "auto-shutdown after duration (e.g., 5s, 1m)")
		return cmd.MarkFlagRequired("roster")
	}
	var cmd = &cobra.Command{
		Use:          "serve",
		Short:        "run a match and serve it over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.debug, _ = cmd.Flags().GetBool("debug")
			return runServe(opts)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func runServe(opts serveOptions) error {
	fs := afero.NewOsFs()
	roster, err := sqlite.ReadRoster(fs, opts.rosterFile)
	if err != nil {
		return err
	}

	var store *sqlite.Store
	if opts.dbPath != "" {
		// file-based mode: database must already exist (created by init-db command)
		log.Printf("store: using file-based SQLite: %s", opts.dbPath)
		store, err = sqlite.NewStoreWithConfig(sqlite.StoreConfig{Path: opts.dbPath})
	} else {
		log.Printf("store: using in-memory SQLite")
		store, err = sqlite.NewStore()
	}
	if err != nil {
		return fmt.Errorf("failed to create SQLite store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.GetMatch(ctx, roster.ID); err == nil {
		return fmt.Errorf("match %s already exists in %s", roster.ID, opts.dbPath)
	} else if !errors.Is(err, model.ErrNotFound) {
		return err
	}
	match, err := store.LoadRoster(ctx, roster)
	if err != nil {
		return err
	}

	cfg := turns.DefaultConfig()
	cfg.Teams = match.Teams
	cfg.TurnTimer = opts.turnTimer
	cfg.TickRate = opts.tickRate
	cfg.Strict = opts.strict
	cfg.Debug = opts.debug
	c := turns.New(cfg, board.Generate(board.DefaultGenerateConfig(opts.width, opts.height, opts.seed)))

	mapFile := opts.mapFile
	if mapFile == "" {
		mapFile = match.MapPath
	}
	if mapFile != "" {
		if err := c.LoadMap(fs, mapFile); err != nil {
			return err
		}
		log.Printf("match %s: map %s", match.ID, mapFile)
	} else {
		log.Printf("match %s: generated %d x %d map, seed %d", match.ID, opts.width, opts.height, opts.seed)
	}

	journal := store.Journal(match.ID)
	defer journal.Close()
	c.Recorder().AddJournal(journal.Record)
	if err := c.DefaultLineup(); err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}

	sessions := auth.NewSessionStore(opts.sessionTTL)
	h := handlers.New(store, sessions)
	h.AddMatch(match.ID, c)

	server := &http.Server{
		Addr:         opts.addr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() {
		if err := c.Run(runCtx); err == nil {
			winner, _ := c.Winner()
			log.Printf("match %s: game over, winner %d", match.ID, winner)
		}
	}()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					log.Printf("sessions: dropped %d expired", n)
				}
			}
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	if opts.timeout > 0 {
		go func() {
			log.Printf("server: will auto-shutdown in %v", opts.timeout)
			time.Sleep(opts.timeout)
			log.Printf("server: timeout reached, initiating shutdown")
			shutdown <- os.Interrupt
		}()
	}

	go func() {
		log.Printf("server: listening on %s", opts.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
		}
	}()

	<-shutdown
	log.Printf("server: shutting down gracefully")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown error: %w", err)
	}

	stats := store.Stats()
	log.Printf("store: %d matches, %d players, %d orders, %d events", stats.Matches, stats.Players, stats.Orders, stats.Events)
	log.Printf("server: stopped")
	return nil
}
