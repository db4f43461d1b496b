// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mdhender/hexclash"
	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/events"
	"github.com/mdhender/hexclash/stores/sqlite"
	"github.com/mdhender/hexclash/visibility"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "hexclash",
		Short: "Hex skirmish match server",
		Long:  `Run matches, build maps and manage the match database`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("hexclash: version %q\n", hexclash.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdServe())
	cmdRoot.AddCommand(cmdMap())
	cmdRoot.AddCommand(cmdInitDB())
	cmdRoot.AddCommand(cmdCompactDB())
	cmdRoot.AddCommand(cmdJournal())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func cmdMap() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "map",
		Short: "Build and inspect map files",
	}
	cmd.AddCommand(cmdMapGenerate())
	cmd.AddCommand(cmdMapInfo())
	return cmd
}

func cmdMapGenerate() *cobra.Command {
	width, height := 16, 12
	var seed uint64 = 1
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().IntVar(&width, "width", width, "columns on the board")
		cmd.Flags().IntVar(&height, "height", height, "rows on the board")
		cmd.Flags().Uint64Var(&seed, "seed", seed, "random seed")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "map file to create")
		return cmd.MarkFlagRequired("output")
	}
	var cmd = &cobra.Command{
		Use:          "generate",
		Short:        "generate a random map file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")
			if width < 1 || height < 1 {
				return fmt.Errorf("map: width and height must be positive")
			}
			g := board.Generate(board.DefaultGenerateConfig(width, height, seed))
			if err := board.SaveMap(afero.NewOsFs(), outputFile, g); err != nil {
				return err
			}
			if !quiet {
				log.Printf("%s: %d x %d map, seed %d\n", outputFile, width, height, seed)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdMapInfo() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "info <map-file>",
		Short:        "summarize a map file",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			g, err := board.LoadMap(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			terrain := map[board.Terrain]int{}
			edges := map[board.EdgeKind]int{}
			explorable := 0
			for _, c := range g.Coords() {
				cell := g.CellAt(c)
				terrain[cell.Terrain]++
				if cell.Explorable {
					explorable++
				}
				for _, e := range cell.Edges {
					edges[e]++
				}
			}
			fmt.Printf("%s: %d x %d, %d cells, %d explorable\n", args[0], g.Width(), g.Height(), g.Len(), explorable)
			for t := board.Plain; t <= board.Water; t++ {
				fmt.Printf("  %-8s %6d\n", t, terrain[t])
			}
			if verbose {
				for e := board.Flat; e <= board.Cliff; e++ {
					fmt.Printf("  %-8s %6d edges\n", e, edges[e])
				}
			}
			return nil
		},
	}
	return cmd
}

func cmdInitDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "init-db <database-file>",
		Short:        "create a new match database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sqlite.InitDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("%s: created\n", args[0])
			return nil
		},
	}
	return cmd
}

func cmdCompactDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "compact-db <database-file>",
		Short:        "checkpoint and vacuum a match database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sqlite.CompactDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("%s: compacted\n", args[0])
			return nil
		},
	}
	return cmd
}

func cmdJournal() *cobra.Command {
	var dbPath, matchID string
	var since uint64
	team := -1
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "match database file")
		cmd.Flags().StringVar(&matchID, "match", matchID, "match identifier")
		cmd.Flags().Uint64Var(&since, "since", since, "print events after this sequence number")
		cmd.Flags().IntVar(&team, "team", team, "print only what this team saw (-1 for everything)")
		if err := cmd.MarkFlagRequired("db"); err != nil {
			return err
		}
		return cmd.MarkFlagRequired("match")
	}
	var cmd = &cobra.Command{
		Use:          "journal",
		Short:        "print a match's event journal as JSON lines",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.NewStoreWithConfig(sqlite.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer store.Close()
			list, err := store.Events(context.Background(), matchID, since)
			if err != nil {
				return err
			}
			if team >= 0 {
				list = events.Filter(list, visibility.TeamID(team))
			}
			enc := json.NewEncoder(os.Stdout)
			for _, e := range list {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(hexclash.Version().String())
				return nil
			}
			fmt.Println(hexclash.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
