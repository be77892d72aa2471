package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/reddy-lalith/PlayDex/internal/storage"
)

type seedSummary struct {
	Target     string `json:"target"`
	Players    int    `json:"players"`
	Teams      int    `json:"teams"`
	Roster     int    `json:"roster"`
	KnownPlays int    `json:"known_plays"`
	Took       string `json:"took"`
}

func newSeedCmd() *cobra.Command {
	var (
		target string
		dsn    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy the embedded reference data into a database",
		Long: `Seed writes the built-in players, teams, roster history and known plays
into SQLite or PostgreSQL, replacing existing rows. Point reference.source at
the same database to serve searches from it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dialect, dsn, err := seedTarget(target, dsn)
			if err != nil {
				return err
			}

			ds, err := storage.EmbeddedDataset()
			if err != nil {
				return err
			}

			store, err := storage.OpenSQLStore(ctx, dialect, dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			ui := NewUI(cmd.OutOrStdout(), outputJSON, noColor)
			bars := map[string]*mpb.Bar{
				"players":        ui.SeedBar("players", int64(len(ds.Players))),
				"teams":          ui.SeedBar("teams", int64(len(ds.Teams))),
				"roster_history": ui.SeedBar("roster", int64(len(ds.Roster))),
				"known_plays":    ui.SeedBar("known plays", int64(len(ds.KnownPlays))),
			}

			start := time.Now()
			err = store.SeedWithProgress(ctx, ds, func(table string, done, total int) {
				if bar := bars[table]; bar != nil {
					bar.SetCurrent(int64(done))
				}
			})
			for _, bar := range bars {
				if bar != nil && !bar.Completed() {
					bar.Abort(false)
				}
			}
			ui.Close()
			if err != nil {
				return fmt.Errorf("seed %s: %w", dialect, err)
			}

			summary := seedSummary{
				Target:     string(dialect),
				Players:    len(ds.Players),
				Teams:      len(ds.Teams),
				Roster:     len(ds.Roster),
				KnownPlays: len(ds.KnownPlays),
				Took:       FormatDuration(time.Since(start)),
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			ui.Success("Seeded %s in %s", summary.Target, summary.Took)
			ui.Table([]string{"Table", "Rows"}, [][]string{
				{"players", fmt.Sprint(summary.Players)},
				{"teams", fmt.Sprint(summary.Teams)},
				{"roster_history", fmt.Sprint(summary.Roster)},
				{"known_plays", fmt.Sprint(summary.KnownPlays)},
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "sqlite", "database to seed: sqlite or postgres")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database path or DSN (default from config)")
	return cmd
}

// seedTarget picks the dialect and DSN, falling back to the configured
// reference database.
func seedTarget(target, dsn string) (storage.Dialect, string, error) {
	switch strings.ToLower(target) {
	case "sqlite", "sqlite3":
		if dsn == "" {
			dsn = cfg.Reference.SQLitePath
		}
		return storage.DialectSQLite, dsn, nil
	case "postgres", "postgresql":
		if dsn == "" {
			dsn = cfg.Reference.PostgresDSN
		}
		if dsn == "" {
			return "", "", fmt.Errorf("postgres target needs --dsn or reference.postgres_dsn")
		}
		return storage.DialectPostgres, dsn, nil
	default:
		return "", "", fmt.Errorf("unknown seed target %q", target)
	}
}
