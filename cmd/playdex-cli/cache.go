package main

import (
	"github.com/spf13/cobra"

	"github.com/reddy-lalith/PlayDex/internal/app"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop cached search results",
		Long: `Clear removes every cached candidate list so the next search for each
query goes upstream again. Only useful with the redis cache driver; the
memory cache lives and dies with the API process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Orchestrator.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"driver": cfg.Cache.Driver, "removed": n})
			}
			ui := NewUI(cmd.OutOrStdout(), false, noColor)
			defer ui.Close()
			ui.Success("Removed %d cached searches (%s)", n, cfg.Cache.Driver)
			return nil
		},
	})
	return cmd
}
