package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reddy-lalith/PlayDex/internal/app"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/search"
)

func newSearchCmd() *cobra.Command {
	var (
		offset int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for clips",
		Example: `  playdex search "Dame buzzer beaters 2019"
  playdex search "curry step back threes vs the rockets" --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Search.RequestDeadline+30*time.Second)
			defer cancel()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ui := NewUI(cmd.OutOrStdout(), outputJSON, noColor)
			interactive := !outputJSON && IsTerminal()

			spin := NewSpinner("Searching...")
			if interactive {
				spin.Start()
			}
			scan := NewScanProgress(interactive, spin.Stop)

			start := time.Now()
			resp, err := a.Search.Search(ctx, search.Request{
				Query:    strings.Join(args, " "),
				Offset:   offset,
				Limit:    limit,
				Progress: scan.Report,
			})
			scan.Finish()
			if interactive {
				spin.Stop()
			}
			ui.Close()
			if err != nil {
				return err
			}

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printResponse(ui, resp, time.Since(start))
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "page size (default from config)")
	return cmd
}

func printResponse(ui *UI, resp *search.Response, took time.Duration) {
	ui.Section("Results")
	ui.KeyValue("Interpretation", resp.Interpretation)
	ui.KeyValue("Strategy", resp.Strategy)
	ui.KeyValue("Took", FormatDuration(took))
	for _, insight := range resp.Insights {
		ui.Info("%s", insight)
	}
	if resp.Partial {
		ui.Warning("Search deadline reached; results may be incomplete")
	}
	if len(resp.Results) == 0 {
		return
	}

	fmt.Fprintln(ui.out)
	ui.Table([]string{"#", "Date", "Matchup", "Q", "Clock", "Play"}, resultRows(resp))
	fmt.Fprintln(ui.out)
	for i, r := range resp.Results {
		link := r.VideoURL
		if link == "" {
			link = r.Links.NBAStats
		}
		ui.Step("%d. %s", resp.Offset+i+1, link)
	}
	if resp.HasMore {
		ui.Info("More clips available: --offset %d", resp.Offset+len(resp.Results))
	}
}

func resultRows(resp *search.Response) [][]string {
	rows := make([][]string, 0, len(resp.Results))
	for i, r := range resp.Results {
		rows = append(rows, []string{
			strconv.Itoa(resp.Offset + i + 1),
			r.Metadata.Date,
			r.Metadata.Matchup,
			strconv.Itoa(r.Metadata.Quarter),
			r.Metadata.TimeRemaining,
			Truncate(r.Description, 60),
		})
	}
	return rows
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <query>",
		Short: "Show how a query is interpreted without searching",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			parsed, err := a.Search.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), parsed)
			}
			ui := NewUI(cmd.OutOrStdout(), false, noColor)
			defer ui.Close()
			printParsed(ui, parsed)
			return nil
		},
	}
}

func printParsed(ui *UI, p query.Parsed) {
	in := p.Intent
	ui.Section("Query")
	ui.KeyValue("Input", p.Query)
	ui.KeyValue("Normalized", p.Normalized)
	ui.KeyValue("Interpretation", p.Interpretation)

	ui.Section("Intent")
	ui.KeyValue("Player", in.Player)
	if in.PlayerID != 0 {
		ui.KeyValue("Player ID", in.PlayerID)
	}
	ui.KeyValue("Team", in.Team)
	ui.KeyValue("Season", in.Season)
	ui.KeyValue("Season type", in.SeasonType)
	if in.Month != "" && in.Month != lexicon.NoMonth {
		ui.KeyValue("Month", lexicon.MonthName(in.Month))
	}
	ui.KeyValue("Categories", joinOf(in.Categories))
	ui.KeyValue("Shots", joinOf(in.Shots))
	ui.KeyValue("Score", in.Score)
	ui.KeyValue("Clutch", in.Clutch)
	if in.LongRange {
		ui.KeyValue("Long range", true)
	}
}

func joinOf[T ~string](vals []T) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
