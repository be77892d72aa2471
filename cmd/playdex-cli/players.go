package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

func newPlayersCmd() *cobra.Command {
	var teams bool

	cmd := &cobra.Command{
		Use:   "players [filter]",
		Short: "List the players and teams queries can name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := storage.LoadReference(cmd.Context(), cfg.Reference)
			if err != nil {
				return err
			}
			filter := ""
			if len(args) == 1 {
				filter = lexicon.Fold(args[0])
			}

			ui := NewUI(cmd.OutOrStdout(), outputJSON, noColor)
			defer ui.Close()

			if teams {
				list := filterTeams(ref.Teams(), filter)
				if outputJSON {
					return writeJSON(cmd.OutOrStdout(), list)
				}
				rows := make([][]string, 0, len(list))
				for _, t := range list {
					rows = append(rows, []string{t.Abbreviation, lexicon.Title(t.Name), strings.Join(t.Aliases, ", ")})
				}
				ui.Table([]string{"Abbr", "Team", "Aliases"}, rows)
				return nil
			}

			list := filterPlayers(ref.Players(), filter)
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{fmt.Sprint(p.ID), p.DisplayName, strings.Join(p.Nicknames, ", ")})
			}
			ui.Table([]string{"ID", "Player", "Nicknames"}, rows)
			ui.Info("%d players", len(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&teams, "teams", false, "list teams instead of players")
	return cmd
}

// filterPlayers keeps players whose name or nickname contains filter,
// sorted by display name.
func filterPlayers(all []storage.Player, filter string) []storage.Player {
	out := make([]storage.Player, 0, len(all))
	for _, p := range all {
		if filter == "" || strings.Contains(p.Name, filter) || containsAny(p.Nicknames, filter) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

func filterTeams(all []storage.Team, filter string) []storage.Team {
	out := make([]storage.Team, 0, len(all))
	for _, t := range all {
		if filter == "" || containsAny(t.Phrases(), filter) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func containsAny(vals []string, sub string) bool {
	for _, v := range vals {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}
