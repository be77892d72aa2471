package query

import (
	"strings"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
)

// Interpretation describes how a query was understood, for example
// "Interpreted as: Damian Lillard 3PT field goals made game winner during
// the 2018-19 season against the Oklahoma City Thunder".
func Interpretation(in Intent) string {
	var parts []string

	if in.Player != "" {
		parts = append(parts, lexicon.Title(in.Player))
	}

	var shots []string
	for _, s := range in.Shots {
		shots = append(shots, string(s))
	}
	var actions []string
	for _, c := range in.Categories {
		actions = append(actions, c.Action())
	}
	action := strings.Join(actions, " and ")
	if len(shots) > 0 {
		action = strings.TrimSpace(strings.Join(shots, " ") + " " + action)
	}
	if action != "" {
		parts = append(parts, action)
	}

	if in.Score != "" {
		parts = append(parts, in.Score.Phrase())
	}
	if in.LongRange {
		parts = append(parts, "from long range")
	}
	if in.SeasonType != "" && in.SeasonType != lexicon.RegularSeason {
		parts = append(parts, "in the "+string(in.SeasonType))
	}
	if name := lexicon.MonthName(in.Month); name != "" {
		parts = append(parts, "in "+name)
	}
	if in.Season != "" {
		parts = append(parts, "during the "+in.Season+" season")
	}
	if in.Team != "" {
		parts = append(parts, "against the "+lexicon.Title(in.Team))
	}
	if in.Clutch != "" {
		parts = append(parts, "in "+string(in.Clutch))
	}

	if len(parts) == 0 {
		return "No specific interpretation available"
	}
	return "Interpreted as: " + strings.Join(parts, " ")
}
