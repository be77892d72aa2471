package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/retrieval"
	"github.com/reddy-lalith/PlayDex/internal/search"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputJSON, verbose, noColor, cfgFile = false, false, false, ""

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseCommandJSON(t *testing.T) {
	out, err := runCLI(t, "parse", "--json", "Dame", "buzzer", "beaters", "2017")
	require.NoError(t, err)

	var parsed struct {
		Intent struct {
			PlayerID int64  `json:"playerId"`
			Score    string `json:"score"`
		} `json:"intent"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, int64(203081), parsed.Intent.PlayerID)
	assert.Equal(t, "BB", parsed.Intent.Score)
}

func TestSeedCommandSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.db")
	out, err := runCLI(t, "seed", "--json", "--dsn", path)
	require.NoError(t, err)

	var summary seedSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "sqlite3", summary.Target)
	assert.Positive(t, summary.Players)

	ref, err := storage.LoadReference(t.Context(), config.ReferenceConfig{Source: "sqlite", SQLitePath: path})
	require.NoError(t, err)
	assert.Len(t, ref.Players(), summary.Players)
}

func TestSeedTarget(t *testing.T) {
	cfg = config.DefaultConfig()

	d, dsn, err := seedTarget("sqlite", "")
	require.NoError(t, err)
	assert.Equal(t, storage.DialectSQLite, d)
	assert.Equal(t, cfg.Reference.SQLitePath, dsn)

	_, _, err = seedTarget("postgres", "")
	assert.Error(t, err)

	d, dsn, err = seedTarget("postgres", "postgres://localhost/playdex")
	require.NoError(t, err)
	assert.Equal(t, storage.DialectPostgres, d)
	assert.Equal(t, "postgres://localhost/playdex", dsn)

	_, _, err = seedTarget("mysql", "")
	assert.Error(t, err)
}

func TestFilterPlayersAndTeams(t *testing.T) {
	ds, err := storage.EmbeddedDataset()
	require.NoError(t, err)

	players := filterPlayers(ds.Players, "lillard")
	require.Len(t, players, 1)
	assert.Equal(t, "Damian Lillard", players[0].DisplayName)
	assert.Len(t, filterPlayers(ds.Players, ""), len(ds.Players))

	teams := filterTeams(ds.Teams, "celtics")
	require.Len(t, teams, 1)
	assert.Equal(t, int64(1610612738), teams[0].ID)
}

func TestTableAlignsColumns(t *testing.T) {
	var out bytes.Buffer
	ui := &UI{out: &out, noColor: true}
	ui.Table([]string{"#", "Play"}, [][]string{{"1", "Lillard 37' 3PT"}, {"10", "Dončić dunk"}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
	assert.Contains(t, lines[3], "Lillard 37' 3PT")
}

func TestJSONModeIsSilent(t *testing.T) {
	var out bytes.Buffer
	ui := &UI{out: &out, jsonMode: true}
	ui.Success("done")
	ui.Section("results")
	ui.Table([]string{"a"}, [][]string{{"b"}})
	assert.Empty(t, out.String())
}

func TestResultRows(t *testing.T) {
	resp := &search.Response{
		Offset: 15,
		Results: []retrieval.SearchResult{{
			Description: strings.Repeat("x", 80),
			Metadata:    retrieval.Metadata{Date: "2019-04-23", Matchup: "POR vs. OKC", Quarter: 4, TimeRemaining: "0:00"},
		}},
	}
	rows := resultRows(resp)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"16", "2019-04-23", "POR vs. OKC", "4", "0:00"}, rows[0][:5])
	assert.Len(t, []rune(rows[0][5]), 60)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.0m", FormatDuration(2*time.Minute))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
}

func TestScanProgressDisabled(t *testing.T) {
	called := false
	p := NewScanProgress(false, func() { called = true })
	p.Report(1, 10)
	p.Finish()
	assert.False(t, called)
}

func TestCacheClearCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "clear", "--json")
	require.NoError(t, err)

	var resp struct {
		Driver  string `json:"driver"`
		Removed int    `json:"removed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "memory", resp.Driver)
	assert.Zero(t, resp.Removed)
}
