package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEmbedded(t *testing.T) *Reference {
	t.Helper()
	ds, err := EmbeddedDataset()
	require.NoError(t, err)
	ref, err := NewReference(*ds)
	require.NoError(t, err)
	return ref
}

func TestEmbeddedDatasetIsConsistent(t *testing.T) {
	ref := loadEmbedded(t)
	ds := ref.Dataset()

	names := map[string]bool{}
	for _, p := range ds.Players {
		assert.NotZero(t, p.ID)
		assert.False(t, names[p.Name], "duplicate player %q", p.Name)
		names[p.Name] = true
	}

	phrases := map[string]int64{}
	for _, team := range ds.Teams {
		for _, p := range team.Phrases() {
			if prev, ok := phrases[p]; ok {
				t.Errorf("team phrase %q used by %d and %d", p, prev, team.ID)
			}
			phrases[p] = team.ID
		}
	}
	assert.Len(t, ds.Teams, 30)

	for _, e := range ds.Roster {
		_, ok := ref.TeamByID(e.TeamID)
		assert.True(t, ok, "roster entry %+v references unknown team", e)
	}
	for _, k := range ds.KnownPlays {
		_, ok := ref.PlayerByID(k.PlayerID)
		assert.True(t, ok, "known play %s references unknown player", k.GameID)
	}
}

func TestReferenceLookups(t *testing.T) {
	ref := loadEmbedded(t)

	p, ok := ref.PlayerByName("Damian Lillard")
	require.True(t, ok)
	assert.Equal(t, int64(203081), p.ID)
	assert.Equal(t, "damian", p.FirstName())
	assert.Equal(t, "lillard", p.LastName())

	_, ok = ref.PlayerByName("nobody special")
	assert.False(t, ok)

	team, ok := ref.TeamByPhrase("Blazers")
	require.True(t, ok)
	assert.Equal(t, int64(1610612757), team.ID)

	team, ok = ref.TeamByPhrase("golden state warriors")
	require.True(t, ok)
	assert.Equal(t, "GSW", team.Abbreviation)

	_, ok = ref.TeamByPhrase("gsw")
	assert.False(t, ok, "abbreviations are display only")

	teamID, ok := ref.RosterTeam(203081, "2018-19")
	require.True(t, ok)
	assert.Equal(t, int64(1610612757), teamID)

	_, ok = ref.RosterTeam(2544, "2015-16")
	assert.False(t, ok)
}

func TestKnownPlaysNewestFirst(t *testing.T) {
	ref := loadEmbedded(t)
	plays := ref.KnownPlays(203081)
	require.Len(t, plays, 2)
	assert.Equal(t, "2019-04-23", plays[0].Date)
	assert.Equal(t, "2014-05-02", plays[1].Date)
	assert.True(t, plays[0].HasTag("GW"))
	assert.Empty(t, ref.KnownPlays(1629056))
}

func TestNewReferenceRejectsEmpty(t *testing.T) {
	_, err := NewReference(Dataset{})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestDialectRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", DialectPostgres.Rebind(q))
}

func TestEmbeddedSource(t *testing.T) {
	ds, err := EmbeddedSource{}.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Players)
}
