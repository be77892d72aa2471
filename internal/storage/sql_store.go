package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Dialect identifies the SQL flavour behind a store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore keeps reference data in SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLStore opens a store for the given dialect and DSN and applies the
// schema.
func OpenSQLStore(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Migrate creates the reference tables if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Seed replaces the stored reference data with ds in one transaction.
func (s *SQLStore) Seed(ctx context.Context, ds *Dataset) error {
	return s.SeedWithProgress(ctx, ds, nil)
}

// SeedProgress is called after each row is written with the table name,
// rows done and rows total for that table.
type SeedProgress func(table string, done, total int)

// SeedWithProgress is Seed with a per-row callback.
func (s *SQLStore) SeedWithProgress(ctx context.Context, ds *Dataset, progress SeedProgress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"players", "teams", "roster_history", "known_plays"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	report := func(table string, done, total int) {
		if progress != nil {
			progress(table, done, total)
		}
	}

	playerSQL := s.dialect.Rebind(`INSERT INTO players (id, position, name, display_name, nicknames) VALUES (?, ?, ?, ?, ?)`)
	for i, p := range ds.Players {
		nicks, err := encodeList(p.Nicknames)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, playerSQL, p.ID, i, p.Name, p.DisplayName, nicks); err != nil {
			return fmt.Errorf("insert player %d: %w", p.ID, err)
		}
		report("players", i+1, len(ds.Players))
	}

	teamSQL := s.dialect.Rebind(`INSERT INTO teams (id, position, name, nickname, abbreviation, aliases) VALUES (?, ?, ?, ?, ?, ?)`)
	for i, t := range ds.Teams {
		aliases, err := encodeList(t.Aliases)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, teamSQL, t.ID, i, t.Name, t.Nickname, t.Abbreviation, aliases); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
		report("teams", i+1, len(ds.Teams))
	}

	rosterSQL := s.dialect.Rebind(`INSERT INTO roster_history (player_id, season, team_id) VALUES (?, ?, ?)`)
	for i, e := range ds.Roster {
		if _, err := tx.ExecContext(ctx, rosterSQL, e.PlayerID, e.Season, e.TeamID); err != nil {
			return fmt.Errorf("insert roster %d/%s: %w", e.PlayerID, e.Season, err)
		}
		report("roster_history", i+1, len(ds.Roster))
	}

	knownSQL := s.dialect.Rebind(`INSERT INTO known_plays
		(game_id, event_num, player_id, play_date, description, period, clock, matchup, action, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, k := range ds.KnownPlays {
		tags, err := encodeList(k.Tags)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, knownSQL, k.GameID, k.EventNum, k.PlayerID, k.Date,
			k.Description, k.Period, k.Clock, k.Matchup, k.Action, tags); err != nil {
			return fmt.Errorf("insert known play %s/%d: %w", k.GameID, k.EventNum, err)
		}
		report("known_plays", i+1, len(ds.KnownPlays))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// Load reads the full dataset, preserving player and team order.
func (s *SQLStore) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, display_name, nicknames FROM players ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	for rows.Next() {
		var p Player
		var nicks string
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName, &nicks); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan player: %w", err)
		}
		if p.Nicknames, err = decodeList(nicks); err != nil {
			rows.Close()
			return nil, err
		}
		ds.Players = append(ds.Players, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, nickname, abbreviation, aliases FROM teams ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	for rows.Next() {
		var t Team
		var aliases string
		if err := rows.Scan(&t.ID, &t.Name, &t.Nickname, &t.Abbreviation, &aliases); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan team: %w", err)
		}
		if t.Aliases, err = decodeList(aliases); err != nil {
			rows.Close()
			return nil, err
		}
		ds.Teams = append(ds.Teams, t)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT player_id, season, team_id FROM roster_history ORDER BY player_id, season`)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(&e.PlayerID, &e.Season, &e.TeamID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan roster: %w", err)
		}
		ds.Roster = append(ds.Roster, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT game_id, event_num, player_id, play_date, description,
		period, clock, matchup, action, tags FROM known_plays ORDER BY play_date DESC, game_id, event_num`)
	if err != nil {
		return nil, fmt.Errorf("query known plays: %w", err)
	}
	for rows.Next() {
		var k KnownPlay
		var tags string
		if err := rows.Scan(&k.GameID, &k.EventNum, &k.PlayerID, &k.Date, &k.Description,
			&k.Period, &k.Clock, &k.Matchup, &k.Action, &tags); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan known play: %w", err)
		}
		if k.Tags, err = decodeList(tags); err != nil {
			rows.Close()
			return nil, err
		}
		ds.KnownPlays = append(ds.KnownPlays, k)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	if len(ds.Players) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

// PlayerByName reads a single player row.
func (s *SQLStore) PlayerByName(ctx context.Context, name string) (*Player, error) {
	query := s.dialect.Rebind(`SELECT id, name, display_name, nicknames FROM players WHERE name = ?`)
	p := &Player{}
	var nicks string
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(name)).Scan(&p.ID, &p.Name, &p.DisplayName, &nicks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Nicknames, err = decodeList(nicks); err != nil {
		return nil, err
	}
	return p, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
