package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore is the production Store, backed by three tables: rooms,
// members (never pruned individually — only via cascade), and gameState
// (the full serialized Game plus room-level bookkeeping).
type PostgresStore struct {
	db *sql.DB
}

// Open connects to databaseURL and ensures the schema exists.
func Open(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			code TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			code TEXT NOT NULL REFERENCES rooms(code) ON DELETE CASCADE,
			pid TEXT NOT NULL,
			name TEXT NOT NULL,
			is_ai BOOLEAN NOT NULL DEFAULT false,
			PRIMARY KEY (code, pid)
		)`,
		`CREATE TABLE IF NOT EXISTS game_state (
			code TEXT PRIMARY KEY REFERENCES rooms(code) ON DELETE CASCADE,
			game_json JSONB NOT NULL,
			last_round_json JSONB,
			last_turn_json JSONB,
			round_banner_turns_left INTEGER NOT NULL DEFAULT 0,
			options_json JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SaveRoom upserts rec, each member, and state inside one transaction.
func (s *PostgresStore) SaveRoom(rec RoomRecord, members []MemberRecord, state GameStateRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rooms (code, status, winner, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET status = $2, winner = $3`,
		rec.Code, rec.Status, rec.Winner, rec.CreatedAt)
	if err != nil {
		return err
	}

	for _, m := range members {
		_, err = tx.Exec(`
			INSERT INTO members (code, pid, name, is_ai)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code, pid) DO UPDATE SET name = $3, is_ai = $4`,
			m.Code, m.Pid, m.Name, m.IsAI)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO game_state (code, game_json, last_round_json, last_turn_json, round_banner_turns_left, options_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			game_json = $2, last_round_json = $3, last_turn_json = $4,
			round_banner_turns_left = $5, options_json = $6, updated_at = $7`,
		state.Code, state.GameJSON, state.LastRoundJSON, state.LastTurnJSON,
		state.RoundBannerTurnsLeft, state.OptionsJSON, state.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadRooms loads every room for boot recovery.
func (s *PostgresStore) LoadRooms() ([]PersistedRoom, error) {
	rows, err := s.db.Query(`SELECT code, status, winner, created_at FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PersistedRoom
	for rows.Next() {
		var rec RoomRecord
		if err := rows.Scan(&rec.Code, &rec.Status, &rec.Winner, &rec.CreatedAt); err != nil {
			return nil, err
		}
		members, err := s.loadMembers(rec.Code)
		if err != nil {
			return nil, err
		}
		state, err := s.loadGameState(rec.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, PersistedRoom{Room: rec, Members: members, State: state})
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadMembers(code string) ([]MemberRecord, error) {
	rows, err := s.db.Query(`SELECT code, pid, name, is_ai FROM members WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberRecord
	for rows.Next() {
		var m MemberRecord
		if err := rows.Scan(&m.Code, &m.Pid, &m.Name, &m.IsAI); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *PostgresStore) loadGameState(code string) (GameStateRecord, error) {
	var state GameStateRecord
	state.Code = code
	row := s.db.QueryRow(`
		SELECT game_json, last_round_json, last_turn_json, round_banner_turns_left, options_json, updated_at
		FROM game_state WHERE code = $1`, code)
	err := row.Scan(&state.GameJSON, &state.LastRoundJSON, &state.LastTurnJSON,
		&state.RoundBannerTurnsLeft, &state.OptionsJSON, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return state, nil
	}
	return state, err
}

func (s *PostgresStore) DeleteRoom(code string) error {
	_, err := s.db.Exec(`DELETE FROM rooms WHERE code = $1`, code)
	return err
}

func (s *PostgresStore) TransitionStalePlaying(cutoff time.Time) error {
	_, err := s.db.Exec(`UPDATE rooms SET status = 'finished' WHERE status = 'playing' AND created_at < $1`, cutoff)
	return err
}

func (s *PostgresStore) DeleteStaleWaiting(cutoff time.Time) error {
	_, err := s.db.Exec(`DELETE FROM rooms WHERE status = 'waiting' AND created_at < $1`, cutoff)
	return err
}

func (s *PostgresStore) Close() error { return s.db.Close() }
