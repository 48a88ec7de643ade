package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS combat_logs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	journal    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS combat_logs_created ON combat_logs (created_at DESC);
CREATE TABLE IF NOT EXISTS sim_runs (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	iterations INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	input      TEXT NOT NULL,
	result     TEXT NOT NULL
);`

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("open sqlite: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) SaveCombatLog(ctx context.Context, name string, journal json.RawMessage) (CombatLog, error) {
	rec := CombatLog{ID: newID(), Name: name, CreatedAt: now(), Journal: journal}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO combat_logs (id, name, created_at, journal) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.CreatedAt.UnixNano(), string(journal))
	if err != nil {
		return CombatLog{}, fmt.Errorf("insert combat log: %w", err)
	}
	return rec, nil
}

func (s *SQLite) GetCombatLog(ctx context.Context, id string) (CombatLog, error) {
	var (
		rec     CombatLog
		created int64
		journal string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, journal FROM combat_logs WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Name, &created, &journal)
	if errors.Is(err, sql.ErrNoRows) {
		return CombatLog{}, ErrNotFound
	}
	if err != nil {
		return CombatLog{}, fmt.Errorf("get combat log %s: %w", id, err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	rec.Journal = json.RawMessage(journal)
	return rec, nil
}

func (s *SQLite) ListCombatLogs(ctx context.Context, limit int) ([]CombatLogSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM combat_logs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list combat logs: %w", err)
	}
	defer rows.Close()

	out := []CombatLogSummary{}
	for rows.Next() {
		var (
			sum     CombatLogSummary
			created int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &created); err != nil {
			return nil, fmt.Errorf("scan combat log: %w", err)
		}
		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLite) SaveSimRun(ctx context.Context, run SimRun) (SimRun, error) {
	run.ID = newID()
	run.CreatedAt = now()
	input, err := json.Marshal(run.Input)
	if err != nil {
		return SimRun{}, fmt.Errorf("encode sim input: %w", err)
	}
	result, err := json.Marshal(run.Result)
	if err != nil {
		return SimRun{}, fmt.Errorf("encode sim result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sim_runs (id, created_at, iterations, seed, input, result) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Iterations, run.Seed, string(input), string(result))
	if err != nil {
		return SimRun{}, fmt.Errorf("insert sim run: %w", err)
	}
	return run, nil
}

func (s *SQLite) GetSimRun(ctx context.Context, id string) (SimRun, error) {
	var (
		run           SimRun
		created       int64
		input, result string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, iterations, seed, input, result FROM sim_runs WHERE id = ?`, id).
		Scan(&run.ID, &created, &run.Iterations, &run.Seed, &input, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return SimRun{}, ErrNotFound
	}
	if err != nil {
		return SimRun{}, fmt.Errorf("get sim run %s: %w", id, err)
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(input), &run.Input); err != nil {
		return SimRun{}, fmt.Errorf("decode sim input: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &run.Result); err != nil {
		return SimRun{}, fmt.Errorf("decode sim result: %w", err)
	}
	return run, nil
}

func (s *SQLite) Close() error { return s.db.Close() }
