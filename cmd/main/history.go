package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS generation_runs (
    run_id         TEXT PRIMARY KEY,
    created_at     TEXT NOT NULL,
    window_length  INTEGER NOT NULL,
    seed           INTEGER,
    initial_text   TEXT NOT NULL,
    target_length  INTEGER NOT NULL,
    output_length  INTEGER NOT NULL,
    output         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generation_runs_created_at ON generation_runs(created_at);
`

// historyTimeLayout is fixed width so that timestamps sort as text.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// GenerationRecord is one stored generation. Only generated text is kept,
// never the model itself.
type GenerationRecord struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	WindowLength int       `json:"window_length"`
	Seed         *int64    `json:"seed,omitempty"`
	InitialText  string    `json:"initial_text"`
	TargetLength int       `json:"target_length"`
	Output       string    `json:"output"`
}

// HistoryStore records generations in SQLite.
type HistoryStore struct {
	db         *sql.DB
	stmtInsert *sql.Stmt
	stmtRecent *sql.Stmt
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create history directory: %w", err)
	}
	db, err := openHistoryDB(path)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create history schema: %w", err)
	}

	stmtInsert, err := db.Prepare(`INSERT INTO generation_runs (run_id, created_at, window_length, seed, initial_text, target_length, output_length, output) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	stmtRecent, err := db.Prepare(`SELECT run_id, created_at, window_length, seed, initial_text, target_length, output FROM generation_runs ORDER BY created_at DESC, rowid DESC LIMIT ?;`)
	if err != nil {
		_ = stmtInsert.Close()
		_ = db.Close()
		return nil, err
	}

	return &HistoryStore{db: db, stmtInsert: stmtInsert, stmtRecent: stmtRecent}, nil
}

// Close releases the prepared statements and the database.
func (h *HistoryStore) Close() error {
	_ = h.stmtInsert.Close()
	_ = h.stmtRecent.Close()
	return h.db.Close()
}

// Record stores rec, assigning it a fresh ID and timestamp, and returns the
// stored record.
func (h *HistoryStore) Record(ctx context.Context, rec GenerationRecord) (GenerationRecord, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	var seed sql.NullInt64
	if rec.Seed != nil {
		seed = sql.NullInt64{Int64: *rec.Seed, Valid: true}
	}

	_, err := h.stmtInsert.ExecContext(ctx,
		rec.ID,
		rec.CreatedAt.Format(historyTimeLayout),
		rec.WindowLength,
		seed,
		rec.InitialText,
		rec.TargetLength,
		len([]rune(rec.Output)),
		rec.Output,
	)
	if err != nil {
		return GenerationRecord{}, fmt.Errorf("could not record generation: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]GenerationRecord, error) {
	rows, err := h.stmtRecent.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var records []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		var createdAt string
		var seed sql.NullInt64
		if err = rows.Scan(&rec.ID, &createdAt, &rec.WindowLength, &seed, &rec.InitialText, &rec.TargetLength, &rec.Output); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = time.Parse(historyTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("bad timestamp for run %s: %w", rec.ID, err)
		}
		if seed.Valid {
			s := seed.Int64
			rec.Seed = &s
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
