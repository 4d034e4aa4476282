package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id           TEXT PRIMARY KEY,
	slug         TEXT UNIQUE,
	admin_id     TEXT NOT NULL DEFAULT '',
	canvas_state TEXT NOT NULL DEFAULT '[]',
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);`

// SQLite stores rooms in a single SQLite table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path with WAL
// journaling and a busy timeout, and applies the schema. Use ":memory:" in
// tests.
func OpenSQLite(path string) (*SQLite, error) {
	memory := path == ":memory:"
	if !memory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if memory {
		// every new connection to :memory: is a fresh empty database
		db.SetMaxOpenConns(1)
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Read(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT canvas_state FROM rooms WHERE id = ?`, roomID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", roomID, ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", roomID, err)
	}
	return parseCanvas([]byte(data)), nil
}

func (s *SQLite) Write(ctx context.Context, roomID string, shapes []json.RawMessage) error {
	data, err := encodeCanvas(shapes)
	if err != nil {
		return fmt.Errorf("write %s: %w", roomID, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET canvas_state = ?, updated_at = ? WHERE id = ?`,
		string(data), time.Now().UnixMilli(), roomID)
	if err != nil {
		return fmt.Errorf("write %s: %w", roomID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("write %s: %w", roomID, ErrRoomNotFound)
	}
	return nil
}

func (s *SQLite) CreateRoom(ctx context.Context, room Room) error {
	now := time.Now().UnixMilli()
	var slug any
	if room.Slug != "" {
		slug = room.Slug
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, slug, admin_id, canvas_state, created_at, updated_at) VALUES (?, ?, ?, '[]', ?, ?)`,
		room.ID, slug, room.AdminID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("create room %s: %w", room.ID, ErrRoomExists)
		}
		return fmt.Errorf("create room %s: %w", room.ID, err)
	}
	return nil
}

func (s *SQLite) RoomBySlug(ctx context.Context, slug string) (Room, error) {
	var r Room
	var dbSlug sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, admin_id FROM rooms WHERE slug = ?`, slug).
		Scan(&r.ID, &dbSlug, &r.AdminID)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, fmt.Errorf("room %q: %w", slug, ErrRoomNotFound)
	}
	if err != nil {
		return Room{}, fmt.Errorf("room %q: %w", slug, err)
	}
	r.Slug = dbSlug.String
	return r, nil
}
