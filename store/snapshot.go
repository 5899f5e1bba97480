// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/snapshot.go
// Summary: SQLite-backed persistence for panel layout snapshots.
//
// A snapshot captures the layout of every panel: position, size, z order
// and flags. Content is not stored; collaborators repaint after a restore.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// PanelState is one panel's persisted layout.
type PanelState struct {
	ID          int64
	Y, X        int
	H, W        int
	Z           int
	Visible     bool
	Transparent bool
}

// Snapshot is a full layout capture, ordered by panel ID (creation order).
type Snapshot struct {
	Panels []PanelState
}

const snapshotSchemaVersion = 1

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS panels (
    id INTEGER PRIMARY KEY,
    y INTEGER NOT NULL,
    x INTEGER NOT NULL,
    h INTEGER NOT NULL,
    w INTEGER NOT NULL,
    z INTEGER NOT NULL,
    visible INTEGER NOT NULL DEFAULT 1,
    transparent INTEGER NOT NULL DEFAULT 0
);
`

// SnapshotStore persists layout snapshots in a SQLite database.
type SnapshotStore struct {
	db *sql.DB
}

// Open creates or opens a snapshot database, creating parent directories as
// needed.
func Open(path string) (*SnapshotStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := db.Exec(
		"INSERT OR IGNORE INTO schema_version (version) VALUES (?)",
		snapshotSchemaVersion,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Save replaces the stored snapshot with s in one transaction.
func (s *SnapshotStore) Save(snap Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM panels"); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO panels (id, y, x, h, w, z, visible, transparent) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range snap.Panels {
		if _, err := stmt.Exec(
			p.ID, p.Y, p.X, p.H, p.W, p.Z,
			boolToInt(p.Visible), boolToInt(p.Transparent),
		); err != nil {
			return fmt.Errorf("failed to insert panel %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot. The second result is false when no
// snapshot has ever been saved.
func (s *SnapshotStore) Load() (Snapshot, bool, error) {
	rows, err := s.db.Query(
		"SELECT id, y, x, h, w, z, visible, transparent FROM panels ORDER BY id")
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var snap Snapshot
	for rows.Next() {
		var p PanelState
		var visible, transparent int
		if err := rows.Scan(&p.ID, &p.Y, &p.X, &p.H, &p.W, &p.Z, &visible, &transparent); err != nil {
			return Snapshot{}, false, fmt.Errorf("failed to scan panel row: %w", err)
		}
		p.Visible = visible != 0
		p.Transparent = transparent != 0
		snap.Panels = append(snap.Panels, p)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read snapshot rows: %w", err)
	}

	return snap, len(snap.Panels) > 0, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
