// Package sqlitestore persists the workspace in a local SQLite file.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"

	_ "modernc.org/sqlite"
)

type WorkspaceRepository struct {
	db *sql.DB
}

var _ contract.WorkspaceRepository = &WorkspaceRepository{}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*WorkspaceRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &WorkspaceRepository{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS workspace_items (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			parent_id TEXT,
			kind TEXT NOT NULL,
			doc_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_workspace_items_position ON workspace_items(position);`,
		`CREATE INDEX IF NOT EXISTS idx_workspace_items_parent ON workspace_items(parent_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (r *WorkspaceRepository) FetchAll(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc_json FROM workspace_items ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch workspace: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Item, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var it entity.Item
		if err := json.Unmarshal([]byte(doc), &it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *WorkspaceRepository) ReplaceAll(ctx context.Context, items []*entity.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM workspace_items`); err != nil {
		return fmt.Errorf("clear workspace: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO workspace_items(id, position, parent_id, kind, doc_json) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		doc, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", it.Id, err)
		}
		var parent any
		if it.ParentId != nil {
			parent = *it.ParentId
		}
		if _, err := stmt.ExecContext(ctx, it.Id, i, parent, string(it.Kind), string(doc)); err != nil {
			return fmt.Errorf("write item %s: %w", it.Id, err)
		}
	}
	return tx.Commit()
}

func (r *WorkspaceRepository) Close() error {
	return r.db.Close()
}
