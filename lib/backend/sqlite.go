package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pthm/hxtodo/lib/api"
)

// SQLiteStore persists todos in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the todos table at path.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS todos (
		id integer not null primary key autoincrement,
		content text not null default '',
		status text not null default ''
		)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	slog.Info("Ensured todos table exists", "path", path)
	return &SQLiteStore{db: db}, nil
}

// List returns all todos ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]api.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, status FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "err", err)
		}
	}(rows)

	todos := []api.Todo{}
	for rows.Next() {
		var t api.Todo
		if err := rows.Scan(&t.ID, &t.Content, &t.Status); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Create inserts a todo and returns it with its assigned id.
func (s *SQLiteStore) Create(ctx context.Context, t api.NewTodo) (api.Todo, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (content, status) VALUES (?, ?)`,
		t.Content, string(t.Status),
	)
	if err != nil {
		return api.Todo{}, fmt.Errorf("failed to insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Todo{}, err
	}
	return api.Todo{ID: int(id), Content: t.Content, Status: t.Status}, nil
}

// Update merges the non-nil patch fields into a todo.
func (s *SQLiteStore) Update(ctx context.Context, id int, p api.Patch) (api.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return api.Todo{}, err
	}
	defer tx.Rollback()

	var t api.Todo
	err = tx.QueryRowContext(ctx, `SELECT id, content, status FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Content, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Todo{}, ErrNotFound
	}
	if err != nil {
		return api.Todo{}, err
	}

	t = applyPatch(t, p)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET content = ?, status = ? WHERE id = ?`,
		t.Content, string(t.Status), id,
	); err != nil {
		return api.Todo{}, fmt.Errorf("failed to update: %w", err)
	}
	return t, tx.Commit()
}

// Delete removes a todo.
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
