// Package storage persists accounts and tasks in a single SQLite file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"tasktrack-api/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	user_id INTEGER NOT NULL REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
`

// Store implements persistence over SQLite. A single file holds both tables
// so account and task writes share the same transaction boundaries.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite store at path and creates the schema when missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateAccount inserts a new account. A uniqueness violation on email rolls
// back and surfaces as domain.ErrEmailTaken so no partial write survives.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string) (domain.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin tx: %w", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO users (email, hashed_password) VALUES (?, ?)`, email, passwordHash)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return domain.Account{}, fmt.Errorf("account id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Account{}, fmt.Errorf("commit account: %w", err)
	}

	return domain.Account{ID: id, Email: email, PasswordHash: passwordHash}, nil
}

// AccountByEmail looks up an account by exact email match.
func (s *Store) AccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	var account domain.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, hashed_password FROM users WHERE email = ?`, email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("query account: %w", err)
	}
	return account, nil
}

// CreateTask inserts a task owned by userID and returns it with its assigned id.
func (s *Store) CreateTask(ctx context.Context, userID int64, description string, completed bool) (domain.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (description, completed, user_id) VALUES (?, ?, ?)`,
		description, completed, userID,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, fmt.Errorf("task id: %w", err)
	}
	return domain.Task{ID: id, Description: description, Completed: completed, UserID: userID}, nil
}

// TasksByOwner returns every task owned by userID in insertion order.
func (s *Store) TasksByOwner(ctx context.Context, userID int64) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, completed, user_id FROM tasks WHERE user_id = ? ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Description, &task.Completed, &task.UserID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask overwrites description and completed on the task owned by
// userID. Rows are matched by id and owner together so a guessed id belonging
// to another account reads as absent.
func (s *Store) UpdateTask(ctx context.Context, userID, taskID int64, description string, completed bool) (domain.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET description = ?, completed = ? WHERE id = ? AND user_id = ?`,
		description, completed, taskID, userID,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task result: %w", err)
	}
	if affected == 0 {
		return domain.Task{}, domain.ErrNotFound
	}
	return domain.Task{ID: taskID, Description: description, Completed: completed, UserID: userID}, nil
}

// DeleteTask removes the task owned by userID. Missing or foreign rows
// surface as domain.ErrNotFound.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueViolation detects SQLite unique-constraint failures on insert.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
