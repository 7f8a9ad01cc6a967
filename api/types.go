package api

import (
	"context"

	"tasktrack-api/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (domain.Account, error)
	CreateTask(ctx context.Context, userID int64, description string, completed bool) (domain.Task, error)
	TasksByOwner(ctx context.Context, userID int64) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, description string, completed bool) (domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

// Credentials is implemented by types able to hash passwords and mint and
// verify the bearer tokens presented on task routes.
type Credentials interface {
	HashPassword(password string) (string, error)
	CheckPassword(password, digest string) bool
	IssueToken(email string) (string, error)
	EmailFromAuthHeader(header string) (string, error)
}
