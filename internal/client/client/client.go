// Package client talks to the TaskTracker backend.
//
// GRPCClient keeps the session tokens, injects the access token into every
// call and refreshes it once when the server reports it expired. gRPC status
// codes are mapped to the sentinel errors in errors.go.
//
// InitDatabase opens the local SQLite store where the CLI keeps its session.
package client

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/client/models"
)

// Client is the transport-agnostic API contract used by the CLI services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	// Resume starts a session from a stored refresh token.
	Resume(ctx context.Context, refreshToken string) error
	// RefreshToken returns the current refresh token, "" without a session.
	RefreshToken() string

	ListTasks(ctx context.Context) ([]*models.Task, error)
	CreateTask(ctx context.Context, title, description string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	AttachTask(ctx context.Context, id string) (string, error)
	GetAttachment(ctx context.Context, id string) (string, error)
}
