// Package tasks declares the task store contract and its Postgres, MongoDB
// and in-memory implementations.
//
// Update and delete are owner-conditional writes. When such a write matches
// nothing, the store looks the id up once more so that callers can tell a
// missing task (common.ErrorNotFound) from a foreign one (common.ErrorForbidden).
package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists tasks.
type Repository interface {
	// Create stores a new task and returns it with the store-assigned ID
	// and timestamps.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// ListByOwner returns the owner's tasks in insertion order. The result is
	// never nil.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)

	// Get returns the task by ID or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Task, error)

	// UpdateOwned applies patch to the task if it belongs to ownerID and
	// returns the merged task.
	UpdateOwned(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error)

	// DeleteOwned removes the task if it belongs to ownerID.
	DeleteOwned(ctx context.Context, ownerID, id string) error
}
