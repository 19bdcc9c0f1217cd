// Package models defines the client-side view of users and tasks.
package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a task as returned by the server.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Done reports whether the task is completed.
func (t *Task) Done() bool {
	return t.Status == StatusCompleted
}

// TaskPatch carries the fields of an update; nil fields are not sent.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// User is the signed-in account.
type User struct {
	ID    string
	Name  string
	Email string
}
