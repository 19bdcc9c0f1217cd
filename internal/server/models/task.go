// Package models defines server-side data models persisted by the stores.
package models

import "time"

// TaskStatus is the two-value task state. Any transition is allowed.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Task is a single to-do item. OwnerID is set once at creation from the
// authenticated caller and never changes.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      TaskStatus

	// AttachmentKey is the object-storage key of the task attachment, if any.
	AttachmentKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskPatch carries a partial update. Nil fields are left untouched.
// There is deliberately no owner or id field.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *TaskStatus
	AttachmentKey *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.AttachmentKey == nil
}

// Apply merges the present fields of p into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AttachmentKey != nil {
		t.AttachmentKey = *p.AttachmentKey
	}
}
