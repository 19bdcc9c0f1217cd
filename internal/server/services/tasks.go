// Package services holds the server business logic: identity and the task
// access rules. Callers pass the authenticated user id explicitly.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// ErrNoAttachment is returned for a task without an attachment. It matches
// common.ErrorNotFound.
var ErrNoAttachment = fmt.Errorf("attachment %w", common.ErrorNotFound)

// TaskService enforces that a user can only see and change their own tasks.
type TaskService struct {
	repos     repomanager.Repositories
	presigner Presigner
}

func NewTaskService(repos repomanager.Repositories, presigner Presigner) *TaskService {
	return &TaskService{repos: repos, presigner: presigner}
}

// storeError keeps ownership sentinels and marks everything else internal.
func storeError(id string, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorForbidden) {
		return fmt.Errorf("task %s: %w", id, err)
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}

// List returns the caller's tasks in creation order. The slice is never nil.
func (s *TaskService) List(ctx context.Context, uid string) ([]*models.Task, error) {
	list, err := s.repos.Tasks().ListByOwner(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if list == nil {
		list = []*models.Task{}
	}
	return list, nil
}

// Create stores a new task owned by uid. An empty status means pending.
func (s *TaskService) Create(ctx context.Context, uid, title, description string, status models.TaskStatus) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorInvalidInput)
	}
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorInvalidInput, status)
	}

	task, err := s.repos.Tasks().Create(ctx, &models.Task{
		OwnerID:     uid,
		Title:       title,
		Description: description,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return task, nil
}

// Update applies the present fields of patch to a task owned by uid. The
// attachment key is not client-settable and is dropped from the patch.
func (s *TaskService) Update(ctx context.Context, uid, id string, patch models.TaskPatch) (*models.Task, error) {
	patch.AttachmentKey = nil

	if err := normalizePatch(&patch); err != nil {
		// a missing or foreign task wins over bad input
		if _, ownErr := s.owned(ctx, uid, id); ownErr != nil {
			return nil, ownErr
		}
		return nil, err
	}

	if patch.IsEmpty() {
		return s.owned(ctx, uid, id)
	}

	task, err := s.repos.Tasks().UpdateOwned(ctx, uid, id, patch)
	if err != nil {
		return nil, storeError(id, err)
	}
	return task, nil
}

// Delete removes a task owned by uid and returns its id.
func (s *TaskService) Delete(ctx context.Context, uid, id string) (string, error) {
	if err := s.repos.Tasks().DeleteOwned(ctx, uid, id); err != nil {
		return "", storeError(id, err)
	}
	return id, nil
}

// Attach assigns a fresh storage key to the task and returns it together with
// a presigned upload URL. A previous attachment is replaced.
func (s *TaskService) Attach(ctx context.Context, uid, id string) (string, string, error) {
	if _, err := s.owned(ctx, uid, id); err != nil {
		return "", "", err
	}

	key := NewStorageKey()
	url, err := s.presigner.PresignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("%w: presign put: %w", common.ErrorInternal, err)
	}

	if _, err := s.repos.Tasks().UpdateOwned(ctx, uid, id, models.TaskPatch{AttachmentKey: &key}); err != nil {
		return "", "", storeError(id, err)
	}
	return key, url, nil
}

// Attachment returns a presigned download URL for the task attachment.
func (s *TaskService) Attachment(ctx context.Context, uid, id string) (string, error) {
	task, err := s.owned(ctx, uid, id)
	if err != nil {
		return "", err
	}
	if task.AttachmentKey == "" {
		return "", fmt.Errorf("task %s: %w", id, ErrNoAttachment)
	}

	url, err := s.presigner.PresignGet(ctx, task.AttachmentKey)
	if err != nil {
		return "", fmt.Errorf("%w: presign get: %w", common.ErrorInternal, err)
	}
	return url, nil
}

func normalizePatch(patch *models.TaskPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return fmt.Errorf("%w: title must not be empty", common.ErrorInvalidInput)
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorInvalidInput, *patch.Status)
	}
	return nil
}

func (s *TaskService) owned(ctx context.Context, uid, id string) (*models.Task, error) {
	task, err := s.repos.Tasks().Get(ctx, id)
	if err != nil {
		return nil, storeError(id, err)
	}
	if task.OwnerID != uid {
		return nil, fmt.Errorf("task %s: %w", id, common.ErrorForbidden)
	}
	return task, nil
}
