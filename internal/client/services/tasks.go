package services

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/dmitrijs2005/tasktracker/internal/netx"
)

// Transfer seams.
var (
	uploadFn   = netx.UploadToS3PresignedURL
	downloadFn = netx.DownloadFromS3PresignedURL
)

type TaskService interface {
	List(ctx context.Context) ([]*models.Task, error)
	Create(ctx context.Context, title, description string) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	SetDone(ctx context.Context, id string, done bool) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	// Attach uploads the file at path as the task attachment.
	Attach(ctx context.Context, id, path string) error
	// Fetch downloads the task attachment into path and returns its size.
	Fetch(ctx context.Context, id, path string) (int64, error)
}

type taskService struct {
	client client.Client
}

func NewTaskService(c client.Client) TaskService {
	return &taskService{client: c}
}

func (s *taskService) List(ctx context.Context) ([]*models.Task, error) {
	return s.client.ListTasks(ctx)
}

func (s *taskService) Create(ctx context.Context, title, description string) (*models.Task, error) {
	return s.client.CreateTask(ctx, title, description)
}

func (s *taskService) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	return s.client.UpdateTask(ctx, id, patch)
}

func (s *taskService) SetDone(ctx context.Context, id string, done bool) (*models.Task, error) {
	st := models.StatusPending
	if done {
		st = models.StatusCompleted
	}
	return s.client.UpdateTask(ctx, id, models.TaskPatch{Status: &st})
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteTask(ctx, id)
}

func (s *taskService) Attach(ctx context.Context, id, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	url, err := s.client.AttachTask(ctx, id)
	if err != nil {
		return err
	}
	return uploadFn(ctx, url, data)
}

func (s *taskService) Fetch(ctx context.Context, id, path string) (int64, error) {
	url, err := s.client.GetAttachment(ctx, id)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := downloadFn(ctx, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}
