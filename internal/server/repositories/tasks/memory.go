package tasks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps tasks in process memory. A single mutex makes each
// check-and-write atomic.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
	order []string
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[string]*models.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *task
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.tasks[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, id := range r.order {
		if t := r.tasks[id]; t.OwnerID == ownerID {
			out := *t
			result = append(result, &out)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (r *MemoryRepository) UpdateOwned(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.owned(ownerID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(t)
	t.UpdatedAt = r.now()

	out := *t
	return &out, nil
}

func (r *MemoryRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owned(ownerID, id); err != nil {
		return err
	}

	delete(r.tasks, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

// owned must be called with r.mu held.
func (r *MemoryRepository) owned(ownerID, id string) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if t.OwnerID != ownerID {
		return nil, common.ErrorForbidden
	}
	return t, nil
}

// Snapshot copies the current state and returns a func that puts it back.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	saved := make(map[string]*models.Task, len(r.tasks))
	for k, v := range r.tasks {
		t := *v
		saved[k] = &t
	}
	order := slices.Clone(r.order)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.tasks, r.order = saved, order
	}
}
