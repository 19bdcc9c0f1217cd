package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. It is used by
// tests and by the memory:// DSN.
type MemoryRepositoryManager struct {
	txMu          sync.Mutex
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	tasks         *tasks.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		tasks:         tasks.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository                 { return m.users }
func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.refreshTokens }
func (m *MemoryRepositoryManager) Tasks() tasks.Repository                 { return m.tasks }

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

// WithTx serializes units of work against each other. When fn fails every
// store is restored to its state before the call.
func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	restore := []func(){m.users.Snapshot(), m.refreshTokens.Snapshot(), m.tasks.Snapshot()}
	if err := fn(ctx, m); err != nil {
		for _, r := range restore {
			r()
		}
		return err
	}
	return nil
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }
func (m *MemoryRepositoryManager) Close() error                   { return nil }
