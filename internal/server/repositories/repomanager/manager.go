// Package repomanager groups the per-entity repositories of one storage
// backend behind a single handle: schema setup, transactions, health and
// shutdown.
package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

// Repositories vends the entity repositories of a backend.
type Repositories interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Tasks() tasks.Repository
}

// RepositoryManager is a storage backend.
type RepositoryManager interface {
	Repositories

	// RunMigrations brings the schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error

	// WithTx runs fn with repositories bound to a single unit of work.
	// Backends without multi-document transactions run fn directly.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Open selects a backend by the DSN scheme: postgres:// (or postgresql://),
// mongodb:// (or mongodb+srv://) and memory://.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid dsn: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return OpenPostgres(dsn)
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, dsn)
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported dsn scheme %q", u.Scheme)
	}
}
