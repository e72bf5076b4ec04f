// Package repomanager owns the storage backend of the server: it opens the
// database, applies migrations and vends repositories bound to it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/crtrstudio/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}
