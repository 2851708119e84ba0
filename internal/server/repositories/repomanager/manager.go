package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/seniko/internal/dbx"
	"github.com/dmitrijs2005/seniko/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction and owns the schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
