package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/friendbook/internal/dbx"
	"github.com/dmitrijs2005/friendbook/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a pool or a transaction
// and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
