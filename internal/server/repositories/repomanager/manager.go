package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/skywatch/internal/dbx"
	"github.com/dmitrijs2005/skywatch/internal/server/repositories/alerts"
	"github.com/dmitrijs2005/skywatch/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Alerts(db dbx.DBTX) alerts.Repository
}
