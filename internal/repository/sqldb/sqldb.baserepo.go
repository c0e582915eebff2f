// FilePath: internal/repository/sqldb/sqldb.baserepo.go
package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/relaymon/relayhub/internal/database"
	"github.com/relaymon/relayhub/internal/errors"
)

// BaseRepo holds the shared handle and per-call connection scoping
type BaseRepo struct {
	db database.DB
}

// withConn runs fn on a connection that is released on every exit path.
func (r *BaseRepo) withConn(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	var fnErr error
	err := database.WithConn(ctx, r.db, func(conn *sqlx.Conn) error {
		fnErr = fn(conn)
		return fnErr
	})
	if err != nil && fnErr == nil {
		return errors.NewInternalError("Database connection error", err)
	}
	return err
}

// rebind converts '?' placeholders to the driver's bind style.
func (r *BaseRepo) rebind(query string) string {
	return r.db.GetDB().Rebind(query)
}

func (r *BaseRepo) driver() string {
	return r.db.Driver()
}
