// FilePath: internal/repository/sqldb/sqldb.readings.go
package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/relaymon/relayhub/internal/database"
	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
)

const listReadingsQuery = `
	SELECT device_id, temperature, humidity, relay_status, timestamp
	FROM tbl_dht11
	WHERE timestamp BETWEEN ? AND ?
	ORDER BY timestamp DESC`

type ReadingRepo struct {
	BaseRepo
}

// NewReadingRepository creates a tbl_dht11 backed reading repository
func NewReadingRepository(db database.DB) *ReadingRepo {
	return &ReadingRepo{BaseRepo{db: db}}
}

func (r *ReadingRepo) ListByRange(ctx context.Context, rng models.DateRange) ([]models.Reading, error) {
	readings := []models.Reading{}

	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		stmt, err := conn.PreparexContext(ctx, r.rebind(listReadingsQuery))
		if err != nil {
			return errors.NewDBPrepareError("Database preparation error", err)
		}
		defer stmt.Close()

		if err := stmt.SelectContext(ctx, &readings, rng.Lower(), rng.Upper()); err != nil {
			return errors.NewDBExecError("Database execution error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return readings, nil
}
