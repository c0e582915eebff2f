// FilePath: internal/repository/sqldb/sqldb.thresholds.go
package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/relaymon/relayhub/internal/config"
	"github.com/relaymon/relayhub/internal/database"
	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/repository"
)

const latestThresholdQuery = `
	SELECT temp_threshold, hum_threshold, timestamp
	FROM tbl_threshold
	ORDER BY timestamp DESC
	LIMIT 1`

const upsertThresholdMySQL = `
	INSERT INTO tbl_threshold (id, temp_threshold, hum_threshold, timestamp)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		temp_threshold = VALUES(temp_threshold),
		hum_threshold = VALUES(hum_threshold),
		timestamp = VALUES(timestamp)`

const upsertThresholdPostgres = `
	INSERT INTO tbl_threshold (id, temp_threshold, hum_threshold, timestamp)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		temp_threshold = EXCLUDED.temp_threshold,
		hum_threshold = EXCLUDED.hum_threshold,
		timestamp = EXCLUDED.timestamp`

type ThresholdRepo struct {
	BaseRepo
}

// NewThresholdRepository creates a tbl_threshold backed threshold repository
func NewThresholdRepository(db database.DB) *ThresholdRepo {
	return &ThresholdRepo{BaseRepo{db: db}}
}

func (r *ThresholdRepo) Latest(ctx context.Context) (*models.Threshold, error) {
	threshold := &models.Threshold{}

	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		err := conn.GetContext(ctx, threshold, r.rebind(latestThresholdQuery))
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("No thresholds found", repository.ErrNotFound)
		}
		if err != nil {
			return errors.NewDBExecError("Query failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return threshold, nil
}

// Upsert writes the singleton row. Rows with other ids are left untouched.
func (r *ThresholdRepo) Upsert(ctx context.Context, temp, hum float64, at time.Time) error {
	query := upsertThresholdMySQL
	if r.driver() == config.DriverPostgres {
		query = upsertThresholdPostgres
	}

	return r.withConn(ctx, func(conn *sqlx.Conn) error {
		stmt, err := conn.PreparexContext(ctx, r.rebind(query))
		if err != nil {
			return errors.NewDBPrepareError("Update failed", err).AsFailed()
		}
		defer stmt.Close()

		if _, err := stmt.ExecContext(ctx, models.ThresholdSingletonID, temp, hum, at); err != nil {
			return errors.NewDBExecError("Update failed", err).AsFailed()
		}
		return nil
	})
}
