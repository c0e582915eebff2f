// FilePath: internal/repository/sqldb/sqldb.schema.go
package sqldb

import (
	"context"

	"github.com/relaymon/relayhub/internal/config"
	"github.com/relaymon/relayhub/internal/database"
	"github.com/relaymon/relayhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS tbl_dht11 (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		device_id VARCHAR(64) NOT NULL,
		temperature DOUBLE NOT NULL,
		humidity DOUBLE NOT NULL,
		relay_status VARCHAR(16) NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_dht11_timestamp (timestamp)
	)`,
	`CREATE TABLE IF NOT EXISTS tbl_threshold (
		id INT PRIMARY KEY,
		temp_threshold DOUBLE NOT NULL,
		hum_threshold DOUBLE NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS tbl_dht11 (
		id BIGSERIAL PRIMARY KEY,
		device_id TEXT NOT NULL,
		temperature DOUBLE PRECISION NOT NULL,
		humidity DOUBLE PRECISION NOT NULL,
		relay_status TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dht11_timestamp ON tbl_dht11 (timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS tbl_threshold (
		id INTEGER PRIMARY KEY,
		temp_threshold DOUBLE PRECISION NOT NULL,
		hum_threshold DOUBLE PRECISION NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	postgresThresholdAddID,
}

// Tables created before the singleton key existed have no id column. Adding it
// numbers the existing rows 1..n, so row 1 becomes the one updates overwrite.
const (
	mysqlThresholdHasID = `
	SELECT COUNT(*) FROM information_schema.columns
	WHERE table_schema = DATABASE() AND table_name = 'tbl_threshold' AND column_name = 'id'`
	mysqlThresholdAddID    = `ALTER TABLE tbl_threshold ADD COLUMN id INT NOT NULL AUTO_INCREMENT PRIMARY KEY FIRST`
	postgresThresholdAddID = `ALTER TABLE tbl_threshold ADD COLUMN IF NOT EXISTS id SERIAL PRIMARY KEY`
)

// InitializeSchema creates tbl_dht11 and tbl_threshold when they do not exist yet
// and adds the id key to a tbl_threshold that predates it.
func InitializeSchema(ctx context.Context, db database.DB) error {
	queries := mysqlSchema
	if db.Driver() == config.DriverPostgres {
		queries = postgresSchema
	}

	for _, query := range queries {
		if _, err := db.GetDB().ExecContext(ctx, query); err != nil {
			return errors.NewInternalError("failed to initialize schema", err)
		}
	}

	if db.Driver() == config.DriverMySQL {
		if err := addMySQLThresholdID(ctx, db); err != nil {
			return err
		}
	}

	nuts.L.Infof("[Database] Schema ensured for %s", db.Driver())
	return nil
}

// MySQL has no ADD COLUMN IF NOT EXISTS.
func addMySQLThresholdID(ctx context.Context, db database.DB) error {
	var count int
	if err := db.GetDB().GetContext(ctx, &count, mysqlThresholdHasID); err != nil {
		return errors.NewInternalError("failed to inspect tbl_threshold", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := db.GetDB().ExecContext(ctx, mysqlThresholdAddID); err != nil {
		return errors.NewInternalError("failed to add id to tbl_threshold", err)
	}
	nuts.L.Infof("[Database] Added singleton key to legacy tbl_threshold")
	return nil
}
