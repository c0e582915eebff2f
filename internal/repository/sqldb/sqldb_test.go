package sqldb

import (
	"context"
	stderrors "errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/relaymon/relayhub/internal/config"
	"github.com/relaymon/relayhub/internal/database"
	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/repository"
)

func newMockDB(t *testing.T, driver string) (database.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return database.Wrap(sqlx.NewDb(raw, driver), driver), mock
}

func juneRange() models.DateRange {
	return models.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

var readingsSQL = regexp.QuoteMeta("FROM tbl_dht11 WHERE timestamp BETWEEN ? AND ? ORDER BY timestamp DESC")

func TestListByRangeBindsDayBounds(t *testing.T) {
	db, mock := newMockDB(t, config.DriverMySQL)
	repo := NewReadingRepository(db)

	newer := time.Date(2024, 6, 9, 18, 30, 0, 0, time.UTC)
	older := time.Date(2024, 6, 2, 7, 15, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"device_id", "temperature", "humidity", "relay_status", "timestamp"}).
		AddRow("dht11-a", 27.5, 61.0, "ON", newer).
		AddRow("dht11-a", 24.0, 70.0, "OFF", older)

	mock.ExpectPrepare(readingsSQL).
		ExpectQuery().
		WithArgs("2024-06-01 00:00:00", "2024-06-10 23:59:59").
		WillReturnRows(rows)

	readings, err := repo.ListByRange(context.Background(), juneRange())
	if err != nil {
		t.Fatalf("ListByRange returned error: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[0].RelayStatus != "ON" || !readings[0].Timestamp.Equal(newer) {
		t.Errorf("unexpected first reading %+v", readings[0])
	}
	if readings[1].Temperature != 24.0 || readings[1].Humidity != 70.0 {
		t.Errorf("unexpected second reading %+v", readings[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListByRangeRebindsForPostgres(t *testing.T) {
	db, mock := newMockDB(t, config.DriverPostgres)
	repo := NewReadingRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta("WHERE timestamp BETWEEN $1 AND $2")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"device_id", "temperature", "humidity", "relay_status", "timestamp"}))

	readings, err := repo.ListByRange(context.Background(), juneRange())
	if err != nil {
		t.Fatalf("ListByRange returned error: %v", err)
	}
	if readings == nil || len(readings) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", readings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListByRangeErrors(t *testing.T) {
	driverErr := stderrors.New("Table 'relay.tbl_dht11' doesn't exist")

	t.Run("prepare", func(t *testing.T) {
		db, mock := newMockDB(t, config.DriverMySQL)
		mock.ExpectPrepare(readingsSQL).WillReturnError(driverErr)

		_, err := NewReadingRepository(db).ListByRange(context.Background(), juneRange())
		apiErr := errors.As(err)
		if apiErr.Type != errors.ErrorTypeDBPrepare || apiErr.Code != http.StatusInternalServerError {
			t.Fatalf("expected db_prepare 500, got %s %d", apiErr.Type, apiErr.Code)
		}
		if !stderrors.Is(err, driverErr) {
			t.Error("expected driver error to be wrapped")
		}
	})

	t.Run("exec", func(t *testing.T) {
		db, mock := newMockDB(t, config.DriverMySQL)
		mock.ExpectPrepare(readingsSQL).ExpectQuery().WillReturnError(driverErr)

		_, err := NewReadingRepository(db).ListByRange(context.Background(), juneRange())
		if apiErr := errors.As(err); apiErr.Type != errors.ErrorTypeDBExec {
			t.Fatalf("expected db_exec, got %s", apiErr.Type)
		}
	})
}

var latestSQL = regexp.QuoteMeta("SELECT temp_threshold, hum_threshold, timestamp FROM tbl_threshold ORDER BY timestamp DESC LIMIT 1")

func TestLatestThreshold(t *testing.T) {
	db, mock := newMockDB(t, config.DriverMySQL)
	repo := NewThresholdRepository(db)

	stamp := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(latestSQL).WillReturnRows(
		sqlmock.NewRows([]string{"temp_threshold", "hum_threshold", "timestamp"}).AddRow(30.5, 60.0, stamp),
	)

	threshold, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if threshold.TempThreshold != 30.5 || threshold.HumThreshold != 60 {
		t.Errorf("unexpected threshold %+v", threshold)
	}
	if !threshold.Timestamp.Equal(stamp) {
		t.Errorf("expected timestamp %v, got %v", stamp, threshold.Timestamp.Time)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLatestThresholdNotFound(t *testing.T) {
	db, mock := newMockDB(t, config.DriverMySQL)
	mock.ExpectQuery(latestSQL).WillReturnRows(sqlmock.NewRows([]string{"temp_threshold", "hum_threshold", "timestamp"}))

	_, err := NewThresholdRepository(db).Latest(context.Background())
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		t.Error("expected repository.ErrNotFound in the chain")
	}
	if apiErr := errors.As(err); apiErr.Message != "No thresholds found" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestLatestThresholdQueryFailure(t *testing.T) {
	db, mock := newMockDB(t, config.DriverMySQL)
	mock.ExpectQuery(latestSQL).WillReturnError(stderrors.New("server has gone away"))

	_, err := NewThresholdRepository(db).Latest(context.Background())
	apiErr := errors.As(err)
	if apiErr.Type != errors.ErrorTypeDBExec || apiErr.Message != "Query failed" {
		t.Fatalf("expected db_exec Query failed, got %s %q", apiErr.Type, apiErr.Message)
	}
}

func TestUpsertThresholdDialects(t *testing.T) {
	at := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		driver string
		sql    string
	}{
		{config.DriverMySQL, "VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE"},
		{config.DriverPostgres, "VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO UPDATE SET"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db, mock := newMockDB(t, tt.driver)
			mock.ExpectPrepare(regexp.QuoteMeta(tt.sql)).
				ExpectExec().
				WithArgs(models.ThresholdSingletonID, 30.5, 60.0, at).
				WillReturnResult(sqlmock.NewResult(0, 1))

			if err := NewThresholdRepository(db).Upsert(context.Background(), 30.5, 60, at); err != nil {
				t.Fatalf("Upsert returned error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestUpsertThresholdFailureUsesFailedShape(t *testing.T) {
	db, mock := newMockDB(t, config.DriverMySQL)
	mock.ExpectPrepare("INSERT INTO tbl_threshold").
		ExpectExec().
		WillReturnError(stderrors.New("Unknown column 'id'"))

	err := NewThresholdRepository(db).Upsert(context.Background(), 1, 2, time.Now())
	apiErr := errors.As(err)
	if apiErr.Status != errors.StatusFailed || apiErr.Message != "Update failed" {
		t.Fatalf("expected failed/Update failed, got %s/%q", apiErr.Status, apiErr.Message)
	}
}

func TestInitializeSchema(t *testing.T) {
	db, mock := newMockDB(t, config.DriverPostgres)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tbl_dht11").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_dht11_timestamp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tbl_threshold").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE tbl_threshold ADD COLUMN IF NOT EXISTS id SERIAL PRIMARY KEY")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := InitializeSchema(context.Background(), db); err != nil {
		t.Fatalf("InitializeSchema returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInitializeSchemaMySQLThresholdKey(t *testing.T) {
	tests := []struct {
		name    string
		columns int
		alter   bool
	}{
		{"legacy table without id", 0, true},
		{"table already keyed", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t, config.DriverMySQL)
			mock.ExpectExec("CREATE TABLE IF NOT EXISTS tbl_dht11").WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec("CREATE TABLE IF NOT EXISTS tbl_threshold").WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery("FROM information_schema.columns").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.columns))
			if tt.alter {
				mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE tbl_threshold ADD COLUMN id INT NOT NULL AUTO_INCREMENT PRIMARY KEY FIRST")).
					WillReturnResult(sqlmock.NewResult(0, 0))
			}

			if err := InitializeSchema(context.Background(), db); err != nil {
				t.Fatalf("InitializeSchema returned error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestInitializeSchemaMySQLAlterFailure(t *testing.T) {
	db, mock := newMockDB(t, config.DriverMySQL)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tbl_dht11").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tbl_threshold").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("ALTER TABLE tbl_threshold").WillReturnError(stderrors.New("Multiple primary key defined"))

	err := InitializeSchema(context.Background(), db)
	if apiErr := errors.As(err); apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected internal error, got %v", err)
	}
}
