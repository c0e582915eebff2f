// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/relaymon/relayhub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrCacheMiss indicates that the cache holds no value for the key
	ErrCacheMiss = errors.New("cache miss")
)

// ReadingRepository defines read access to the DHT11/relay readings table
type ReadingRepository interface {
	// ListByRange returns readings inside r, newest first.
	ListByRange(ctx context.Context, r models.DateRange) ([]models.Reading, error)
}

// ThresholdRepository defines access to the current threshold
type ThresholdRepository interface {
	// Latest returns the most recently timestamped threshold or ErrNotFound.
	Latest(ctx context.Context) (*models.Threshold, error)
	// Upsert stores the singleton threshold row stamped with at.
	Upsert(ctx context.Context, temp, hum float64, at time.Time) error
}

// ThresholdCache is an optional read-through cache in front of ThresholdRepository
type ThresholdCache interface {
	// Get returns ErrCacheMiss when nothing is cached.
	Get(ctx context.Context) (*models.Threshold, error)
	// Set overwrites the cached value. Used after a successful write.
	Set(ctx context.Context, t *models.Threshold, ttl time.Duration) error
	// Fill stores t only when nothing is cached, so a slow read never
	// replaces a value written by a concurrent update.
	Fill(ctx context.Context, t *models.Threshold, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
