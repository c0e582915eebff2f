package service

import (
	"time"

	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted by the service
const (
	EventThresholdUpdated = "threshold.updated"
)

// Service contains all repositories and service-wide dependencies
type Service struct {
	readings   repository.ReadingRepository
	thresholds repository.ThresholdRepository
	cache      repository.ThresholdCache
	cacheTTL   time.Duration
	location   *time.Location
	now        func() time.Time
	events     *nuts.EventEmitter
}

// New creates a new service instance
func New(
	readings repository.ReadingRepository,
	thresholds repository.ThresholdRepository,
) *Service {
	return &Service{
		readings:   readings,
		thresholds: thresholds,
		location:   time.Local,
		now:        time.Now,
		events:     nuts.NewEventEmitter(),
	}
}

// WithCache puts a read-through cache in front of the threshold repository
func (s *Service) WithCache(cache repository.ThresholdCache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithLocation sets the zone used to compute default date ranges
func (s *Service) WithLocation(loc *time.Location) *Service {
	if loc != nil {
		s.location = loc
	}
	return s
}

// WithClock replaces time.Now, mainly for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.readings == nil {
		return ErrMissingRepository("readings")
	}
	if s.thresholds == nil {
		return ErrMissingRepository("thresholds")
	}
	return nil
}

// OnThresholdUpdated registers a callback invoked after every successful update
func (s *Service) OnThresholdUpdated(handler func(t models.Threshold)) {
	s.events.On(EventThresholdUpdated, nuts.NID("listener", 8), func(args ...interface{}) {
		if len(args) > 0 {
			if t, ok := args[0].(models.Threshold); ok {
				handler(t)
			}
		}
	})
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
