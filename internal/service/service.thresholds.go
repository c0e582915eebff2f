package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const MsgMissingParameters = "Missing parameters"

// CurrentThreshold returns the most recent threshold, from cache when possible
func (s *Service) CurrentThreshold(ctx context.Context) (*models.Threshold, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !stderrors.Is(err, repository.ErrCacheMiss) {
			nuts.L.Warnf("[ThresholdService] Cache read failed: %v", err)
		}
	}

	threshold, err := s.thresholds.Latest(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Fill(ctx, threshold, s.cacheTTL); err != nil {
			nuts.L.Warnf("[ThresholdService] Cache fill failed: %v", err)
		}
	}
	return threshold, nil
}

// UpdateThreshold stores both values; nothing is written unless both are present
func (s *Service) UpdateThreshold(ctx context.Context, update models.ThresholdUpdate) error {
	if !update.Complete() {
		return errors.NewMissingParametersError(MsgMissingParameters, nil)
	}

	threshold := models.Threshold{
		TempThreshold: update.TempThreshold.Value,
		HumThreshold:  update.HumThreshold.Value,
		Timestamp:     models.NewTime(s.now().Truncate(time.Second)),
	}
	if err := s.thresholds.Upsert(ctx, threshold.TempThreshold, threshold.HumThreshold, threshold.Timestamp.Time); err != nil {
		return err
	}

	if s.cache != nil {
		s.refreshCache(ctx, &threshold)
	}

	s.events.Emit(EventThresholdUpdated, threshold)
	return nil
}

// refreshCache writes the stored threshold through. If that fails the entry is
// dropped instead, so readers fall back to the database.
func (s *Service) refreshCache(ctx context.Context, threshold *models.Threshold) {
	err := s.cache.Set(ctx, threshold, s.cacheTTL)
	if err == nil {
		return
	}
	nuts.L.Warnf("[ThresholdService] Cache write failed: %v", err)

	if err := s.cache.Invalidate(ctx); err != nil {
		nuts.L.Errorf("[ThresholdService] Cache invalidation failed, entry may be stale for %v: %v", s.cacheTTL, err)
	}
}
