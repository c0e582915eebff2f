package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/repository"
)

type memReadings struct {
	rows      []models.Reading
	lastRange models.DateRange
	calls     int
	err       error
}

func (m *memReadings) ListByRange(ctx context.Context, r models.DateRange) ([]models.Reading, error) {
	m.calls++
	m.lastRange = r
	if m.err != nil {
		return nil, m.err
	}
	lower, _ := time.Parse(models.TimestampLayout, r.Lower())
	upper, _ := time.Parse(models.TimestampLayout, r.Upper())

	out := []models.Reading{}
	for _, row := range m.rows {
		if row.Timestamp.Before(lower) || row.Timestamp.After(upper) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp.Time) })
	return out, nil
}

type memThresholds struct {
	mu      sync.Mutex
	rows    map[int]models.Threshold
	latests int
	upserts int
	err     error
	// afterRead runs once, outside the lock, between reading a row and returning it.
	afterRead func()
}

func newMemThresholds() *memThresholds {
	return &memThresholds{rows: map[int]models.Threshold{}}
}

func (m *memThresholds) Latest(ctx context.Context) (*models.Threshold, error) {
	m.mu.Lock()
	m.latests++
	if m.err != nil {
		m.mu.Unlock()
		return nil, m.err
	}
	var latest *models.Threshold
	for _, row := range m.rows {
		row := row
		if latest == nil || row.Timestamp.After(latest.Timestamp.Time) {
			latest = &row
		}
	}
	hook := m.afterRead
	m.afterRead = nil
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if latest == nil {
		return nil, errors.NewNotFoundError("No thresholds found", repository.ErrNotFound)
	}
	return latest, nil
}

func (m *memThresholds) Upsert(ctx context.Context, temp, hum float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.err != nil {
		return m.err
	}
	m.rows[models.ThresholdSingletonID] = models.Threshold{
		TempThreshold: temp,
		HumThreshold:  hum,
		Timestamp:     models.NewTime(at),
	}
	return nil
}

type memCache struct {
	mu          sync.Mutex
	value       *models.Threshold
	setErr      error
	gets        int
	sets        int
	invalidated int
}

func (c *memCache) Get(ctx context.Context) (*models.Threshold, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.value == nil {
		return nil, repository.ErrCacheMiss
	}
	v := *c.value
	return &v, nil
}

func (c *memCache) Set(ctx context.Context, t *models.Threshold, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	v := *t
	c.value = &v
	return nil
}

func (c *memCache) Fill(ctx context.Context, t *models.Threshold, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value != nil {
		return nil
	}
	v := *t
	c.value = &v
	return nil
}

func (c *memCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.value = nil
	return nil
}

func (c *memCache) current() *models.Threshold {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
