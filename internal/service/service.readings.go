package service

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
)

const (
	MsgInvalidFormat    = "Invalid date format (YYYY-MM-DD required)"
	MsgInvalidDateValue = "Invalid date values"
	MsgInvalidRange     = "End date cannot be before start date"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// QueryReadings validates q and returns the readings inside the requested days, newest first
func (s *Service) QueryReadings(ctx context.Context, q models.ReadingsQuery) ([]models.Reading, error) {
	rng, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}
	return s.readings.ListByRange(ctx, rng)
}

// ResolveRange applies the defaults (yesterday .. today) to absent bounds and validates the rest.
func (s *Service) ResolveRange(q models.ReadingsQuery) (models.DateRange, error) {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	start := today.AddDate(0, 0, -1)
	end := today

	for _, raw := range []*string{q.StartDate, q.EndDate} {
		if raw != nil && !datePattern.MatchString(*raw) {
			return models.DateRange{}, errors.NewInvalidFormatError(MsgInvalidFormat, nil)
		}
	}

	var err error
	if q.StartDate != nil {
		if start, err = s.parseDate(*q.StartDate); err != nil {
			return models.DateRange{}, err
		}
	}
	if q.EndDate != nil {
		if end, err = s.parseDate(*q.EndDate); err != nil {
			return models.DateRange{}, err
		}
	}

	if end.Before(start) {
		return models.DateRange{}, errors.NewInvalidRangeError(MsgInvalidRange, nil)
	}
	return models.DateRange{Start: start, End: end}, nil
}

// parseDate turns a YYYY-MM-DD string into midnight of that day.
// An impossible month is a format error, an impossible day a value error.
func (s *Service) parseDate(raw string) (time.Time, error) {
	year, _ := strconv.Atoi(raw[0:4])
	month, _ := strconv.Atoi(raw[5:7])
	day, _ := strconv.Atoi(raw[8:10])

	if month < 1 || month > 12 {
		return time.Time{}, errors.NewInvalidFormatError(MsgInvalidFormat, nil)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, errors.NewInvalidDateValueError(MsgInvalidDateValue, nil)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, s.location), nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
