package service

import (
	"context"
	"math"
	"time"

	"github.com/promoflow/threshold-service/internal/application/dto"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// StatisticsAppService aggregates threshold adjustment activity per
// category over a caller-supplied time window.
type StatisticsAppService interface {
	// GetThresholdStatistics parses the raw start/end strings, validates
	// the window and returns one snapshot per category that saw at least
	// one adjustment inside it.
	GetThresholdStatistics(ctx context.Context, startRaw, endRaw string) ([]*models.StatisticsSnapshot, dto.TimeRange, error)
}

type statisticsAppService struct {
	audit repository.AuditRepository
	log   logger.Logger
}

// NewStatisticsAppService creates the statistics application service.
func NewStatisticsAppService(audit repository.AuditRepository, log logger.Logger) StatisticsAppService {
	return &statisticsAppService{
		audit: audit,
		log:   log.WithComponent("statistics_service"),
	}
}

func (s *statisticsAppService) GetThresholdStatistics(ctx context.Context, startRaw, endRaw string) ([]*models.StatisticsSnapshot, dto.TimeRange, error) {
	window, err := parseTimeRange(startRaw, endRaw)
	if err != nil {
		return nil, dto.TimeRange{}, err
	}

	entries, err := s.audit.Query(ctx, repository.AuditFilter{
		EntityKind: constants.EntityKindThreshold,
		From:       window.Start,
		To:         window.End,
	})
	if err != nil {
		return nil, dto.TimeRange{}, errors.Wrap(err, errors.CodeInternal, "failed to query audit entries")
	}

	byCategory := make(map[constants.ThresholdCategory][]float64)
	for _, e := range entries {
		if e.NewValue == nil {
			continue
		}
		byCategory[e.Category] = append(byCategory[e.Category], *e.NewValue)
	}

	// Categories with no activity in the window are omitted entirely.
	out := make([]*models.StatisticsSnapshot, 0, len(byCategory))
	for _, category := range constants.AllCategories {
		values, ok := byCategory[category]
		if !ok {
			continue
		}
		mean, stddev := meanAndStddev(values)
		out = append(out, &models.StatisticsSnapshot{
			Category:        category,
			PeriodStart:     window.Start,
			PeriodEnd:       window.End,
			AdjustmentCount: len(values),
			AverageValue:    mean,
			Volatility:      stddev,
		})
	}
	return out, window, nil
}

// parseTimeRange accepts RFC 3339 timestamps or bare dates. A missing
// bound defaults to a trailing seven-day window ending now.
func parseTimeRange(startRaw, endRaw string) (dto.TimeRange, error) {
	now := time.Now().UTC()
	window := dto.TimeRange{Start: now.Add(-constants.SuggestionWindow), End: now}

	if startRaw != "" {
		start, err := parseTimestamp(startRaw)
		if err != nil {
			return dto.TimeRange{}, errors.InvalidRange("invalid start time: %s", startRaw)
		}
		window.Start = start
	}
	if endRaw != "" {
		end, err := parseTimestamp(endRaw)
		if err != nil {
			return dto.TimeRange{}, errors.InvalidRange("invalid end time: %s", endRaw)
		}
		window.End = end
	}
	if window.Start.After(window.End) {
		return dto.TimeRange{}, errors.InvalidRange(
			"start time %s is after end time %s",
			window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	}
	return window, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// meanAndStddev returns the mean and population standard deviation.
func meanAndStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
