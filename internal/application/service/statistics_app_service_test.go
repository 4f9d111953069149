package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/internal/infrastructure/persistence/memory"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

func appendThresholdEntry(t *testing.T, audit repository.AuditRepository, category constants.ThresholdCategory, previous, next float64, at time.Time) {
	t.Helper()
	entry := models.NewThresholdAuditEntry(&models.Threshold{ID: "x", Category: category},
		previous, next, "tester", "test", constants.AdjustmentManual)
	entry.Timestamp = at
	require.NoError(t, audit.Append(context.Background(), entry))
}

func TestGetThresholdStatisticsGroupsByCategory(t *testing.T) {
	backend := memory.New()
	repos := backend.Repositories()
	svc := NewStatisticsAppService(repos.Audit, logger.NewNoop())
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	appendThresholdEntry(t, repos.Audit, constants.CategoryRateLimit, 100, 110, base)
	appendThresholdEntry(t, repos.Audit, constants.CategoryRateLimit, 110, 130, base.Add(time.Hour))
	appendThresholdEntry(t, repos.Audit, constants.CategoryRiskScoring, 60, 70, base.Add(2*time.Hour))
	// Outside the window, must not count.
	appendThresholdEntry(t, repos.Audit, constants.CategoryRateLimit, 130, 200, base.Add(48*time.Hour))

	snapshots, window, err := svc.GetThresholdStatistics(ctx, "2026-08-20", "2026-08-21")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), window.Start)

	// Empty categories are omitted: only the two with activity remain.
	require.Len(t, snapshots, 2)

	byCategory := make(map[constants.ThresholdCategory]*models.StatisticsSnapshot)
	for _, s := range snapshots {
		byCategory[s.Category] = s
	}

	rl := byCategory[constants.CategoryRateLimit]
	require.NotNil(t, rl)
	assert.Equal(t, 2, rl.AdjustmentCount)
	assert.InDelta(t, 120.0, rl.AverageValue, 1e-9)
	assert.InDelta(t, 10.0, rl.Volatility, 1e-9)

	rs := byCategory[constants.CategoryRiskScoring]
	require.NotNil(t, rs)
	assert.Equal(t, 1, rs.AdjustmentCount)
	assert.InDelta(t, 70.0, rs.AverageValue, 1e-9)
	assert.Zero(t, rs.Volatility)
}

func TestGetThresholdStatisticsAcceptsRFC3339(t *testing.T) {
	backend := memory.New()
	svc := NewStatisticsAppService(backend.Repositories().Audit, logger.NewNoop())

	snapshots, window, err := svc.GetThresholdStatistics(context.Background(),
		"2026-08-20T00:00:00Z", "2026-08-21T12:30:00Z")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
	assert.Equal(t, 12, window.End.Hour())
}

func TestGetThresholdStatisticsInvalidRange(t *testing.T) {
	backend := memory.New()
	svc := NewStatisticsAppService(backend.Repositories().Audit, logger.NewNoop())
	ctx := context.Background()

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"garbage start", "yesterday", "2026-08-21"},
		{"garbage end", "2026-08-20", "soon"},
		{"start after end", "2026-08-22", "2026-08-21"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.GetThresholdStatistics(ctx, tt.start, tt.end)
			require.Error(t, err)
			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.CodeInvalidRange, appErr.Code())
		})
	}
}

func TestGetThresholdStatisticsDefaultsToTrailingWeek(t *testing.T) {
	backend := memory.New()
	svc := NewStatisticsAppService(backend.Repositories().Audit, logger.NewNoop())

	_, window, err := svc.GetThresholdStatistics(context.Background(), "", "")
	require.NoError(t, err)
	assert.InDelta(t, float64(7*24*time.Hour), float64(window.End.Sub(window.Start)), float64(time.Minute))
}
