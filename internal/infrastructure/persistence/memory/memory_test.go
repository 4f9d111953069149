package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
)

func TestAuditQueryRejectsInvertedWindow(t *testing.T) {
	repos := New().Repositories()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	_, err := repos.Audit.Query(context.Background(), repository.AuditFilter{
		From: base,
		To:   base.Add(-time.Hour),
	})
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeInvalidRange, appErr.Code())
}

func TestAuditQueryWindowBounds(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	th := &models.Threshold{ID: "rl:max", Category: constants.CategoryRateLimit}
	for i := 0; i < 3; i++ {
		entry := models.NewThresholdAuditEntry(th, float64(100+i), float64(101+i), "tester", "step", constants.AdjustmentManual)
		entry.Timestamp = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repos.Audit.Append(ctx, entry))
	}

	windowed, err := repos.Audit.Query(ctx, repository.AuditFilter{
		From: base.Add(30 * time.Minute),
		To:   base.Add(90 * time.Minute),
	})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, 102.0, *windowed[0].NewValue)
}
