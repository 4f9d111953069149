package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/logger"
)

func newSuggestionFixture(t *testing.T) (*fixture, SuggestionAppService) {
	t.Helper()
	f := newFixture(t)
	return f, NewSuggestionAppService(f.store, f.repos.Audit, domainservice.NoopMetrics{}, logger.NewNoop())
}

func appendAutoEntry(t *testing.T, audit repository.AuditRepository, id string, category constants.ThresholdCategory, previous, next float64, age time.Duration) {
	t.Helper()
	entry := models.NewThresholdAuditEntry(&models.Threshold{ID: id, Category: category},
		previous, next, constants.ActorSystem, "auto", constants.AdjustmentAutomatic)
	entry.Timestamp = time.Now().UTC().Add(-age)
	require.NoError(t, audit.Append(context.Background(), entry))
}

func TestSuggestNoHistoryKeepsCurrentValue(t *testing.T) {
	f, svc := newSuggestionFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)

	suggestions, err := svc.SuggestOptimizations(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, "rl:max", s.ThresholdID)
	assert.Equal(t, 100.0, s.CurrentValue)
	assert.Equal(t, 100.0, s.ProposedValue)
	assert.Zero(t, s.Confidence)
	assert.Equal(t, constants.ConfidenceLow, s.Bucket())
}

func TestSuggestConsistentUpwardDrift(t *testing.T) {
	f, svc := newSuggestionFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)

	// Ten adjustments, all upward: both confidence signals saturate.
	value := 100.0
	for i := 0; i < 10; i++ {
		appendAutoEntry(t, f.repos.Audit, "rl:max", constants.CategoryRateLimit,
			value, value+10, time.Duration(10-i)*time.Hour)
		value += 10
	}

	suggestions, err := svc.SuggestOptimizations(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, 100, s.Confidence)
	assert.Equal(t, constants.ConfidenceHigh, s.Bucket())
	// Mean of 110..200 is 155, inside bounds so not clamped.
	assert.InDelta(t, 155.0, s.ProposedValue, 1e-9)
	require.NotNil(t, s.SupportingStats)
	assert.Equal(t, 10, s.SupportingStats.AdjustmentCount)
}

func TestSuggestMixedDirectionsLowerConfidence(t *testing.T) {
	f, svc := newSuggestionFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)

	// Two adjustments in opposite directions: direction signal cancels out,
	// leaving only the sample-size signal (2 of 10 saturation = 10 points).
	appendAutoEntry(t, f.repos.Audit, "rl:max", constants.CategoryRateLimit, 100, 120, 2*time.Hour)
	appendAutoEntry(t, f.repos.Audit, "rl:max", constants.CategoryRateLimit, 120, 100, time.Hour)

	suggestions, err := svc.SuggestOptimizations(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, 10, s.Confidence)
	assert.Equal(t, constants.ConfidenceLow, s.Bucket())
}

func TestSuggestProposalClampedIntoBounds(t *testing.T) {
	f, svc := newSuggestionFixture(t)
	f.seed(t, "rl:max", 900, 10, 1000)

	// History recorded before bounds were tightened can average above max.
	appendAutoEntry(t, f.repos.Audit, "rl:max", constants.CategoryRateLimit, 900, 1800, 2*time.Hour)
	appendAutoEntry(t, f.repos.Audit, "rl:max", constants.CategoryRateLimit, 1800, 1900, time.Hour)

	suggestions, err := svc.SuggestOptimizations(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 1000.0, suggestions[0].ProposedValue)
}

func TestSuggestIgnoresInactiveAndOldEntries(t *testing.T) {
	f, svc := newSuggestionFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)
	require.NoError(t, f.repos.Thresholds.Create(context.Background(), &models.Threshold{
		ID: "off", Category: constants.CategoryBlacklist, Name: "off",
		Value: 5, MinValue: 1, MaxValue: 100, DefaultValue: 5, IsActive: false,
	}))

	// Entry older than the seven-day window contributes nothing.
	appendAutoEntry(t, f.repos.Audit, "rl:max", constants.CategoryRateLimit, 100, 500, 8*24*time.Hour)

	suggestions, err := svc.SuggestOptimizations(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "rl:max", suggestions[0].ThresholdID)
	assert.Zero(t, suggestions[0].Confidence)
}
