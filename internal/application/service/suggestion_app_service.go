package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// SuggestionAppService derives threshold optimization proposals from the
// recent automatic-adjustment history. Suggestions are computed on demand
// and never persisted.
type SuggestionAppService interface {
	// SuggestOptimizations returns one suggestion per active threshold.
	SuggestOptimizations(ctx context.Context) ([]*models.Suggestion, error)
}

type suggestionAppService struct {
	store   *domainservice.ThresholdStore
	audit   repository.AuditRepository
	metrics domainservice.Metrics
	log     logger.Logger
}

// NewSuggestionAppService creates the suggestion application service.
func NewSuggestionAppService(store *domainservice.ThresholdStore, audit repository.AuditRepository, metrics domainservice.Metrics, log logger.Logger) SuggestionAppService {
	return &suggestionAppService{
		store:   store,
		audit:   audit,
		metrics: metrics,
		log:     log.WithComponent("suggestion_service"),
	}
}

func (s *suggestionAppService) SuggestOptimizations(ctx context.Context) ([]*models.Suggestion, error) {
	thresholds, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	since := now.Add(-constants.SuggestionWindow)

	out := make([]*models.Suggestion, 0, len(thresholds))
	for _, t := range thresholds {
		if !t.IsActive {
			continue
		}
		entries, err := s.audit.Query(ctx, repository.AuditFilter{
			EntityKind:     constants.EntityKindThreshold,
			EntityID:       t.ID,
			AdjustmentType: constants.AdjustmentAutomatic,
			From:           since,
			To:             now,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to query adjustment history")
		}

		suggestion := s.suggest(t, entries, since, now)
		s.metrics.RecordSuggestionBucket(string(suggestion.Bucket()))
		out = append(out, suggestion)
	}
	return out, nil
}

// suggest proposes the bounded mean of the window's automatic adjustments.
// Confidence combines two signals worth up to 50 points each: sample size,
// saturating at SuggestionSampleSaturation entries, and the consistency of
// the adjustment direction.
func (s *suggestionAppService) suggest(t *models.Threshold, entries []*models.AuditEntry, since, now time.Time) *models.Suggestion {
	if len(entries) == 0 {
		return &models.Suggestion{
			ThresholdID:   t.ID,
			Category:      t.Category,
			CurrentValue:  t.Value,
			ProposedValue: t.Value,
			Confidence:    0,
			Rationale:     "no automatic adjustments in the last 7 days; keeping the current value",
		}
	}

	var sum float64
	var direction int
	for _, e := range entries {
		sum += *e.NewValue
		switch d := e.Delta(); {
		case d > 0:
			direction++
		case d < 0:
			direction--
		}
	}
	n := len(entries)
	mean := sum / float64(n)
	proposed := t.Clamp(mean)

	samples := n
	if samples > constants.SuggestionSampleSaturation {
		samples = constants.SuggestionSampleSaturation
	}
	sampleScore := samples * 50 / constants.SuggestionSampleSaturation
	consistencyScore := int(math.Abs(float64(direction)) / float64(n) * 50)

	confidence := sampleScore + consistencyScore
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	_, volatility := meanAndStddev(collectNewValues(entries))
	return &models.Suggestion{
		ThresholdID:   t.ID,
		Category:      t.Category,
		CurrentValue:  t.Value,
		ProposedValue: proposed,
		Confidence:    confidence,
		Rationale: fmt.Sprintf(
			"%d automatic adjustments in the last 7 days averaged %.2f; proposing %.2f within bounds [%v, %v]",
			n, mean, proposed, t.MinValue, t.MaxValue),
		SupportingStats: &models.StatisticsSnapshot{
			Category:        t.Category,
			PeriodStart:     since,
			PeriodEnd:       now,
			AdjustmentCount: n,
			AverageValue:    mean,
			Volatility:      volatility,
		},
	}
}

func collectNewValues(entries []*models.AuditEntry) []float64 {
	values := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.NewValue != nil {
			values = append(values, *e.NewValue)
		}
	}
	return values
}
