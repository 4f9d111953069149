// Package service implements the application services behind the REST surface.
package service

import (
	"context"
	"math"
	"strings"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// ThresholdAppService exposes the threshold read and mutation operations.
type ThresholdAppService interface {
	// GetAllThresholds returns the full catalog ordered by id.
	GetAllThresholds(ctx context.Context) ([]*models.Threshold, error)

	// GetThresholdsByCategory returns one category's thresholds. The raw
	// category string is validated against the fixed set.
	GetThresholdsByCategory(ctx context.Context, category string) ([]*models.Threshold, error)

	// GetThreshold returns a single threshold by id.
	GetThreshold(ctx context.Context, id string) (*models.Threshold, error)

	// UpdateThreshold applies a manual update. Values outside the
	// threshold's bounds are rejected, never clamped.
	UpdateThreshold(ctx context.Context, id string, value float64, reason, actor string) (*models.Threshold, error)

	// AdjustThreshold applies an automatic delta adjustment. The candidate
	// value is clamped into bounds instead of rejected.
	AdjustThreshold(ctx context.Context, id string, delta float64, reason string, meta *models.AdjustmentMetadata) (*models.Threshold, error)

	// ResetThreshold restores a threshold to its default value.
	ResetThreshold(ctx context.Context, id, reason, actor string) (*models.Threshold, error)

	// SetThresholdActive toggles whether a threshold is enforced.
	SetThresholdActive(ctx context.Context, id string, active bool, reason, actor string) (*models.Threshold, error)

	// GetThresholdHistory returns the threshold's audit trail, newest first.
	GetThresholdHistory(ctx context.Context, id string, limit int) ([]*models.AuditEntry, error)
}

type thresholdAppService struct {
	store   *domainservice.ThresholdStore
	audit   repository.AuditRepository
	metrics domainservice.Metrics
	log     logger.Logger
}

// NewThresholdAppService creates the threshold application service.
func NewThresholdAppService(store *domainservice.ThresholdStore, audit repository.AuditRepository, metrics domainservice.Metrics, log logger.Logger) ThresholdAppService {
	return &thresholdAppService{
		store:   store,
		audit:   audit,
		metrics: metrics,
		log:     log.WithComponent("threshold_service"),
	}
}

func (s *thresholdAppService) GetAllThresholds(ctx context.Context) ([]*models.Threshold, error) {
	return s.store.List(ctx)
}

func (s *thresholdAppService) GetThresholdsByCategory(ctx context.Context, category string) ([]*models.Threshold, error) {
	parsed, ok := constants.ParseCategory(category)
	if !ok {
		return nil, errors.InvalidCategory(category)
	}
	return s.store.ListByCategory(ctx, parsed)
}

func (s *thresholdAppService) GetThreshold(ctx context.Context, id string) (*models.Threshold, error) {
	return s.store.Get(ctx, id)
}

func (s *thresholdAppService) UpdateThreshold(ctx context.Context, id string, value float64, reason, actor string) (*models.Threshold, error) {
	if err := validateValue(value); err != nil {
		return nil, err
	}
	reason, err := validateReason(reason)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Apply(ctx, id, func(current *models.Threshold) (*domainservice.Mutation, error) {
		if !current.InBounds(value) {
			s.metrics.RecordOutOfBoundsRejection(string(current.Category))
			s.metrics.RecordThresholdMutation(string(current.Category), string(constants.AdjustmentManual), "rejected")
			return nil, errors.OutOfBounds(
				"value %v outside bounds [%v, %v] for threshold %s",
				value, current.MinValue, current.MaxValue, id)
		}
		return &domainservice.Mutation{
			NewValue:       &value,
			Actor:          actor,
			Reason:         reason,
			AdjustmentType: constants.AdjustmentManual,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordThresholdMutation(string(updated.Category), string(constants.AdjustmentManual), "committed")
	s.log.Info(ctx, "Threshold updated manually",
		logger.String("threshold_id", id),
		logger.Float64("value", value),
		logger.String("actor", actor))
	return updated, nil
}

func (s *thresholdAppService) AdjustThreshold(ctx context.Context, id string, delta float64, reason string, meta *models.AdjustmentMetadata) (*models.Threshold, error) {
	if err := validateDelta(delta); err != nil {
		return nil, err
	}
	reason, err := validateReason(reason)
	if err != nil {
		return nil, err
	}

	clamped := false
	updated, err := s.store.Apply(ctx, id, func(current *models.Threshold) (*domainservice.Mutation, error) {
		candidate := current.Value + delta
		value := current.Clamp(candidate)
		clamped = value != candidate
		return &domainservice.Mutation{
			NewValue:       &value,
			Actor:          constants.ActorSystem,
			Reason:         reason,
			AdjustmentType: constants.AdjustmentAutomatic,
			Metadata:       meta,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if clamped {
		s.metrics.RecordClampedAdjustment(string(updated.Category))
	}
	s.metrics.RecordThresholdMutation(string(updated.Category), string(constants.AdjustmentAutomatic), "committed")
	s.log.Info(ctx, "Threshold adjusted automatically",
		logger.String("threshold_id", id),
		logger.Float64("delta", delta),
		logger.Float64("value", updated.Value),
		logger.Bool("clamped", clamped))
	return updated, nil
}

func (s *thresholdAppService) ResetThreshold(ctx context.Context, id, reason, actor string) (*models.Threshold, error) {
	reason, err := validateReason(reason)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Apply(ctx, id, func(current *models.Threshold) (*domainservice.Mutation, error) {
		value := current.DefaultValue
		return &domainservice.Mutation{
			NewValue:       &value,
			Actor:          actor,
			Reason:         reason,
			AdjustmentType: constants.AdjustmentManual,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordThresholdMutation(string(updated.Category), string(constants.AdjustmentManual), "committed")
	s.log.Info(ctx, "Threshold reset to default",
		logger.String("threshold_id", id),
		logger.Float64("value", updated.Value),
		logger.String("actor", actor))
	return updated, nil
}

func (s *thresholdAppService) SetThresholdActive(ctx context.Context, id string, active bool, reason, actor string) (*models.Threshold, error) {
	reason, err := validateReason(reason)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Apply(ctx, id, func(current *models.Threshold) (*domainservice.Mutation, error) {
		if current.IsActive == active {
			return nil, nil
		}
		return &domainservice.Mutation{
			NewActive:      &active,
			Actor:          actor,
			Reason:         reason,
			AdjustmentType: constants.AdjustmentManual,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "Threshold active flag set",
		logger.String("threshold_id", id),
		logger.Bool("active", active),
		logger.String("actor", actor))
	return updated, nil
}

func (s *thresholdAppService) GetThresholdHistory(ctx context.Context, id string, limit int) ([]*models.AuditEntry, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	entries, err := s.audit.Query(ctx, repository.AuditFilter{
		EntityKind: constants.EntityKindThreshold,
		EntityID:   id,
		Limit:      limit,
		Descending: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to query threshold history")
	}
	return entries, nil
}

func validateValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Validation("value must be a finite number")
	}
	// Thresholds measure counts, rates and scores; a negative value is
	// malformed input regardless of the threshold's own bounds.
	if value < 0 {
		return errors.Validation("value must not be negative")
	}
	return nil
}

func validateDelta(delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return errors.Validation("adjustment must be a finite number")
	}
	return nil
}

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", errors.Validation("reason must not be empty")
	}
	return reason, nil
}
