// Package repository defines the persistence ports for the threshold service.
package repository

import (
	"context"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/constants"
)

// ThresholdRepository persists the threshold catalog. Implementations return
// (nil, nil) when an id is absent; callers decide whether that is an error.
type ThresholdRepository interface {
	// GetByID returns the threshold with the given id, or nil when absent.
	GetByID(ctx context.Context, id string) (*models.Threshold, error)

	// List returns every threshold ordered by id. The order is stable
	// across calls given no mutation.
	List(ctx context.Context) ([]*models.Threshold, error)

	// ListByCategory returns thresholds of one category ordered by id.
	ListByCategory(ctx context.Context, category constants.ThresholdCategory) ([]*models.Threshold, error)

	// Save persists the full state of an existing threshold.
	Save(ctx context.Context, threshold *models.Threshold) error

	// Create inserts a new threshold. Used only by catalog seeding.
	Create(ctx context.Context, threshold *models.Threshold) error

	// Count returns the catalog size.
	Count(ctx context.Context) (int64, error)
}
