package repository

import (
	"context"

	"github.com/promoflow/threshold-service/internal/domain/models"
)

// ConfigurationRepository persists section/key settings. Get returns
// (nil, nil) when the entry is absent.
type ConfigurationRepository interface {
	// Get returns one configuration entry, or nil when absent.
	Get(ctx context.Context, section, key string) (*models.Configuration, error)

	// ListSection returns every entry of a section ordered by key.
	ListSection(ctx context.Context, section string) ([]*models.Configuration, error)

	// List returns every configuration entry ordered by section then key.
	List(ctx context.Context) ([]*models.Configuration, error)

	// Upsert creates the entry on first write and updates it thereafter.
	Upsert(ctx context.Context, cfg *models.Configuration) error
}
