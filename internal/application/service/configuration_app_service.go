package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// ConfigurationAppService exposes the generic section/key configuration
// operations. Values are opaque JSON documents; unlike thresholds they are
// not bound-checked, but every change is still audited.
type ConfigurationAppService interface {
	// GetConfiguration returns one setting or a not_found error.
	GetConfiguration(ctx context.Context, section, key string) (*models.Configuration, error)

	// ListSection returns every setting stored under a section. An unknown
	// section yields an empty list, not an error.
	ListSection(ctx context.Context, section string) ([]*models.Configuration, error)

	// SetConfiguration creates or replaces a setting and appends the paired
	// audit entry in the same transaction.
	SetConfiguration(ctx context.Context, section, key string, value json.RawMessage, actor string) (*models.Configuration, error)
}

type configurationAppService struct {
	atomic  repository.Atomic
	repos   repository.Repositories
	barrier *domainservice.StateBarrier
	log     logger.Logger

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewConfigurationAppService creates the configuration application service.
func NewConfigurationAppService(atomic repository.Atomic, repos repository.Repositories, barrier *domainservice.StateBarrier, log logger.Logger) ConfigurationAppService {
	return &configurationAppService{
		atomic:  atomic,
		repos:   repos,
		barrier: barrier,
		log:     log.WithComponent("configuration_service"),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *configurationAppService) GetConfiguration(ctx context.Context, section, key string) (*models.Configuration, error) {
	if section == "" || key == "" {
		return nil, errors.Validation("section and key must not be empty")
	}
	cfg, err := s.repos.Configurations.Get(ctx, section, key)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read configuration")
	}
	if cfg == nil {
		return nil, errors.NotFound("configuration not found: %s/%s", section, key)
	}
	return cfg, nil
}

func (s *configurationAppService) ListSection(ctx context.Context, section string) ([]*models.Configuration, error) {
	if section == "" {
		return nil, errors.Validation("section must not be empty")
	}
	out, err := s.repos.Configurations.ListSection(ctx, section)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list configuration section")
	}
	return out, nil
}

func (s *configurationAppService) SetConfiguration(ctx context.Context, section, key string, value json.RawMessage, actor string) (*models.Configuration, error) {
	if section == "" || key == "" {
		return nil, errors.Validation("section and key must not be empty")
	}
	if err := validateConfigValue(value); err != nil {
		return nil, err
	}

	s.barrier.AcquireShared()
	defer s.barrier.ReleaseShared()

	unlock := s.lock(section + "/" + key)
	defer unlock()

	previous, err := s.repos.Configurations.Get(ctx, section, key)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read configuration")
	}

	var previousData json.RawMessage
	if previous != nil {
		previousData = previous.Value
	}

	updated := &models.Configuration{
		Section:        section,
		Key:            key,
		Value:          value,
		LastModified:   time.Now().UTC(),
		LastModifiedBy: actor,
	}
	entry := models.NewConfigurationAuditEntry(updated.EntityID(), previousData, value, actor, "configuration update")

	commitCtx := context.WithoutCancel(ctx)
	err = s.atomic.InTx(commitCtx, func(r repository.Repositories) error {
		if err := r.Configurations.Upsert(commitCtx, updated); err != nil {
			return err
		}
		return r.Audit.Append(commitCtx, entry)
	})
	if err != nil {
		s.log.Error(ctx, "Configuration upsert commit failed", err,
			logger.String("section", section),
			logger.String("key", key))
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to commit configuration change")
	}

	s.log.Info(ctx, "Configuration set",
		logger.String("section", section),
		logger.String("key", key),
		logger.String("actor", actor))
	return updated, nil
}

func (s *configurationAppService) lock(id string) func() {
	s.lockMu.Lock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// validateConfigValue rejects missing values and the JSON null literal.
// Any other well-formed JSON document is accepted as-is.
func validateConfigValue(value json.RawMessage) error {
	if len(value) == 0 {
		return errors.Validation("value is required")
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return errors.Validation("value must not be null")
	}
	if !json.Valid(value) {
		return errors.Validation("value must be valid JSON")
	}
	return nil
}
