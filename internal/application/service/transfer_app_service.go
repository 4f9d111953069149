package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/promoflow/threshold-service/internal/application/dto"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// TransferAppService implements bulk export and import of the full
// threshold and configuration state.
type TransferAppService interface {
	// Export produces a consistent point-in-time snapshot. No mutation
	// can interleave with the snapshot read.
	Export(ctx context.Context) (*dto.ExportDocument, error)

	// Import validates the entire document first and applies it atomically.
	// Any invalid entry rejects the whole import; the response error carries
	// every failure, not just the first. Re-importing an unmodified export
	// changes nothing.
	Import(ctx context.Context, req *dto.ImportRequest, actor string) (dto.ImportCounts, error)
}

type transferAppService struct {
	store   *domainservice.ThresholdStore
	repos   repository.Repositories
	barrier *domainservice.StateBarrier
	metrics domainservice.Metrics
	log     logger.Logger
}

// NewTransferAppService creates the import/export application service.
func NewTransferAppService(store *domainservice.ThresholdStore, repos repository.Repositories, barrier *domainservice.StateBarrier, metrics domainservice.Metrics, log logger.Logger) TransferAppService {
	return &transferAppService{
		store:   store,
		repos:   repos,
		barrier: barrier,
		metrics: metrics,
		log:     log.WithComponent("transfer_service"),
	}
}

func (s *transferAppService) Export(ctx context.Context) (*dto.ExportDocument, error) {
	s.barrier.AcquireExclusive()
	defer s.barrier.ReleaseExclusive()

	thresholds, err := s.repos.Thresholds.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list thresholds")
	}
	configs, err := s.repos.Configurations.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list configurations")
	}

	doc := &dto.ExportDocument{
		SchemaVersion:  constants.ExportSchemaVersion,
		ExportedAt:     time.Now().UTC(),
		Thresholds:     make([]dto.ThresholdExport, 0, len(thresholds)),
		Configurations: make([]dto.ConfigurationExport, 0, len(configs)),
	}
	for _, t := range thresholds {
		doc.Thresholds = append(doc.Thresholds, dto.ThresholdExport{
			ID:           t.ID,
			Category:     string(t.Category),
			Name:         t.Name,
			Description:  t.Description,
			Value:        t.Value,
			MinValue:     t.MinValue,
			MaxValue:     t.MaxValue,
			DefaultValue: t.DefaultValue,
			IsActive:     t.IsActive,
		})
	}
	for _, c := range configs {
		doc.Configurations = append(doc.Configurations, dto.ConfigurationExport{
			Section: c.Section,
			Key:     c.Key,
			Value:   c.Value,
		})
	}

	s.log.Info(ctx, "Exported state snapshot",
		logger.Int("thresholds", len(doc.Thresholds)),
		logger.Int("configurations", len(doc.Configurations)))
	return doc, nil
}

func (s *transferAppService) Import(ctx context.Context, req *dto.ImportRequest, actor string) (dto.ImportCounts, error) {
	s.barrier.AcquireExclusive()
	defer s.barrier.ReleaseExclusive()

	changes, configs, failures, err := s.validate(ctx, req, actor)
	if err != nil {
		return dto.ImportCounts{}, err
	}
	if len(failures) > 0 {
		s.metrics.RecordImport(len(req.Thresholds), len(req.Configurations), false)
		return dto.ImportCounts{}, errors.ImportValidation(failures)
	}

	if err := s.store.BulkApply(ctx, changes, configs); err != nil {
		s.metrics.RecordImport(len(req.Thresholds), len(req.Configurations), false)
		s.log.Error(ctx, "Bulk import commit failed", err)
		return dto.ImportCounts{}, errors.Wrap(err, errors.CodeInternal, "failed to commit import")
	}

	counts := dto.ImportCounts{Thresholds: len(changes), Configurations: len(configs)}
	s.metrics.RecordImport(len(req.Thresholds), len(req.Configurations), true)
	s.log.Info(ctx, "Imported state snapshot",
		logger.Int("thresholds_changed", counts.Thresholds),
		logger.Int("configurations_changed", counts.Configurations),
		logger.String("actor", actor))
	return counts, nil
}

// validate checks the whole document against the live catalog and collects
// every failure. Entries identical to current state are dropped so that an
// unmodified round trip is a no-op.
func (s *transferAppService) validate(ctx context.Context, req *dto.ImportRequest, actor string) ([]domainservice.BulkChange, []domainservice.ConfigChange, []dto.ImportFailure, error) {
	var failures []dto.ImportFailure
	fail := func(kind, id, reason string) {
		failures = append(failures, dto.ImportFailure{EntityKind: kind, EntityID: id, Reason: reason})
	}

	var changes []domainservice.BulkChange
	seenThresholds := make(map[string]bool)
	for _, in := range req.Thresholds {
		if in.ID == "" {
			fail("threshold", in.ID, "id must not be empty")
			continue
		}
		if seenThresholds[in.ID] {
			fail("threshold", in.ID, "duplicate threshold id in import")
			continue
		}
		seenThresholds[in.ID] = true

		current, err := s.repos.Thresholds.GetByID(ctx, in.ID)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, errors.CodeInternal, "failed to read threshold")
		}
		if current == nil {
			fail("threshold", in.ID, "unknown threshold id; the catalog is fixed")
			continue
		}
		if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
			fail("threshold", in.ID, "value must be a finite number")
			continue
		}
		if !current.InBounds(in.Value) {
			fail("threshold", in.ID, fmt.Sprintf("value %v outside bounds [%v, %v]",
				in.Value, current.MinValue, current.MaxValue))
			continue
		}
		if current.Value == in.Value && current.IsActive == in.IsActive {
			continue
		}

		updated := current.Clone()
		updated.Value = in.Value
		updated.IsActive = in.IsActive
		entry := models.NewThresholdAuditEntry(current, current.Value, in.Value,
			actor, constants.ReasonBulkImport, constants.AdjustmentManual)
		updated.LastModified = entry.Timestamp
		updated.LastModifiedBy = actor
		changes = append(changes, domainservice.BulkChange{Updated: updated, Entry: entry})
	}

	var configChanges []domainservice.ConfigChange
	seenConfigs := make(map[string]bool)
	for _, in := range req.Configurations {
		id := in.Section + "/" + in.Key
		if in.Section == "" || in.Key == "" {
			fail("configuration", id, "section and key must not be empty")
			continue
		}
		if seenConfigs[id] {
			fail("configuration", id, "duplicate configuration key in import")
			continue
		}
		seenConfigs[id] = true

		if err := validateConfigValue(in.Value); err != nil {
			fail("configuration", id, err.Error())
			continue
		}

		current, err := s.repos.Configurations.Get(ctx, in.Section, in.Key)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, errors.CodeInternal, "failed to read configuration")
		}
		var previousData json.RawMessage
		if current != nil {
			if bytes.Equal(current.Value, in.Value) {
				continue
			}
			previousData = current.Value
		}

		updated := &models.Configuration{
			Section:        in.Section,
			Key:            in.Key,
			Value:          in.Value,
			LastModified:   time.Now().UTC(),
			LastModifiedBy: actor,
		}
		entry := models.NewConfigurationAuditEntry(updated.EntityID(), previousData, in.Value,
			actor, constants.ReasonBulkImport)
		configChanges = append(configChanges, domainservice.ConfigChange{Updated: updated, Entry: entry})
	}

	return changes, configChanges, failures, nil
}
