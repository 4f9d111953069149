// Package memory provides an in-memory implementation of the repository
// interfaces. It backs unit tests and the "memory" database driver used for
// local development; production deployments use the gorm implementation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
)

// Store holds all collections behind one mutex. Writes made inside InTx are
// applied directly; callers are expected to validate before writing, which
// every mutation path in this service does.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	thresholds map[string]*models.Threshold
	configs    map[string]*models.Configuration
	audit      []*models.AuditEntry
	seq        int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		thresholds: make(map[string]*models.Threshold),
		configs:    make(map[string]*models.Configuration),
	}
}

// Repositories returns repository views over this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Thresholds:     &thresholdRepo{s},
		Audit:          &auditRepo{s},
		Configurations: &configRepo{s},
	}
}

// InTx serializes multi-entity writes against each other. There is no
// rollback: validation happens before any write in all mutation paths.
func (s *Store) InTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.Repositories())
}

// ================================================================================
// ThresholdRepository
// ================================================================================

type thresholdRepo struct {
	store *Store
}

func (r *thresholdRepo) GetByID(ctx context.Context, id string) (*models.Threshold, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.thresholds[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

func (r *thresholdRepo) List(ctx context.Context) ([]*models.Threshold, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*models.Threshold, 0, len(r.store.thresholds))
	for _, t := range r.store.thresholds {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *thresholdRepo) ListByCategory(ctx context.Context, category constants.ThresholdCategory) ([]*models.Threshold, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Threshold, 0, len(all))
	for _, t := range all {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *thresholdRepo) Save(ctx context.Context, threshold *models.Threshold) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.thresholds[threshold.ID] = threshold.Clone()
	return nil
}

func (r *thresholdRepo) Create(ctx context.Context, threshold *models.Threshold) error {
	return r.Save(ctx, threshold)
}

func (r *thresholdRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.thresholds)), nil
}

// ================================================================================
// AuditRepository
// ================================================================================

type auditRepo struct {
	store *Store
}

func (r *auditRepo) Append(ctx context.Context, entry *models.AuditEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.seq++
	entry.Seq = r.store.seq
	clone := *entry
	r.store.audit = append(r.store.audit, &clone)
	return nil
}

func (r *auditRepo) Query(ctx context.Context, filter repository.AuditFilter) ([]*models.AuditEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*models.AuditEntry, 0)
	for _, e := range r.store.audit {
		if !matches(e, filter) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			if filter.Descending {
				return out[i].Seq > out[j].Seq
			}
			return out[i].Seq < out[j].Seq
		}
		if filter.Descending {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matches(e *models.AuditEntry, f repository.AuditFilter) bool {
	if f.EntityKind != "" && e.EntityKind != f.EntityKind {
		return false
	}
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.AdjustmentType != "" && e.AdjustmentType != f.AdjustmentType {
		return false
	}
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Timestamp.After(f.To) {
		return false
	}
	return true
}

// ================================================================================
// ConfigurationRepository
// ================================================================================

type configRepo struct {
	store *Store
}

func configKey(section, key string) string {
	return section + "/" + key
}

func (r *configRepo) Get(ctx context.Context, section, key string) (*models.Configuration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.configs[configKey(section, key)]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *configRepo) ListSection(ctx context.Context, section string) ([]*models.Configuration, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Configuration, 0)
	for _, c := range all {
		if c.Section == section {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *configRepo) List(ctx context.Context) ([]*models.Configuration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*models.Configuration, 0, len(r.store.configs))
	for _, c := range r.store.configs {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section == out[j].Section {
			return out[i].Key < out[j].Key
		}
		return strings.Compare(out[i].Section, out[j].Section) < 0
	})
	return out, nil
}

func (r *configRepo) Upsert(ctx context.Context, cfg *models.Configuration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *cfg
	if clone.LastModified.IsZero() {
		clone.LastModified = time.Now().UTC()
	}
	r.store.configs[configKey(cfg.Section, cfg.Key)] = &clone
	return nil
}
