// Package service holds the domain services of the threshold engine.
package service

import (
	"context"
	"sync"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// Mutation describes one intended change to a threshold. The decide callback
// of Apply returns it after inspecting the latest committed state.
type Mutation struct {
	// NewValue, when set, must already satisfy the caller's policy
	// (manual updates reject out-of-range, automatic updates clamp).
	// The store still enforces the bound invariant as a hard failure.
	NewValue *float64

	// NewActive, when set, toggles the active flag.
	NewActive *bool

	Actor          string
	Reason         string
	AdjustmentType constants.AdjustmentType
	Metadata       *models.AdjustmentMetadata
}

// CommitHook observes committed mutations, outside the critical section.
// Used for cache invalidation and audit event publication.
type CommitHook func(entry *models.AuditEntry, updated *models.Threshold)

// ThresholdStore exclusively owns the canonical threshold collection. All
// value and active-flag mutations flow through Apply, which serializes
// writers per id and pairs every state transition with exactly one audit
// entry inside the same transaction.
type ThresholdStore struct {
	atomic  repository.Atomic
	repos   repository.Repositories
	barrier *StateBarrier
	log     logger.Logger

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	hookMu sync.RWMutex
	hooks  []CommitHook
}

// NewThresholdStore creates the store around a persistence backend.
func NewThresholdStore(atomic repository.Atomic, repos repository.Repositories, barrier *StateBarrier, log logger.Logger) *ThresholdStore {
	return &ThresholdStore{
		atomic:  atomic,
		repos:   repos,
		barrier: barrier,
		log:     log.WithComponent("threshold_store"),
		locks:   make(map[string]*sync.Mutex),
	}
}

// AddCommitHook registers a hook invoked after every committed mutation.
func (s *ThresholdStore) AddCommitHook(hook CommitHook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Get returns one threshold or a not_found error.
func (s *ThresholdStore) Get(ctx context.Context, id string) (*models.Threshold, error) {
	t, err := s.repos.Thresholds.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read threshold")
	}
	if t == nil {
		return nil, errors.NotFound("threshold not found: %s", id)
	}
	return t, nil
}

// List returns the full catalog ordered by id.
func (s *ThresholdStore) List(ctx context.Context) ([]*models.Threshold, error) {
	out, err := s.repos.Thresholds.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list thresholds")
	}
	return out, nil
}

// ListByCategory returns one category's thresholds; the category must be
// one of the fixed five.
func (s *ThresholdStore) ListByCategory(ctx context.Context, category constants.ThresholdCategory) ([]*models.Threshold, error) {
	if !category.IsValid() {
		return nil, errors.InvalidCategory(string(category))
	}
	out, err := s.repos.Thresholds.ListByCategory(ctx, category)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list thresholds by category")
	}
	return out, nil
}

// Apply runs a read-modify-write cycle against one threshold. The decide
// callback observes the latest committed state after the per-id lock is
// acquired, so concurrent writers to the same id never operate on a stale
// snapshot. A nil Mutation from decide is a no-op.
//
// Once decide succeeds, the commit runs to completion even if the caller's
// context is cancelled; callers observing a timeout must check committed
// state before retrying.
func (s *ThresholdStore) Apply(ctx context.Context, id string, decide func(current *models.Threshold) (*Mutation, error)) (*models.Threshold, error) {
	s.barrier.AcquireShared()
	defer s.barrier.ReleaseShared()

	unlock := s.lock(id)
	defer unlock()

	current, err := s.repos.Thresholds.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read threshold")
	}
	if current == nil {
		return nil, errors.NotFound("threshold not found: %s", id)
	}

	m, err := decide(current.Clone())
	if err != nil {
		return nil, err
	}
	if m == nil {
		return current, nil
	}

	updated := current.Clone()
	if m.NewValue != nil {
		if !current.InBounds(*m.NewValue) {
			return nil, errors.OutOfBounds(
				"value %v outside bounds [%v, %v] for threshold %s",
				*m.NewValue, current.MinValue, current.MaxValue, id)
		}
		updated.Value = *m.NewValue
	}
	if m.NewActive != nil {
		updated.IsActive = *m.NewActive
	}

	entry := models.NewThresholdAuditEntry(current, current.Value, updated.Value, m.Actor, m.Reason, m.AdjustmentType)
	if m.Metadata != nil {
		entry.WithMetadata(m.Metadata)
	}
	updated.LastModified = entry.Timestamp
	updated.LastModifiedBy = m.Actor

	// The write must not be aborted mid-commit by a caller timeout.
	commitCtx := context.WithoutCancel(ctx)
	err = s.atomic.InTx(commitCtx, func(r repository.Repositories) error {
		if err := r.Thresholds.Save(commitCtx, updated); err != nil {
			return err
		}
		return r.Audit.Append(commitCtx, entry)
	})
	if err != nil {
		s.log.Error(ctx, "Threshold mutation commit failed", err,
			logger.String("threshold_id", id),
			logger.String("adjustment_type", string(m.AdjustmentType)))
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to commit threshold mutation")
	}

	s.notify(entry, updated)
	return updated, nil
}

// BulkChange is one pre-validated import update. The caller must hold the
// collection barrier in exclusive mode while applying bulk changes.
type BulkChange struct {
	Updated *models.Threshold
	Entry   *models.AuditEntry
}

// ConfigChange is one pre-validated configuration upsert applied alongside
// threshold changes in the same import transaction.
type ConfigChange struct {
	Updated *models.Configuration
	Entry   *models.AuditEntry
}

// BulkApply commits a set of threshold and configuration changes, with
// their audit entries, as one transaction. Validation belongs to the
// import service; bounds are re-checked here as a hard invariant.
func (s *ThresholdStore) BulkApply(ctx context.Context, changes []BulkChange, configs []ConfigChange) error {
	commitCtx := context.WithoutCancel(ctx)
	err := s.atomic.InTx(commitCtx, func(r repository.Repositories) error {
		for _, c := range changes {
			if !c.Updated.InBounds(c.Updated.Value) {
				return errors.OutOfBounds("value %v outside bounds for threshold %s",
					c.Updated.Value, c.Updated.ID)
			}
			if err := r.Thresholds.Save(commitCtx, c.Updated); err != nil {
				return err
			}
			if err := r.Audit.Append(commitCtx, c.Entry); err != nil {
				return err
			}
		}
		for _, c := range configs {
			if err := r.Configurations.Upsert(commitCtx, c.Updated); err != nil {
				return err
			}
			if err := r.Audit.Append(commitCtx, c.Entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, c := range changes {
		s.notify(c.Entry, c.Updated)
	}
	return nil
}

func (s *ThresholdStore) lock(id string) func() {
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

func (s *ThresholdStore) notify(entry *models.AuditEntry, updated *models.Threshold) {
	s.hookMu.RLock()
	hooks := s.hooks
	s.hookMu.RUnlock()
	for _, hook := range hooks {
		hook(entry, updated)
	}
}
