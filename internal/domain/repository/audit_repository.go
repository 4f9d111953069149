package repository

import (
	"context"
	"time"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
)

// AuditFilter narrows an audit query. Zero-valued fields are ignored.
type AuditFilter struct {
	EntityKind     constants.EntityKind
	EntityID       string
	Category       constants.ThresholdCategory
	AdjustmentType constants.AdjustmentType
	From           time.Time
	To             time.Time

	// Limit caps the result size; 0 means no limit.
	Limit int

	// Descending orders newest-first when set; the default order is
	// timestamp ascending with the insertion sequence breaking ties.
	Descending bool
}

// Validate rejects an inverted time window. Both implementations call it
// before touching storage, so every caller gets the same invalid_range
// error instead of a silently empty result.
func (f AuditFilter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return errors.InvalidRange("audit window start %s is after end %s",
			f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	}
	return nil
}

// AuditRepository is the append-only audit trail. Entries are immutable
// once appended; Append assigns the tie-breaking sequence number.
type AuditRepository interface {
	// Append stores a new entry and fills in its Seq.
	Append(ctx context.Context, entry *models.AuditEntry) error

	// Query returns entries matching the filter, ordered by timestamp
	// then sequence.
	Query(ctx context.Context, filter AuditFilter) ([]*models.AuditEntry, error)
}
