package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/promoflow/threshold-service/pkg/constants"
)

// AuditEntry records a single mutation. Entries are append-only and
// immutable once written; they are the sole source of historical truth
// for statistics and suggestions.
type AuditEntry struct {
	ID         uuid.UUID            `json:"id"`
	Seq        int64                `json:"seq"`
	EntityKind constants.EntityKind `json:"entity_kind"`
	EntityID   string               `json:"entity_id"`

	// Category is denormalized from the threshold for aggregation queries.
	// Empty for configuration entries.
	Category constants.ThresholdCategory `json:"category,omitempty"`

	// PreviousValue and NewValue carry the numeric transition for threshold
	// entries; PreviousData and NewData carry the opaque JSON transition for
	// configuration entries. Exactly one pair is populated per entry.
	PreviousValue *float64        `json:"previous_value,omitempty"`
	NewValue      *float64        `json:"new_value,omitempty"`
	PreviousData  json.RawMessage `json:"previous_data,omitempty"`
	NewData       json.RawMessage `json:"new_data,omitempty"`

	Actor          string                   `json:"actor"`
	Reason         string                   `json:"reason"`
	AdjustmentType constants.AdjustmentType `json:"adjustment_type"`

	// Metadata is only set for AUTOMATIC entries.
	Metadata *AdjustmentMetadata `json:"metadata,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// AdjustmentMetadata is the bounded record attached to automatic
// adjustments. It feeds the suggestion engine's confidence computation.
type AdjustmentMetadata struct {
	SourceSignal     string `json:"source_signal,omitempty"`
	SampleSize       int    `json:"sample_size,omitempty"`
	TriggeringStatID string `json:"triggering_stat_id,omitempty"`
}

// NewThresholdAuditEntry creates an audit entry for a threshold transition.
func NewThresholdAuditEntry(t *Threshold, previous, next float64, actor, reason string, adjustment constants.AdjustmentType) *AuditEntry {
	return &AuditEntry{
		ID:             uuid.New(),
		EntityKind:     constants.EntityKindThreshold,
		EntityID:       t.ID,
		Category:       t.Category,
		PreviousValue:  &previous,
		NewValue:       &next,
		Actor:          actor,
		Reason:         reason,
		AdjustmentType: adjustment,
		Timestamp:      time.Now().UTC(),
	}
}

// NewConfigurationAuditEntry creates an audit entry for a configuration upsert.
func NewConfigurationAuditEntry(entityID string, previous, next json.RawMessage, actor, reason string) *AuditEntry {
	return &AuditEntry{
		ID:             uuid.New(),
		EntityKind:     constants.EntityKindConfiguration,
		EntityID:       entityID,
		PreviousData:   previous,
		NewData:        next,
		Actor:          actor,
		Reason:         reason,
		AdjustmentType: constants.AdjustmentManual,
		Timestamp:      time.Now().UTC(),
	}
}

// WithMetadata attaches automatic-adjustment metadata.
func (e *AuditEntry) WithMetadata(meta *AdjustmentMetadata) *AuditEntry {
	e.Metadata = meta
	return e
}

// Delta returns the signed value change for threshold entries, or 0.
func (e *AuditEntry) Delta() float64 {
	if e.PreviousValue == nil || e.NewValue == nil {
		return 0
	}
	return *e.NewValue - *e.PreviousValue
}
