package models

import (
	"time"

	"github.com/promoflow/threshold-service/pkg/constants"
)

// Threshold is a bounded numeric control value consumed by an external
// enforcement system (rate limiter, anomaly detector, etc.). The invariant
// MinValue <= Value <= MaxValue holds at all times; ThresholdStore is the
// only component allowed to mutate Value and IsActive.
type Threshold struct {
	ID           string                      `json:"id"`
	Category     constants.ThresholdCategory `json:"category"`
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	Value        float64                     `json:"value"`
	MinValue     float64                     `json:"min_value"`
	MaxValue     float64                     `json:"max_value"`
	DefaultValue float64                     `json:"default_value"`
	IsActive     bool                        `json:"is_active"`

	// LastModified and LastModifiedBy denormalize the most recent audit
	// entry for fast listing; the audit trail is the source of truth.
	LastModified   time.Time `json:"last_modified"`
	LastModifiedBy string    `json:"last_modified_by"`
}

// InBounds reports whether v satisfies this threshold's bound invariant.
func (t *Threshold) InBounds(v float64) bool {
	return v >= t.MinValue && v <= t.MaxValue
}

// Clamp forces v into [MinValue, MaxValue].
func (t *Threshold) Clamp(v float64) float64 {
	if v < t.MinValue {
		return t.MinValue
	}
	if v > t.MaxValue {
		return t.MaxValue
	}
	return v
}

// Clone returns a deep copy so callers never share the store's instance.
func (t *Threshold) Clone() *Threshold {
	c := *t
	return &c
}
