package models

import "github.com/promoflow/threshold-service/pkg/constants"

// Suggestion is a derived (not persisted) proposal for a new threshold
// value, with a 0-100 confidence score.
type Suggestion struct {
	ThresholdID     string                      `json:"threshold_id"`
	Category        constants.ThresholdCategory `json:"category"`
	CurrentValue    float64                     `json:"current_value"`
	ProposedValue   float64                     `json:"proposed_value"`
	Confidence      int                         `json:"confidence"`
	Rationale       string                      `json:"rationale"`
	SupportingStats *StatisticsSnapshot         `json:"supporting_stats,omitempty"`
}

// Bucket returns the confidence bucket downstream consumers use.
func (s *Suggestion) Bucket() constants.ConfidenceBucket {
	return constants.BucketForConfidence(s.Confidence)
}
