// Package dto defines the request and response shapes of the REST surface.
package dto

import (
	"encoding/json"

	"github.com/promoflow/threshold-service/internal/domain/models"
)

// UpdateThresholdRequest is the body of PUT /thresholds/:id (manual path).
type UpdateThresholdRequest struct {
	Value  *float64 `json:"value" binding:"required"`
	Reason string   `json:"reason" binding:"required"`
}

// AdjustThresholdRequest is the body of POST /thresholds/:id/adjust
// (automatic path).
type AdjustThresholdRequest struct {
	Adjustment *float64                   `json:"adjustment" binding:"required"`
	Reason     string                     `json:"reason" binding:"required"`
	Metadata   *models.AdjustmentMetadata `json:"metadata,omitempty"`
}

// ResetThresholdRequest is the body of POST /thresholds/:id/reset.
type ResetThresholdRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SetThresholdActiveRequest is the body of PATCH /thresholds/:id/active.
type SetThresholdActiveRequest struct {
	Active *bool  `json:"active" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// SetConfigurationRequest is the body of PUT /configurations/:section/:key.
type SetConfigurationRequest struct {
	Value json.RawMessage `json:"value"`
}
