package dto

import (
	"encoding/json"
	"time"
)

// ThresholdExport is one threshold row in the bulk transfer document.
// Bounds and descriptive fields are included for the reader's benefit;
// import applies only value and active state against the existing catalog.
type ThresholdExport struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Value        float64 `json:"value"`
	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`
	DefaultValue float64 `json:"default_value"`
	IsActive     bool    `json:"is_active"`
}

// ConfigurationExport is one configuration row in the transfer document.
type ConfigurationExport struct {
	Section string          `json:"section"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
}

// ExportDocument is the versioned point-in-time snapshot of the full
// threshold and configuration state.
type ExportDocument struct {
	SchemaVersion  string                `json:"schema_version"`
	ExportedAt     time.Time             `json:"exported_at"`
	Thresholds     []ThresholdExport     `json:"thresholds"`
	Configurations []ConfigurationExport `json:"configurations"`
}

// ImportRequest is the body of POST /import.
type ImportRequest struct {
	Thresholds     []ThresholdExport     `json:"thresholds"`
	Configurations []ConfigurationExport `json:"configurations"`
}

// ImportFailure describes one entry rejected during import validation.
type ImportFailure struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	Reason     string `json:"reason"`
}
