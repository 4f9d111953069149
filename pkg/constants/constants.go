// Package constants defines system-wide constants for the threshold service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Threshold Category Constants
// ================================================================================

// ThresholdCategory classifies the purpose of a threshold. The set is closed:
// unknown values are rejected at every boundary instead of passed through.
type ThresholdCategory string

const (
	// CategoryRateLimit drives request rate limiting decisions
	CategoryRateLimit ThresholdCategory = "RATE_LIMIT"

	// CategoryAnomalyDetection drives anomaly detection sensitivity
	CategoryAnomalyDetection ThresholdCategory = "ANOMALY_DETECTION"

	// CategoryPatternMatching drives pattern-match confidence cut-offs
	CategoryPatternMatching ThresholdCategory = "PATTERN_MATCHING"

	// CategoryRiskScoring drives risk scoring boundaries
	CategoryRiskScoring ThresholdCategory = "RISK_SCORING"

	// CategoryBlacklist drives blacklist trigger conditions
	CategoryBlacklist ThresholdCategory = "BLACKLIST"
)

// AllCategories lists every valid category in stable order.
var AllCategories = []ThresholdCategory{
	CategoryRateLimit,
	CategoryAnomalyDetection,
	CategoryPatternMatching,
	CategoryRiskScoring,
	CategoryBlacklist,
}

// ParseCategory converts a raw string into a ThresholdCategory.
// It returns false when the value is not one of the fixed five.
func ParseCategory(raw string) (ThresholdCategory, bool) {
	c := ThresholdCategory(raw)
	switch c {
	case CategoryRateLimit, CategoryAnomalyDetection, CategoryPatternMatching,
		CategoryRiskScoring, CategoryBlacklist:
		return c, true
	}
	return "", false
}

// IsValid reports whether the category is one of the fixed five.
func (c ThresholdCategory) IsValid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// ================================================================================
// Adjustment Type Constants
// ================================================================================

// AdjustmentType distinguishes the two mutation paths for a threshold.
type AdjustmentType string

const (
	// AdjustmentManual is a human-initiated change, validated strictly
	AdjustmentManual AdjustmentType = "MANUAL"

	// AdjustmentAutomatic is a system-initiated delta change, clamped into bounds
	AdjustmentAutomatic AdjustmentType = "AUTOMATIC"
)

// ================================================================================
// Audit Entity Kind Constants
// ================================================================================

// EntityKind identifies which collection an audit entry refers to.
type EntityKind string

const (
	// EntityKindThreshold marks audit entries for threshold mutations
	EntityKindThreshold EntityKind = "threshold"

	// EntityKindConfiguration marks audit entries for configuration mutations
	EntityKindConfiguration EntityKind = "configuration"
)

// ================================================================================
// Actor Constants
// ================================================================================

const (
	// ActorSystem is the actor recorded for automatic adjustments
	ActorSystem = "system"

	// ReasonBulkImport is the audit reason recorded for bulk import writes
	ReasonBulkImport = "bulk import"
)

// ================================================================================
// Suggestion Constants
// ================================================================================

const (
	// SuggestionWindow is the lookback window for automatic adjustment history
	SuggestionWindow = 7 * 24 * time.Hour

	// SuggestionSampleSaturation is the sample count at which the sample-size
	// confidence signal saturates
	SuggestionSampleSaturation = 10

	// ConfidenceHighMin is the lower bound of the high confidence bucket
	ConfidenceHighMin = 80

	// ConfidenceMediumMin is the lower bound of the medium confidence bucket
	ConfidenceMediumMin = 60
)

// ConfidenceBucket labels a confidence range for downstream consumers.
type ConfidenceBucket string

const (
	// ConfidenceHigh covers confidence >= 80
	ConfidenceHigh ConfidenceBucket = "high"

	// ConfidenceMedium covers confidence 60-79
	ConfidenceMedium ConfidenceBucket = "medium"

	// ConfidenceLow covers confidence < 60
	ConfidenceLow ConfidenceBucket = "low"
)

// BucketForConfidence maps an integer confidence to its bucket.
func BucketForConfidence(confidence int) ConfidenceBucket {
	switch {
	case confidence >= ConfidenceHighMin:
		return ConfidenceHigh
	case confidence >= ConfidenceMediumMin:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ================================================================================
// Export Schema Constants
// ================================================================================

const (
	// ExportSchemaVersion tags the bulk export document format
	ExportSchemaVersion = "1.0"
)

// ================================================================================
// Database Table Name Constants
// ================================================================================

const (
	// TableNameThresholds is the name of the thresholds table
	TableNameThresholds = "thresholds"

	// TableNameAuditEntries is the name of the audit entries table
	TableNameAuditEntries = "audit_entries"

	// TableNameConfigurations is the name of the configurations table
	TableNameConfigurations = "configurations"
)

// ================================================================================
// Cache Key Constants
// ================================================================================

const (
	// CacheKeyActiveThresholds is the redis key for the active threshold list
	CacheKeyActiveThresholds = "thresholds:active"

	// CacheKeyDashboard is the local cache key for the dashboard summary
	CacheKeyDashboard = "dashboard:summary"

	// ActiveThresholdCacheTTL bounds staleness for enforcement-side consumers
	ActiveThresholdCacheTTL = 30 * time.Second

	// DashboardCacheTTL bounds recomputation of the dashboard summary
	DashboardCacheTTL = 30 * time.Second
)

// ================================================================================
// Service Configuration Constants
// ================================================================================

const (
	// DefaultServicePort is the default HTTP service port
	DefaultServicePort = 8080

	// DefaultShutdownTimeout is the graceful shutdown timeout
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultHistoryLimit caps audit history listings for the admin UI
	DefaultHistoryLimit = 50
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context.
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyUserID is the key for the acting operator in context
	ContextKeyUserID ContextKey = "user_id"
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages.
type LogLevel string

const (
	// LogLevelDebug is the most verbose logging level
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo is the standard informational logging level
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn indicates potential issues
	LogLevelWarn LogLevel = "warn"

	// LogLevelError indicates errors that need attention
	LogLevelError LogLevel = "error"
)
