package service

import "time"

// Metrics defines the interface for collecting business metrics. The
// abstraction keeps the application layer independent of the monitoring
// implementation (Prometheus in production).
type Metrics interface {
	// RecordThresholdMutation records a committed or rejected mutation.
	RecordThresholdMutation(category, adjustmentType, result string)

	// RecordClampedAdjustment records an automatic adjustment that hit a bound.
	RecordClampedAdjustment(category string)

	// RecordOutOfBoundsRejection records a manual update rejected for bounds.
	RecordOutOfBoundsRejection(category string)

	// RecordImport records a bulk import attempt and its size.
	RecordImport(thresholds, configurations int, success bool)

	// RecordSuggestionBucket records the confidence bucket of one suggestion.
	RecordSuggestionBucket(bucket string)

	// RecordHTTPRequest records a handled HTTP request.
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
}

// NoopMetrics discards all observations. Used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordThresholdMutation(string, string, string)          {}
func (NoopMetrics) RecordClampedAdjustment(string)                          {}
func (NoopMetrics) RecordOutOfBoundsRejection(string)                       {}
func (NoopMetrics) RecordImport(int, int, bool)                             {}
func (NoopMetrics) RecordSuggestionBucket(string)                           {}
func (NoopMetrics) RecordHTTPRequest(string, string, int, time.Duration)    {}
