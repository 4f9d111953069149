package service

import (
	"context"
	"time"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// DefaultCatalog returns the fixed threshold catalog seeded at system
// initialization. The catalog is fixed-at-deploy: thresholds are never
// created or deleted at runtime, only adjusted within their bounds.
func DefaultCatalog() []*models.Threshold {
	now := time.Now().UTC()
	seed := func(id string, category constants.ThresholdCategory, name, description string, min, max, def float64) *models.Threshold {
		return &models.Threshold{
			ID:             id,
			Category:       category,
			Name:           name,
			Description:    description,
			Value:          def,
			MinValue:       min,
			MaxValue:       max,
			DefaultValue:   def,
			IsActive:       true,
			LastModified:   now,
			LastModifiedBy: constants.ActorSystem,
		}
	}

	return []*models.Threshold{
		seed("rate_limit:max_requests_per_minute", constants.CategoryRateLimit,
			"Max requests per minute",
			"Requests per minute allowed per client before throttling kicks in",
			10, 1000, 100),
		seed("rate_limit:burst_size", constants.CategoryRateLimit,
			"Burst size",
			"Short burst allowance above the sustained request rate",
			1, 200, 20),
		seed("anomaly_detection:sensitivity", constants.CategoryAnomalyDetection,
			"Anomaly sensitivity",
			"Sensitivity of the anomaly detector; higher flags more traffic",
			1, 100, 50),
		seed("anomaly_detection:login_failure_count", constants.CategoryAnomalyDetection,
			"Login failure alert count",
			"Failed login attempts within the window before an alert fires",
			3, 50, 10),
		seed("pattern_matching:min_confidence", constants.CategoryPatternMatching,
			"Minimum match confidence",
			"Pattern-match confidence required before a hit is reported",
			1, 100, 75),
		seed("risk_scoring:review_score", constants.CategoryRiskScoring,
			"Manual review score",
			"Risk score above which a request is routed to manual review",
			1, 100, 60),
		seed("risk_scoring:block_score", constants.CategoryRiskScoring,
			"Block score",
			"Risk score above which a request is blocked outright",
			1, 100, 85),
		seed("blacklist:violation_count", constants.CategoryBlacklist,
			"Blacklist violation count",
			"Violations within the window before a client is blacklisted",
			1, 100, 5),
		seed("blacklist:expiry_hours", constants.CategoryBlacklist,
			"Blacklist expiry hours",
			"Hours a blacklist entry stays active before automatic expiry",
			1, 720, 24),
	}
}

// SeedCatalog inserts the default catalog when the store is empty. It is
// idempotent across restarts.
func SeedCatalog(ctx context.Context, repos repository.Repositories, log logger.Logger) error {
	count, err := repos.Thresholds.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	catalog := DefaultCatalog()
	for _, t := range catalog {
		if err := repos.Thresholds.Create(ctx, t); err != nil {
			return err
		}
	}
	log.Info(ctx, "Seeded threshold catalog", logger.Int("count", len(catalog)))
	return nil
}
