package models

import (
	"time"

	"github.com/promoflow/threshold-service/pkg/constants"
)

// StatisticsSnapshot is a derived (not persisted) per-category view of
// adjustment activity inside a time window. Volatility is the population
// standard deviation of the new values recorded in the window.
type StatisticsSnapshot struct {
	Category        constants.ThresholdCategory `json:"category"`
	PeriodStart     time.Time                   `json:"period_start"`
	PeriodEnd       time.Time                   `json:"period_end"`
	AdjustmentCount int                         `json:"adjustment_count"`
	AverageValue    float64                     `json:"average_value"`
	Volatility      float64                     `json:"volatility"`
}
