package dto

import (
	"net/http"
	"time"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/errors"
)

// Response is the shared envelope of every endpoint. Error is the
// human-readable failure string; Message carries debug detail and is
// omitted for internal failures so that nothing leaks to callers.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps a success payload.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Err converts an error into the failure envelope plus its HTTP status.
func Err(err error) (int, Response) {
	appErr, ok := errors.As(err)
	if !ok || appErr.Code() == errors.CodeInternal {
		return http.StatusInternalServerError, Response{
			Success: false,
			Error:   "internal server error",
		}
	}
	resp := Response{
		Success: false,
		Error:   appErr.Message(),
		Message: string(appErr.Code()),
	}
	if failures, ok := appErr.Metadata()["failures"]; ok {
		resp.Data = failures
	}
	return appErr.HTTPStatus(), resp
}

// ListThresholdsResponse is the payload of GET /thresholds.
type ListThresholdsResponse struct {
	Success bool                `json:"success"`
	Data    []*models.Threshold `json:"data"`
	Total   int                 `json:"total"`
}

// AdjustThresholdResponse echoes the applied adjustment.
type AdjustThresholdResponse struct {
	Success    bool              `json:"success"`
	Data       *models.Threshold `json:"data"`
	Adjustment float64           `json:"adjustment"`
	Reason     string            `json:"reason"`
}

// TimeRange echoes the parsed statistics window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StatisticsResponse is the payload of GET /statistics/thresholds.
type StatisticsResponse struct {
	Success   bool                         `json:"success"`
	Data      []*models.StatisticsSnapshot `json:"data"`
	TimeRange TimeRange                    `json:"timeRange"`
}

// SuggestionSummary counts suggestions per confidence bucket.
type SuggestionSummary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// SuggestionsResponse is the payload of GET /suggestions.
type SuggestionsResponse struct {
	Success bool                 `json:"success"`
	Data    []*models.Suggestion `json:"data"`
	Summary SuggestionSummary    `json:"summary"`
}

// ImportCounts reports how many entities a bulk import changed.
type ImportCounts struct {
	Thresholds     int `json:"thresholds"`
	Configurations int `json:"configurations"`
}

// ImportResponse is the payload of POST /import.
type ImportResponse struct {
	Success  bool         `json:"success"`
	Imported ImportCounts `json:"imported"`
}

// DashboardCategoryCount pairs a category with its threshold count.
type DashboardCategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Active   int    `json:"active"`
}

// DashboardResponse is the payload of GET /dashboard.
type DashboardResponse struct {
	Success          bool                         `json:"success"`
	TotalThresholds  int                          `json:"total_thresholds"`
	ActiveThresholds int                          `json:"active_thresholds"`
	Categories       []DashboardCategoryCount     `json:"categories"`
	TopSuggestions   []*models.Suggestion         `json:"top_suggestions"`
	Summary          SuggestionSummary            `json:"summary"`
	CategoryStats    []*models.StatisticsSnapshot `json:"category_stats"`
	GeneratedAt      time.Time                    `json:"generated_at"`
}
