package service

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/promoflow/threshold-service/internal/application/dto"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// DashboardAppService assembles the admin dashboard summary. The summary
// is recomputed at most once per cache TTL; the admin UI polls it often
// and tolerates that much staleness.
type DashboardAppService interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardAppService struct {
	thresholds  ThresholdAppService
	suggestions SuggestionAppService
	statistics  StatisticsAppService
	cache       *gocache.Cache
	log         logger.Logger
}

// NewDashboardAppService creates the dashboard application service.
func NewDashboardAppService(thresholds ThresholdAppService, suggestions SuggestionAppService, statistics StatisticsAppService, log logger.Logger) DashboardAppService {
	return &dashboardAppService{
		thresholds:  thresholds,
		suggestions: suggestions,
		statistics:  statistics,
		cache:       gocache.New(constants.DashboardCacheTTL, 2*constants.DashboardCacheTTL),
		log:         log.WithComponent("dashboard_service"),
	}
}

func (s *dashboardAppService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if cached, ok := s.cache.Get(constants.CacheKeyDashboard); ok {
		return cached.(*dto.DashboardResponse), nil
	}

	thresholds, err := s.thresholds.GetAllThresholds(ctx)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.suggestions.SuggestOptimizations(ctx)
	if err != nil {
		return nil, err
	}
	stats, _, err := s.statistics.GetThresholdStatistics(ctx, "", "")
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Success:        true,
		Categories:     categoryCounts(thresholds),
		TopSuggestions: topSuggestions(suggestions, 5),
		Summary:        SummarizeSuggestions(suggestions),
		CategoryStats:  stats,
		GeneratedAt:    time.Now().UTC(),
	}
	resp.TotalThresholds = len(thresholds)
	for _, t := range thresholds {
		if t.IsActive {
			resp.ActiveThresholds++
		}
	}

	s.cache.Set(constants.CacheKeyDashboard, resp, gocache.DefaultExpiration)
	return resp, nil
}

// SummarizeSuggestions counts suggestions per confidence bucket.
func SummarizeSuggestions(suggestions []*models.Suggestion) dto.SuggestionSummary {
	var summary dto.SuggestionSummary
	for _, sg := range suggestions {
		switch sg.Bucket() {
		case constants.ConfidenceHigh:
			summary.High++
		case constants.ConfidenceMedium:
			summary.Medium++
		default:
			summary.Low++
		}
	}
	return summary
}

func categoryCounts(thresholds []*models.Threshold) []dto.DashboardCategoryCount {
	counts := make(map[constants.ThresholdCategory]*dto.DashboardCategoryCount)
	for _, t := range thresholds {
		c, ok := counts[t.Category]
		if !ok {
			c = &dto.DashboardCategoryCount{Category: string(t.Category)}
			counts[t.Category] = c
		}
		c.Count++
		if t.IsActive {
			c.Active++
		}
	}

	out := make([]dto.DashboardCategoryCount, 0, len(counts))
	for _, category := range constants.AllCategories {
		if c, ok := counts[category]; ok {
			out = append(out, *c)
		}
	}
	return out
}

func topSuggestions(suggestions []*models.Suggestion, limit int) []*models.Suggestion {
	sorted := make([]*models.Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
