package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/internal/config"
	"github.com/promoflow/threshold-service/internal/domain/models"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/internal/infrastructure/persistence/memory"
	"github.com/promoflow/threshold-service/internal/interfaces/http/handlers"
	"github.com/promoflow/threshold-service/pkg/logger"
)

type storeActiveReader struct {
	store *domainservice.ThresholdStore
}

func (r storeActiveReader) GetActive(ctx context.Context) ([]*models.Threshold, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*models.Threshold, 0, len(all))
	for _, t := range all {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	log := logger.NewNoop()
	metrics := domainservice.NoopMetrics{}

	backend := memory.New()
	repos := backend.Repositories()
	require.NoError(t, domainservice.SeedCatalog(context.Background(), repos, log))

	barrier := domainservice.NewStateBarrier()
	store := domainservice.NewThresholdStore(backend, repos, barrier, log)

	thresholdSvc := service.NewThresholdAppService(store, repos.Audit, metrics, log)
	configurationSvc := service.NewConfigurationAppService(backend, repos, barrier, log)
	statisticsSvc := service.NewStatisticsAppService(repos.Audit, log)
	suggestionSvc := service.NewSuggestionAppService(store, repos.Audit, metrics, log)
	transferSvc := service.NewTransferAppService(store, repos, barrier, metrics, log)
	dashboardSvc := service.NewDashboardAppService(thresholdSvc, suggestionSvc, statisticsSvc, log)

	cfg := &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		Mode:            "test",
		ShutdownTimeout: time.Second,
	}
	return New(cfg, Handlers{
		Threshold:     handlers.NewThresholdHandler(thresholdSvc, log),
		Configuration: handlers.NewConfigurationHandler(configurationSvc, log),
		Statistics:    handlers.NewStatisticsHandler(statisticsSvc, log),
		Suggestion:    handlers.NewSuggestionHandler(suggestionSvc, log),
		Transfer:      handlers.NewTransferHandler(transferSvc, log),
		Dashboard:     handlers.NewDashboardHandler(dashboardSvc, log),
		Enforcement:   handlers.NewEnforcementHandler(storeActiveReader{store: store}, log),
		Health:        handlers.NewHealthHandler(nil, "test"),
	}, metrics, log)
}

func doJSON(t *testing.T, r *Router, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "alice")

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)

	var payload map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func TestListThresholds(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/thresholds", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, payload["success"])
	assert.EqualValues(t, 9, payload["total"])

	w, payload = doJSON(t, r, http.MethodGet, "/api/v1/thresholds?category=RATE_LIMIT", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, payload["total"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/thresholds?category=BOGUS", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListThresholdsByCategoryPath(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/thresholds/category/RATE_LIMIT", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, payload["total"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/thresholds/category/BOGUS", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetThresholdNotFound(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/thresholds/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, payload["success"])
	assert.NotEmpty(t, payload["error"])
}

func TestUpdateThreshold(t *testing.T) {
	r := newTestRouter(t)
	id := "rate_limit:max_requests_per_minute"

	w, payload := doJSON(t, r, http.MethodPut, "/api/v1/thresholds/"+id,
		`{"value": 250, "reason": "seasonal campaign load"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 250, data["value"])
	assert.Equal(t, "alice", data["last_modified_by"])

	// Out of range is rejected, not clamped.
	w, payload = doJSON(t, r, http.MethodPut, "/api/v1/thresholds/"+id,
		`{"value": 99999, "reason": "way too high"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "out_of_bounds", payload["message"])

	// Missing reason fails binding.
	w, _ = doJSON(t, r, http.MethodPut, "/api/v1/thresholds/"+id, `{"value": 250}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustThresholdClamps(t *testing.T) {
	r := newTestRouter(t)
	id := "rate_limit:max_requests_per_minute"

	w, payload := doJSON(t, r, http.MethodPost, "/api/v1/thresholds/"+id+"/adjust",
		`{"adjustment": 5000, "reason": "traffic surge"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 1000, data["value"])
	assert.Equal(t, "system", data["last_modified_by"])
	assert.EqualValues(t, 5000, payload["adjustment"])
}

func TestResetAndHistory(t *testing.T) {
	r := newTestRouter(t)
	id := "rate_limit:max_requests_per_minute"

	_, _ = doJSON(t, r, http.MethodPut, "/api/v1/thresholds/"+id,
		`{"value": 500, "reason": "experiment"}`)
	w, payload := doJSON(t, r, http.MethodPost, "/api/v1/thresholds/"+id+"/reset",
		`{"reason": "rollback"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 100, data["value"])

	w, payload = doJSON(t, r, http.MethodGet, "/api/v1/thresholds/"+id+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := payload["data"].([]interface{})
	require.Len(t, entries, 2)
	newest := entries[0].(map[string]interface{})
	assert.EqualValues(t, 100, newest["new_value"])
}

func TestSetActive(t *testing.T) {
	r := newTestRouter(t)
	id := "blacklist:violation_count"

	w, payload := doJSON(t, r, http.MethodPatch, "/api/v1/thresholds/"+id+"/active",
		`{"active": false, "reason": "maintenance window"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_active"])

	w, payload = doJSON(t, r, http.MethodGet, "/api/v1/enforcement/thresholds", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 8, payload["total"])
}

func TestConfigurationEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPut, "/api/v1/configurations/alerts/channel",
		`{"value": "pagerduty"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/configurations/alerts/channel", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "pagerduty", data["value"])

	w, payload = doJSON(t, r, http.MethodGet, "/api/v1/configurations/alerts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, payload["data"], 1)

	w, payload = doJSON(t, r, http.MethodGet, "/api/v1/configurations/alerts?key=channel", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = payload["data"].(map[string]interface{})
	assert.Equal(t, "pagerduty", data["value"])

	w, _ = doJSON(t, r, http.MethodPut, "/api/v1/configurations/alerts/channel",
		`{"value": null}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/configurations/alerts/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/statistics/thresholds", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, payload, "timeRange")

	w, payload = doJSON(t, r, http.MethodGet,
		"/api/v1/statistics/thresholds?startDate=2026-08-01&endDate=2026-08-22", "")
	require.Equal(t, http.StatusOK, w.Code)
	window := payload["timeRange"].(map[string]interface{})
	assert.Contains(t, window["start"], "2026-08-01")

	w, payload = doJSON(t, r, http.MethodGet,
		"/api/v1/statistics/thresholds?start=2026-08-22&end=2026-08-21", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_range", payload["message"])
}

func TestSuggestionsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/suggestions", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := payload["summary"].(map[string]interface{})
	// No adjustment history: every active threshold suggests itself at low confidence.
	assert.EqualValues(t, 9, summary["low"])
}

func TestExportImportRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := json.Marshal(payload["data"])
	require.NoError(t, err)

	w, payload = doJSON(t, r, http.MethodPost, "/api/v1/import", string(doc))
	require.Equal(t, http.StatusOK, w.Code)
	imported := payload["imported"].(map[string]interface{})
	assert.EqualValues(t, 0, imported["thresholds"])

	w, payload = doJSON(t, r, http.MethodPost, "/api/v1/import",
		`{"thresholds": [{"id": "ghost", "value": 1}, {"id": "rate_limit:burst_size", "value": 9999}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	failures := payload["data"].([]interface{})
	assert.Len(t, failures, 2)
}

func TestDashboardAndHealth(t *testing.T) {
	r := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 9, payload["total_thresholds"])

	w, payload = doJSON(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", payload["status"])

	w, payload = doJSON(t, r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", payload["status"])
}
