package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

func testConfig(section, key, value string) *models.Configuration {
	return &models.Configuration{
		Section:        section,
		Key:            key,
		Value:          json.RawMessage(value),
		LastModified:   time.Now().UTC(),
		LastModifiedBy: "tester",
	}
}

func newConfigurationService(f *fixture) ConfigurationAppService {
	return NewConfigurationAppService(f.backend, f.repos, f.barrier, logger.NewNoop())
}

func TestSetConfigurationCreatesAndAudits(t *testing.T) {
	f := newFixture(t)
	svc := newConfigurationService(f)
	ctx := context.Background()

	cfg, err := svc.SetConfiguration(ctx, "alerts", "channel", json.RawMessage(`"pagerduty"`), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.LastModifiedBy)

	got, err := svc.GetConfiguration(ctx, "alerts", "channel")
	require.NoError(t, err)
	assert.JSONEq(t, `"pagerduty"`, string(got.Value))

	entries, err := f.repos.Audit.Query(ctx, repository.AuditFilter{
		EntityKind: constants.EntityKindConfiguration,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alerts/channel", entries[0].EntityID)
	assert.Nil(t, entries[0].PreviousData)
	assert.JSONEq(t, `"pagerduty"`, string(entries[0].NewData))
}

func TestSetConfigurationRecordsPreviousValue(t *testing.T) {
	f := newFixture(t)
	svc := newConfigurationService(f)
	ctx := context.Background()

	_, err := svc.SetConfiguration(ctx, "alerts", "channel", json.RawMessage(`"pagerduty"`), "alice")
	require.NoError(t, err)
	_, err = svc.SetConfiguration(ctx, "alerts", "channel", json.RawMessage(`"slack"`), "bob")
	require.NoError(t, err)

	entries, err := f.repos.Audit.Query(ctx, repository.AuditFilter{
		EntityKind: constants.EntityKindConfiguration,
		Descending: true,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `"pagerduty"`, string(entries[0].PreviousData))
	assert.JSONEq(t, `"slack"`, string(entries[0].NewData))
}

func TestSetConfigurationRejectsInvalidValues(t *testing.T) {
	f := newFixture(t)
	svc := newConfigurationService(f)
	ctx := context.Background()

	tests := []struct {
		name  string
		value json.RawMessage
	}{
		{"missing value", nil},
		{"null literal", json.RawMessage(`null`)},
		{"malformed json", json.RawMessage(`{"a":`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetConfiguration(ctx, "alerts", "channel", tt.value, "alice")
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestGetConfigurationNotFound(t *testing.T) {
	f := newFixture(t)
	svc := newConfigurationService(f)

	_, err := svc.GetConfiguration(context.Background(), "alerts", "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestListSectionReturnsAllKeys(t *testing.T) {
	f := newFixture(t)
	svc := newConfigurationService(f)
	ctx := context.Background()

	_, err := svc.SetConfiguration(ctx, "alerts", "channel", json.RawMessage(`"slack"`), "alice")
	require.NoError(t, err)
	_, err = svc.SetConfiguration(ctx, "alerts", "escalation_minutes", json.RawMessage(`15`), "alice")
	require.NoError(t, err)
	_, err = svc.SetConfiguration(ctx, "reporting", "interval", json.RawMessage(`"daily"`), "alice")
	require.NoError(t, err)

	configs, err := svc.ListSection(ctx, "alerts")
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "channel", configs[0].Key)
	assert.Equal(t, "escalation_minutes", configs[1].Key)

	empty, err := svc.ListSection(ctx, "unknown_section")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
