package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/application/dto"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

func newTransferFixture(t *testing.T) (*fixture, TransferAppService) {
	t.Helper()
	f := newFixture(t)
	return f, NewTransferAppService(f.store, f.repos, f.barrier, domainservice.NoopMetrics{}, logger.NewNoop())
}

func TestExportSnapshotsFullState(t *testing.T) {
	f, svc := newTransferFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)
	f.seed(t, "rl:burst", 20, 1, 200)
	require.NoError(t, f.repos.Configurations.Upsert(context.Background(), testConfig("alerts", "channel", `"pagerduty"`)))

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, constants.ExportSchemaVersion, doc.SchemaVersion)
	assert.False(t, doc.ExportedAt.IsZero())
	require.Len(t, doc.Thresholds, 2)
	require.Len(t, doc.Configurations, 1)
	assert.Equal(t, "rl:burst", doc.Thresholds[0].ID)
	assert.Equal(t, "alerts", doc.Configurations[0].Section)
}

func TestImportRoundTripIsNoOp(t *testing.T) {
	f, svc := newTransferFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)
	require.NoError(t, f.repos.Configurations.Upsert(context.Background(), testConfig("alerts", "channel", `"pagerduty"`)))
	ctx := context.Background()

	doc, err := svc.Export(ctx)
	require.NoError(t, err)

	counts, err := svc.Import(ctx, &dto.ImportRequest{
		Thresholds:     doc.Thresholds,
		Configurations: doc.Configurations,
	}, "importer")
	require.NoError(t, err)
	assert.Zero(t, counts.Thresholds)
	assert.Zero(t, counts.Configurations)

	entries, err := f.repos.Audit.Query(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportAppliesChanges(t *testing.T) {
	f, svc := newTransferFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)
	ctx := context.Background()

	counts, err := svc.Import(ctx, &dto.ImportRequest{
		Thresholds: []dto.ThresholdExport{{ID: "rl:max", Value: 400, IsActive: true}},
		Configurations: []dto.ConfigurationExport{{
			Section: "alerts", Key: "channel", Value: json.RawMessage(`"slack"`),
		}},
	}, "importer")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Thresholds)
	assert.Equal(t, 1, counts.Configurations)

	updated, err := f.store.Get(ctx, "rl:max")
	require.NoError(t, err)
	assert.Equal(t, 400.0, updated.Value)
	assert.Equal(t, "importer", updated.LastModifiedBy)

	entries, err := f.repos.Audit.Query(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, constants.ReasonBulkImport, e.Reason)
	}
}

func TestImportCollectsEveryFailure(t *testing.T) {
	f, svc := newTransferFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)
	ctx := context.Background()

	_, err := svc.Import(ctx, &dto.ImportRequest{
		Thresholds: []dto.ThresholdExport{
			{ID: "ghost", Value: 50},
			{ID: "rl:max", Value: 9999},
			{ID: "rl:max", Value: 200},
		},
		Configurations: []dto.ConfigurationExport{
			{Section: "", Key: "channel", Value: json.RawMessage(`"slack"`)},
			{Section: "alerts", Key: "channel", Value: json.RawMessage(`null`)},
		},
	}, "importer")
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeImportValidation, appErr.Code())

	failures, ok := appErr.Metadata()["failures"].([]dto.ImportFailure)
	require.True(t, ok)
	assert.Len(t, failures, 5)
}

func TestImportIsAtomic(t *testing.T) {
	f, svc := newTransferFixture(t)
	f.seed(t, "rl:max", 100, 10, 1000)
	f.seed(t, "rl:burst", 20, 1, 200)
	ctx := context.Background()

	// One invalid entry rejects the whole document.
	_, err := svc.Import(ctx, &dto.ImportRequest{
		Thresholds: []dto.ThresholdExport{
			{ID: "rl:max", Value: 400, IsActive: true},
			{ID: "rl:burst", Value: 5000, IsActive: true},
		},
	}, "importer")
	require.Error(t, err)

	unchanged, err := f.store.Get(ctx, "rl:max")
	require.NoError(t, err)
	assert.Equal(t, 100.0, unchanged.Value)

	entries, err := f.repos.Audit.Query(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
