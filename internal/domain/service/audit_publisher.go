package service

import (
	"context"

	"github.com/promoflow/threshold-service/internal/domain/models"
)

// AuditPublisher mirrors committed audit entries to an external stream for
// downstream consumers (SIEM, alerting). Publication is best-effort and
// never blocks or fails the mutation path.
type AuditPublisher interface {
	Publish(ctx context.Context, entry *models.AuditEntry)
}

// NoopAuditPublisher discards entries. Used when streaming is disabled.
type NoopAuditPublisher struct{}

func (NoopAuditPublisher) Publish(context.Context, *models.AuditEntry) {}
