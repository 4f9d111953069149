// Package audit mirrors committed audit entries to external consumers.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/promoflow/threshold-service/internal/config"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// KafkaPublisher streams audit entries to a Kafka topic for SIEM and
// alerting pipelines. Publication is best-effort: failures are logged and
// never propagate to the mutation path, which has already committed.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    logger.Logger
}

var _ service.AuditPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher for the configured audit topic.
func NewKafkaPublisher(cfg *config.KafkaConfig, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.AuditTopic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: 5 * time.Second,
			// Mutations must never stall on a slow broker.
			Async: true,
		},
		log: log.WithComponent("kafka_audit"),
	}
}

// Publish serializes the entry and hands it to the async writer. Messages
// are keyed by entity id so per-entity ordering survives partitioning.
func (p *KafkaPublisher) Publish(ctx context.Context, entry *models.AuditEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		p.log.Error(ctx, "Failed to serialize audit entry", err,
			logger.String("entry_id", entry.ID.String()))
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.EntityID),
		Value: payload,
	})
	if err != nil {
		p.log.Error(ctx, "Failed to publish audit entry", err,
			logger.String("entry_id", entry.ID.String()),
			logger.String("entity_id", entry.EntityID))
	}
}

// Close flushes pending messages and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
