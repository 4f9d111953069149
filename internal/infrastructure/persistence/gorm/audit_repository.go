package gorm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/constants"
)

// auditEntryDBM is the database model for the audit entries table. Seq is
// the autoincrement primary key and doubles as the timestamp tie-breaker.
type auditEntryDBM struct {
	Seq            int64  `gorm:"primaryKey;autoIncrement"`
	ID             string `gorm:"uniqueIndex;size:36"`
	EntityKind     string `gorm:"index;not null"`
	EntityID       string `gorm:"index;not null"`
	Category       string `gorm:"index"`
	PreviousValue  *float64
	NewValue       *float64
	PreviousData   []byte
	NewData        []byte
	Actor          string
	Reason         string
	AdjustmentType string `gorm:"index"`
	Metadata       []byte
	Timestamp      time.Time `gorm:"index"`
}

func (auditEntryDBM) TableName() string {
	return constants.TableNameAuditEntries
}

func (dbm *auditEntryDBM) toDomain() (*models.AuditEntry, error) {
	id, err := uuid.Parse(dbm.ID)
	if err != nil {
		return nil, err
	}
	entry := &models.AuditEntry{
		ID:             id,
		Seq:            dbm.Seq,
		EntityKind:     constants.EntityKind(dbm.EntityKind),
		EntityID:       dbm.EntityID,
		Category:       constants.ThresholdCategory(dbm.Category),
		PreviousValue:  dbm.PreviousValue,
		NewValue:       dbm.NewValue,
		PreviousData:   dbm.PreviousData,
		NewData:        dbm.NewData,
		Actor:          dbm.Actor,
		Reason:         dbm.Reason,
		AdjustmentType: constants.AdjustmentType(dbm.AdjustmentType),
		Timestamp:      dbm.Timestamp,
	}
	if len(dbm.Metadata) > 0 {
		var meta models.AdjustmentMetadata
		if err := json.Unmarshal(dbm.Metadata, &meta); err != nil {
			return nil, err
		}
		entry.Metadata = &meta
	}
	return entry, nil
}

func auditFromDomain(e *models.AuditEntry) (*auditEntryDBM, error) {
	dbm := &auditEntryDBM{
		ID:             e.ID.String(),
		EntityKind:     string(e.EntityKind),
		EntityID:       e.EntityID,
		Category:       string(e.Category),
		PreviousValue:  e.PreviousValue,
		NewValue:       e.NewValue,
		PreviousData:   e.PreviousData,
		NewData:        e.NewData,
		Actor:          e.Actor,
		Reason:         e.Reason,
		AdjustmentType: string(e.AdjustmentType),
		Timestamp:      e.Timestamp,
	}
	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, err
		}
		dbm.Metadata = raw
	}
	return dbm, nil
}

// auditRepository is the gorm implementation of repository.AuditRepository.
type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	dbm, err := auditFromDomain(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dbm).Error; err != nil {
		return err
	}
	entry.Seq = dbm.Seq
	return nil
}

func (r *auditRepository) Query(ctx context.Context, filter repository.AuditFilter) ([]*models.AuditEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&auditEntryDBM{})

	if filter.EntityKind != "" {
		q = q.Where("entity_kind = ?", string(filter.EntityKind))
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", string(filter.Category))
	}
	if filter.AdjustmentType != "" {
		q = q.Where("adjustment_type = ?", string(filter.AdjustmentType))
	}
	if !filter.From.IsZero() {
		q = q.Where("timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("timestamp <= ?", filter.To)
	}

	if filter.Descending {
		q = q.Order("timestamp desc").Order("seq desc")
	} else {
		q = q.Order("timestamp asc").Order("seq asc")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var dbms []auditEntryDBM
	if err := q.Find(&dbms).Error; err != nil {
		return nil, err
	}

	out := make([]*models.AuditEntry, 0, len(dbms))
	for i := range dbms {
		entry, err := dbms[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
