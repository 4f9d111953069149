package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/constants"
)

// configurationDBM is the database model for the configurations table.
type configurationDBM struct {
	Section        string `gorm:"primaryKey;size:128"`
	Key            string `gorm:"primaryKey;size:128"`
	Value          []byte
	LastModified   time.Time
	LastModifiedBy string
}

func (configurationDBM) TableName() string {
	return constants.TableNameConfigurations
}

func (dbm *configurationDBM) toDomain() *models.Configuration {
	return &models.Configuration{
		Section:        dbm.Section,
		Key:            dbm.Key,
		Value:          dbm.Value,
		LastModified:   dbm.LastModified,
		LastModifiedBy: dbm.LastModifiedBy,
	}
}

func configurationFromDomain(c *models.Configuration) *configurationDBM {
	return &configurationDBM{
		Section:        c.Section,
		Key:            c.Key,
		Value:          c.Value,
		LastModified:   c.LastModified,
		LastModifiedBy: c.LastModifiedBy,
	}
}

// configurationRepository is the gorm implementation of
// repository.ConfigurationRepository.
type configurationRepository struct {
	db *gorm.DB
}

func (r *configurationRepository) Get(ctx context.Context, section, key string) (*models.Configuration, error) {
	var dbm configurationDBM
	err := r.db.WithContext(ctx).
		Where("section = ? AND key = ?", section, key).
		First(&dbm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dbm.toDomain(), nil
}

func (r *configurationRepository) ListSection(ctx context.Context, section string) ([]*models.Configuration, error) {
	var dbms []configurationDBM
	if err := r.db.WithContext(ctx).
		Where("section = ?", section).
		Order("key asc").
		Find(&dbms).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Configuration, 0, len(dbms))
	for i := range dbms {
		out = append(out, dbms[i].toDomain())
	}
	return out, nil
}

func (r *configurationRepository) List(ctx context.Context) ([]*models.Configuration, error) {
	var dbms []configurationDBM
	if err := r.db.WithContext(ctx).
		Order("section asc").Order("key asc").
		Find(&dbms).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Configuration, 0, len(dbms))
	for i := range dbms {
		out = append(out, dbms[i].toDomain())
	}
	return out, nil
}

func (r *configurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "last_modified", "last_modified_by"}),
	}).Create(configurationFromDomain(cfg)).Error
}
