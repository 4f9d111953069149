package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/constants"
)

// thresholdDBM is the database model for the thresholds table.
type thresholdDBM struct {
	ID             string `gorm:"primaryKey"`
	Category       string `gorm:"index;not null"`
	Name           string
	Description    string
	Value          float64
	MinValue       float64
	MaxValue       float64
	DefaultValue   float64
	IsActive       bool
	LastModified   time.Time
	LastModifiedBy string
}

func (thresholdDBM) TableName() string {
	return constants.TableNameThresholds
}

func (dbm *thresholdDBM) toDomain() *models.Threshold {
	return &models.Threshold{
		ID:             dbm.ID,
		Category:       constants.ThresholdCategory(dbm.Category),
		Name:           dbm.Name,
		Description:    dbm.Description,
		Value:          dbm.Value,
		MinValue:       dbm.MinValue,
		MaxValue:       dbm.MaxValue,
		DefaultValue:   dbm.DefaultValue,
		IsActive:       dbm.IsActive,
		LastModified:   dbm.LastModified,
		LastModifiedBy: dbm.LastModifiedBy,
	}
}

func thresholdFromDomain(t *models.Threshold) *thresholdDBM {
	return &thresholdDBM{
		ID:             t.ID,
		Category:       string(t.Category),
		Name:           t.Name,
		Description:    t.Description,
		Value:          t.Value,
		MinValue:       t.MinValue,
		MaxValue:       t.MaxValue,
		DefaultValue:   t.DefaultValue,
		IsActive:       t.IsActive,
		LastModified:   t.LastModified,
		LastModifiedBy: t.LastModifiedBy,
	}
}

// thresholdRepository is the gorm implementation of repository.ThresholdRepository.
type thresholdRepository struct {
	db *gorm.DB
}

func (r *thresholdRepository) GetByID(ctx context.Context, id string) (*models.Threshold, error) {
	var dbm thresholdDBM
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dbm.toDomain(), nil
}

func (r *thresholdRepository) List(ctx context.Context) ([]*models.Threshold, error) {
	var dbms []thresholdDBM
	if err := r.db.WithContext(ctx).Order("id asc").Find(&dbms).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Threshold, 0, len(dbms))
	for i := range dbms {
		out = append(out, dbms[i].toDomain())
	}
	return out, nil
}

func (r *thresholdRepository) ListByCategory(ctx context.Context, category constants.ThresholdCategory) ([]*models.Threshold, error) {
	var dbms []thresholdDBM
	if err := r.db.WithContext(ctx).
		Where("category = ?", string(category)).
		Order("id asc").
		Find(&dbms).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Threshold, 0, len(dbms))
	for i := range dbms {
		out = append(out, dbms[i].toDomain())
	}
	return out, nil
}

func (r *thresholdRepository) Save(ctx context.Context, threshold *models.Threshold) error {
	return r.db.WithContext(ctx).Save(thresholdFromDomain(threshold)).Error
}

func (r *thresholdRepository) Create(ctx context.Context, threshold *models.Threshold) error {
	return r.db.WithContext(ctx).Create(thresholdFromDomain(threshold)).Error
}

func (r *thresholdRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&thresholdDBM{}).Count(&count).Error
	return count, err
}
