package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/vital"
)

type VitalRepository struct {
	db *gorm.DB
}

func NewVitalRepository(db *gorm.DB) *VitalRepository {
	return &VitalRepository{db: db}
}

func (r *VitalRepository) Create(ctx context.Context, v *vital.Vital) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("inserting vital: %w", err)
	}
	return nil
}

func (r *VitalRepository) List(ctx context.Context, q *vital.ListVitalsQuery) ([]*vital.Vital, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", q.UserID)

	if q.Type != nil {
		tx = tx.Where("vital_type = ?", *q.Type)
	}
	if q.From != nil {
		tx = tx.Where("measured_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("measured_at <= ?", *q.To)
	}

	var vitals []*vital.Vital
	if err := tx.Order("measured_at DESC").Find(&vitals).Error; err != nil {
		return nil, fmt.Errorf("listing vitals: %w", err)
	}
	return vitals, nil
}

func (r *VitalRepository) ListTypes(ctx context.Context, userID uuid.UUID) ([]vital.TypeUnit, error) {
	var types []vital.TypeUnit
	err := r.db.WithContext(ctx).
		Model(&vital.Vital{}).
		Distinct("vital_type", "unit").
		Where("user_id = ?", userID).
		Order("vital_type").
		Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("listing vital types: %w", err)
	}
	return types, nil
}

func (r *VitalRepository) ListSince(ctx context.Context, userID uuid.UUID, vitalType string, since time.Time) ([]*vital.Vital, error) {
	var vitals []*vital.Vital
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND vital_type = ? AND measured_at >= ?", userID, vitalType, since).
		Order("measured_at ASC").
		Find(&vitals).Error
	if err != nil {
		return nil, fmt.Errorf("listing vitals since %s: %w", since, err)
	}
	return vitals, nil
}

func (r *VitalRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*vital.Vital, error) {
	var v vital.Vital
	err := r.db.WithContext(ctx).
		First(&v, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vital.ErrVitalNotFound
		}
		return nil, fmt.Errorf("querying vital: %w", err)
	}
	return &v, nil
}

func (r *VitalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&vital.Vital{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting vital: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return vital.ErrVitalNotFound
	}
	return nil
}
