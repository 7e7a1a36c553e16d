package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	if err := r.db.WithContext(ctx).Create(rep).Error; err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("querying report: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepository) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).
		First(&rep, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("querying owned report: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepository) Update(ctx context.Context, id uuid.UUID, cmd *report.UpdateReportCommand) (*report.Report, error) {
	updates := map[string]any{}
	if cmd.Category != nil {
		updates["category"] = *cmd.Category
	}
	if cmd.ReportDate != nil {
		updates["report_date"] = *cmd.ReportDate
	}
	if cmd.Description != nil {
		updates["description"] = *cmd.Description
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&report.Report{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating report: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, report.ErrReportNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&report.Report{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting report: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, q *report.ListReportsQuery) ([]*report.Report, error) {
	tx := r.db.WithContext(ctx).Where("owner_id = ?", q.OwnerID)

	if q.Category != nil {
		tx = tx.Where("category = ?", *q.Category)
	}
	if q.From != nil {
		tx = tx.Where("report_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("report_date <= ?", *q.To)
	}

	var reports []*report.Report
	if err := tx.Order("report_date DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return reports, nil
}
