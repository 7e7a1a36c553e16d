package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
)

type ShareRepository struct {
	db *gorm.DB
}

func NewShareRepository(db *gorm.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create relies on the composite unique index on (report_id, grantee_id)
// to arbitrate concurrent creates; the loser sees ErrShareExists.
func (r *ShareRepository) Create(ctx context.Context, s *share.Share) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return share.ErrShareExists
		}
		return fmt.Errorf("inserting share: %w", err)
	}
	return nil
}

func (r *ShareRepository) ListByReport(ctx context.Context, reportID uuid.UUID) ([]*share.ShareWithGrantee, error) {
	var shares []*share.ShareWithGrantee
	err := r.db.WithContext(ctx).
		Table("shares").
		Select("shares.*, users.username AS grantee_username, users.email AS grantee_email").
		Joins("JOIN users ON users.id = shares.grantee_id").
		Where("shares.report_id = ?", reportID).
		Order("shares.created_at DESC").
		Scan(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("listing shares for report: %w", err)
	}
	return shares, nil
}

func (r *ShareRepository) ListSharedWith(ctx context.Context, granteeID uuid.UUID, now time.Time) ([]*share.SharedReport, error) {
	var reports []*share.SharedReport
	err := r.db.WithContext(ctx).
		Table("reports").
		Select("reports.*, users.username AS owner_username, shares.access_level AS access_level, shares.expires_at AS share_expires_at").
		Joins("JOIN shares ON shares.report_id = reports.id").
		Joins("JOIN users ON users.id = reports.owner_id").
		Where("shares.grantee_id = ?", granteeID).
		Where("shares.expires_at IS NULL OR shares.expires_at > ?", now).
		Order("reports.report_date DESC").
		Scan(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("listing shared reports: %w", err)
	}
	return reports, nil
}

func (r *ShareRepository) GetOwned(ctx context.Context, id, reportID, ownerID uuid.UUID) (*share.Share, error) {
	var s share.Share
	err := r.db.WithContext(ctx).
		First(&s, "id = ? AND report_id = ? AND owner_id = ?", id, reportID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, share.ErrShareNotFound
		}
		return nil, fmt.Errorf("querying share: %w", err)
	}
	return &s, nil
}

func (r *ShareRepository) FindActive(ctx context.Context, reportID, userID uuid.UUID, now time.Time) (*share.Share, error) {
	var s share.Share
	err := r.db.WithContext(ctx).
		Where("report_id = ? AND grantee_id = ?", reportID, userID).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, share.ErrShareNotFound
		}
		return nil, fmt.Errorf("querying active share: %w", err)
	}
	return &s, nil
}

func (r *ShareRepository) UpdateAccessLevel(ctx context.Context, id uuid.UUID, level string) error {
	res := r.db.WithContext(ctx).
		Model(&share.Share{}).
		Where("id = ?", id).
		Update("access_level", level)
	if res.Error != nil {
		return fmt.Errorf("updating share access level: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return share.ErrShareNotFound
	}
	return nil
}

func (r *ShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&share.Share{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting share: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return share.ErrShareNotFound
	}
	return nil
}
