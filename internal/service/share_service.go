package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
)

// ShareService is the access-control engine for reports: it manages
// delegated access grants and answers whether a non-owner may read or
// write a report.
type ShareService struct {
	shareRepo  share.Repository
	reportRepo report.Repository
	userRepo   UserRepository
	log        *zap.Logger
}

func NewShareService(shareRepo share.Repository, reportRepo report.Repository, userRepo UserRepository, log *zap.Logger) *ShareService {
	return &ShareService{
		shareRepo:  shareRepo,
		reportRepo: reportRepo,
		userRepo:   userRepo,
		log:        log,
	}
}

// CreateShare grants a user access to one of the caller's reports. A
// report the caller does not own is reported as not found rather than
// forbidden, so callers cannot probe for other users' report IDs. The
// uniqueness of (report, grantee) is permanent: an expired share still
// blocks a new one until it is revoked.
func (s *ShareService) CreateShare(ctx context.Context, cmd *share.CreateShareCommand) (*share.Share, error) {
	if strings.TrimSpace(cmd.GranteeUsername) == "" {
		return nil, &ValidationError{Fields: []string{"shared_with_username is required"}}
	}

	if _, err := s.reportRepo.GetOwned(ctx, cmd.ReportID, cmd.OwnerID); err != nil {
		return nil, err
	}

	grantee, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(cmd.GranteeUsername))
	if err != nil {
		return nil, err
	}

	if grantee.ID == cmd.OwnerID {
		return nil, share.ErrSelfShare
	}

	level := cmd.AccessLevel
	if level == "" {
		level = string(share.AccessViewer)
	}

	sh := &share.Share{
		ReportID:    cmd.ReportID,
		OwnerID:     cmd.OwnerID,
		GranteeID:   grantee.ID,
		AccessLevel: level,
		ExpiresAt:   cmd.ExpiresAt,
	}

	if err := s.shareRepo.Create(ctx, sh); err != nil {
		return nil, err
	}

	s.log.Info("report shared",
		zap.String("report_id", cmd.ReportID.String()),
		zap.String("grantee", grantee.Username),
		zap.String("access_level", level),
	)

	return sh, nil
}

// ListSharesForReport is the owner's view; expired shares are included so
// the owner can see and revoke them.
func (s *ShareService) ListSharesForReport(ctx context.Context, ownerID, reportID uuid.UUID) ([]*share.ShareWithGrantee, error) {
	if _, err := s.reportRepo.GetOwned(ctx, reportID, ownerID); err != nil {
		return nil, err
	}
	return s.shareRepo.ListByReport(ctx, reportID)
}

// SharedWithMe returns reports the grantee can currently access. Expired
// shares are filtered out here but their rows remain, which is what makes
// expiry observably different from revocation.
func (s *ShareService) SharedWithMe(ctx context.Context, granteeID uuid.UUID) ([]*share.SharedReport, error) {
	return s.shareRepo.ListSharedWith(ctx, granteeID, time.Now())
}

// RevokeShare deletes a grant. Both the report and the share are checked
// against the caller independently.
func (s *ShareService) RevokeShare(ctx context.Context, ownerID, reportID, shareID uuid.UUID) error {
	if _, err := s.reportRepo.GetOwned(ctx, reportID, ownerID); err != nil {
		return err
	}

	if _, err := s.shareRepo.GetOwned(ctx, shareID, reportID, ownerID); err != nil {
		return err
	}

	if err := s.shareRepo.Delete(ctx, shareID); err != nil {
		return fmt.Errorf("revoking share: %w", err)
	}

	s.log.Info("share revoked",
		zap.String("report_id", reportID.String()),
		zap.String("share_id", shareID.String()),
	)

	return nil
}

// UpdateAccessLevel mutates the grant in place. The level must be
// non-empty but is otherwise not checked against the viewer/editor set.
func (s *ShareService) UpdateAccessLevel(ctx context.Context, ownerID, reportID, shareID uuid.UUID, level string) error {
	if strings.TrimSpace(level) == "" {
		return &ValidationError{Fields: []string{"access_level is required"}}
	}

	if _, err := s.reportRepo.GetOwned(ctx, reportID, ownerID); err != nil {
		return err
	}

	if _, err := s.shareRepo.GetOwned(ctx, shareID, reportID, ownerID); err != nil {
		return err
	}

	return s.shareRepo.UpdateAccessLevel(ctx, shareID, level)
}
