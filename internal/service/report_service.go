package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/storage"
)

type ReportService struct {
	repo      report.Repository
	shareRepo share.Repository
	store     storage.Store
	log       *zap.Logger
}

func NewReportService(repo report.Repository, shareRepo share.Repository, store storage.Store, log *zap.Logger) *ReportService {
	return &ReportService{
		repo:      repo,
		shareRepo: shareRepo,
		store:     store,
		log:       log,
	}
}

// Upload is a two-phase write: the blob first, then the metadata row.
// The phases are not atomic; if the row insert fails, the blob is removed
// best-effort, and a failure of that cleanup is logged, not escalated.
func (s *ReportService) Upload(ctx context.Context, cmd *report.UploadReportCommand, data io.Reader) (*report.Report, error) {
	var errs []string
	if strings.TrimSpace(cmd.Category) == "" {
		errs = append(errs, "report_type is required")
	}
	if cmd.ReportDate.IsZero() {
		errs = append(errs, "report_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	key, err := s.store.Write(ctx, data, storage.Metadata{
		FileName:    cmd.FileName,
		ContentType: cmd.FileType,
		Size:        cmd.Size,
	})
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		OwnerID:     cmd.OwnerID,
		FileName:    cmd.FileName,
		StorageKey:  key,
		FileType:    cmd.FileType,
		Category:    strings.TrimSpace(cmd.Category),
		ReportDate:  cmd.ReportDate,
		Description: cmd.Description,
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to clean up blob after metadata insert failure",
				zap.String("storage_key", key),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.log.Info("report uploaded",
		zap.String("report_id", rep.ID.String()),
		zap.String("owner_id", cmd.OwnerID.String()),
		zap.String("category", rep.Category),
	)

	return rep, nil
}

func (s *ReportService) ListReports(ctx context.Context, q *report.ListReportsQuery) ([]*report.Report, error) {
	return s.repo.List(ctx, q)
}

// GetReport resolves a report for reading. Owners always pass; anyone
// else needs an active share. Denial is reported as not found so report
// existence never leaks to outsiders.
func (s *ReportService) GetReport(ctx context.Context, id, callerID uuid.UUID) (*report.Report, error) {
	return s.getForAccess(ctx, id, callerID, false)
}

// Download opens the stored file for streaming, under the same access
// rules as GetReport.
func (s *ReportService) Download(ctx context.Context, id, callerID uuid.UUID) (*report.Report, io.ReadCloser, error) {
	rep, err := s.getForAccess(ctx, id, callerID, false)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Read(ctx, rep.StorageKey)
	if err != nil {
		if err == storage.ErrNotFound {
			// Row exists but the blob is gone: the accepted inconsistency
			// window of the two-phase upload, surfaced as not found.
			return nil, nil, report.ErrReportNotFound
		}
		return nil, nil, fmt.Errorf("reading report file: %w", err)
	}

	return rep, rc, nil
}

// UpdateReport mutates metadata. Owners always may; a grantee needs an
// active editor-level share.
func (s *ReportService) UpdateReport(ctx context.Context, id, callerID uuid.UUID, cmd *report.UpdateReportCommand) (*report.Report, error) {
	if _, err := s.getForAccess(ctx, id, callerID, true); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, cmd)
}

// DeleteReport removes the metadata row (cascading to shares) and then
// the blob. A blob that cannot be deleted never blocks row removal.
func (s *ReportService) DeleteReport(ctx context.Context, id, ownerID uuid.UUID) error {
	rep, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, rep.StorageKey); err != nil && err != storage.ErrNotFound {
		s.log.Warn("failed to delete report file",
			zap.String("report_id", id.String()),
			zap.String("storage_key", rep.StorageKey),
			zap.Error(err),
		)
	}

	s.log.Info("report deleted", zap.String("report_id", id.String()))

	return nil
}

func (s *ReportService) getForAccess(ctx context.Context, id, callerID uuid.UUID, write bool) (*report.Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rep.OwnerID == callerID {
		return rep, nil
	}

	sh, err := s.shareRepo.FindActive(ctx, id, callerID, time.Now())
	if err != nil {
		if err == share.ErrShareNotFound {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}

	if write && sh.AccessLevel != string(share.AccessEditor) {
		return nil, report.ErrReportNotFound
	}

	return rep, nil
}
