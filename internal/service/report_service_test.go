package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
)

type reportFixture struct {
	users   *fakeUserRepo
	reports *fakeReportRepo
	shares  *fakeShareRepo
	store   *fakeStore
	svc     *ReportService

	owner    *domain.User
	stranger *domain.User
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	users := newFakeUserRepo()
	reports := newFakeReportRepo()
	shares := newFakeShareRepo(users, reports)
	store := newFakeStore()

	return &reportFixture{
		users:    users,
		reports:  reports,
		shares:   shares,
		store:    store,
		svc:      NewReportService(reports, shares, store, testLogger()),
		owner:    users.addUser("alice", "alice@example.com"),
		stranger: users.addUser("mallory", "mallory@example.com"),
	}
}

func (fx *reportFixture) upload(t *testing.T, content string) *report.Report {
	t.Helper()
	rep, err := fx.svc.Upload(context.Background(), &report.UploadReportCommand{
		OwnerID:    fx.owner.ID,
		FileName:   "cbc.pdf",
		FileType:   "application/pdf",
		Category:   report.CategoryLabReport,
		ReportDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Size:       int64(len(content)),
	}, strings.NewReader(content))
	require.NoError(t, err)
	return rep
}

func (fx *reportFixture) shareWith(t *testing.T, rep *report.Report, grantee *domain.User, level share.AccessLevel, expiresAt *time.Time) *share.Share {
	t.Helper()
	sh := &share.Share{
		ReportID:    rep.ID,
		OwnerID:     rep.OwnerID,
		GranteeID:   grantee.ID,
		AccessLevel: string(level),
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, fx.shares.Create(context.Background(), sh))
	return sh
}

func TestUploadReport(t *testing.T) {
	fx := newReportFixture(t)

	rep := fx.upload(t, "pdf bytes")

	assert.NotEmpty(t, rep.StorageKey)
	assert.Equal(t, "cbc.pdf", rep.FileName)
	assert.Contains(t, fx.store.files, rep.StorageKey)
	assert.Equal(t, []byte("pdf bytes"), fx.store.files[rep.StorageKey])
}

func TestUploadReportValidation(t *testing.T) {
	fx := newReportFixture(t)

	_, err := fx.svc.Upload(context.Background(), &report.UploadReportCommand{
		OwnerID:  fx.owner.ID,
		FileName: "cbc.pdf",
	}, strings.NewReader("x"))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 2)
	assert.Empty(t, fx.store.files, "nothing is written before validation passes")
}

// When the metadata insert fails after the blob was written, the blob is
// cleaned up so storage does not accumulate orphans.
func TestUploadReportRollsBackBlob(t *testing.T) {
	fx := newReportFixture(t)
	fx.reports.createErr = errors.New("connection reset")

	_, err := fx.svc.Upload(context.Background(), &report.UploadReportCommand{
		OwnerID:    fx.owner.ID,
		FileName:   "cbc.pdf",
		Category:   report.CategoryLabReport,
		ReportDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}, strings.NewReader("pdf bytes"))

	require.Error(t, err)
	assert.Len(t, fx.store.deleted, 1)
	assert.Empty(t, fx.store.files)
}

func TestGetReportAccess(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()
	rep := fx.upload(t, "pdf bytes")

	t.Run("owner", func(t *testing.T) {
		got, err := fx.svc.GetReport(ctx, rep.ID, fx.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, rep.ID, got.ID)
	})

	t.Run("stranger sees not found", func(t *testing.T) {
		_, err := fx.svc.GetReport(ctx, rep.ID, fx.stranger.ID)
		assert.ErrorIs(t, err, report.ErrReportNotFound)
	})

	t.Run("active viewer share grants read", func(t *testing.T) {
		grantee := fx.users.addUser("bob", "bob@example.com")
		fx.shareWith(t, rep, grantee, share.AccessViewer, nil)

		got, err := fx.svc.GetReport(ctx, rep.ID, grantee.ID)
		require.NoError(t, err)
		assert.Equal(t, rep.ID, got.ID)
	})

	t.Run("expired share denies read", func(t *testing.T) {
		grantee := fx.users.addUser("carol", "carol@example.com")
		past := time.Now().Add(-time.Hour)
		fx.shareWith(t, rep, grantee, share.AccessViewer, &past)

		_, err := fx.svc.GetReport(ctx, rep.ID, grantee.ID)
		assert.ErrorIs(t, err, report.ErrReportNotFound)
	})
}

func TestUpdateReportAccess(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()
	rep := fx.upload(t, "pdf bytes")

	t.Run("viewer cannot write", func(t *testing.T) {
		viewer := fx.users.addUser("bob", "bob@example.com")
		fx.shareWith(t, rep, viewer, share.AccessViewer, nil)

		_, err := fx.svc.UpdateReport(ctx, rep.ID, viewer.ID, &report.UpdateReportCommand{
			Description: ptr("updated"),
		})
		assert.ErrorIs(t, err, report.ErrReportNotFound)
	})

	t.Run("editor can write", func(t *testing.T) {
		editor := fx.users.addUser("carol", "carol@example.com")
		fx.shareWith(t, rep, editor, share.AccessEditor, nil)

		got, err := fx.svc.UpdateReport(ctx, rep.ID, editor.ID, &report.UpdateReportCommand{
			Description: ptr("annotated by editor"),
		})
		require.NoError(t, err)
		assert.Equal(t, "annotated by editor", got.Description)
	})

	t.Run("owner partial update", func(t *testing.T) {
		got, err := fx.svc.UpdateReport(ctx, rep.ID, fx.owner.ID, &report.UpdateReportCommand{
			Category: ptr(report.CategoryOther),
		})
		require.NoError(t, err)
		assert.Equal(t, report.CategoryOther, got.Category)
		assert.Equal(t, "annotated by editor", got.Description, "unset fields stay as they were")
	})
}

func TestDownloadReport(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()
	rep := fx.upload(t, "pdf bytes")

	got, rc, err := fx.svc.Download(ctx, rep.ID, fx.owner.ID)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "cbc.pdf", got.FileName)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

// A metadata row whose blob has vanished is reported as not found, the
// same as a missing report.
func TestDownloadReportMissingBlob(t *testing.T) {
	fx := newReportFixture(t)
	rep := fx.upload(t, "pdf bytes")

	delete(fx.store.files, rep.StorageKey)

	_, _, err := fx.svc.Download(context.Background(), rep.ID, fx.owner.ID)
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestDeleteReport(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()
	rep := fx.upload(t, "pdf bytes")

	require.NoError(t, fx.svc.DeleteReport(ctx, rep.ID, fx.owner.ID))

	_, err := fx.svc.GetReport(ctx, rep.ID, fx.owner.ID)
	assert.ErrorIs(t, err, report.ErrReportNotFound)
	assert.NotContains(t, fx.store.files, rep.StorageKey)
}

func TestDeleteReportByNonOwner(t *testing.T) {
	fx := newReportFixture(t)
	rep := fx.upload(t, "pdf bytes")

	err := fx.svc.DeleteReport(context.Background(), rep.ID, fx.stranger.ID)
	assert.ErrorIs(t, err, report.ErrReportNotFound)
	assert.Contains(t, fx.reports.reports, rep.ID)
}

// The row always goes, even when the blob cannot be removed; the failure
// is logged, never surfaced.
func TestDeleteReportSurvivesBlobFailure(t *testing.T) {
	fx := newReportFixture(t)
	rep := fx.upload(t, "pdf bytes")
	fx.store.deleteErr = errors.New("backend unavailable")

	require.NoError(t, fx.svc.DeleteReport(context.Background(), rep.ID, fx.owner.ID))
	assert.NotContains(t, fx.reports.reports, rep.ID)
}

func TestListReportsFilters(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()

	mkReport := func(category string, date time.Time) {
		require.NoError(t, fx.reports.Create(ctx, &report.Report{
			OwnerID:    fx.owner.ID,
			FileName:   "f.pdf",
			StorageKey: "k",
			Category:   category,
			ReportDate: date,
		}))
	}
	mkReport(report.CategoryLabReport, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	mkReport(report.CategoryXRay, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC))
	mkReport(report.CategoryLabReport, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))

	all, err := fx.svc.ListReports(ctx, &report.ListReportsQuery{OwnerID: fx.owner.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].ReportDate.After(all[1].ReportDate), "newest report date first")

	labs, err := fx.svc.ListReports(ctx, &report.ListReportsQuery{
		OwnerID:  fx.owner.ID,
		Category: ptr(report.CategoryLabReport),
	})
	require.NoError(t, err)
	assert.Len(t, labs, 2)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	recent, err := fx.svc.ListReports(ctx, &report.ListReportsQuery{
		OwnerID: fx.owner.ID,
		From:    &from,
	})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
