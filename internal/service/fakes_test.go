package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/vital"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/storage"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakeUserRepo is an in-memory UserRepository enforcing the same
// uniqueness rules as the real table.
type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, cmd *domain.UpdateProfileCommand) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if cmd.FullName != nil {
		u.FullName = *cmd.FullName
	}
	if cmd.DateOfBirth != nil {
		u.DateOfBirth = cmd.DateOfBirth
	}
	return u, nil
}

// addUser seeds a user directly, bypassing registration.
func (r *fakeUserRepo) addUser(username, email string) *domain.User {
	u := &domain.User{ID: uuid.New(), Username: username, Email: email}
	r.users[u.ID] = u
	return u
}

type fakeReportRepo struct {
	reports   map[uuid.UUID]*report.Report
	createErr error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[uuid.UUID]*report.Report)}
}

func (r *fakeReportRepo) Create(_ context.Context, rep *report.Report) error {
	if r.createErr != nil {
		return r.createErr
	}
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	rep.CreatedAt = time.Now()
	r.reports[rep.ID] = rep
	return nil
}

func (r *fakeReportRepo) GetByID(_ context.Context, id uuid.UUID) (*report.Report, error) {
	rep, ok := r.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	return rep, nil
}

func (r *fakeReportRepo) GetOwned(_ context.Context, id, ownerID uuid.UUID) (*report.Report, error) {
	rep, ok := r.reports[id]
	if !ok || rep.OwnerID != ownerID {
		return nil, report.ErrReportNotFound
	}
	return rep, nil
}

func (r *fakeReportRepo) Update(_ context.Context, id uuid.UUID, cmd *report.UpdateReportCommand) (*report.Report, error) {
	rep, ok := r.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	if cmd.Category != nil {
		rep.Category = *cmd.Category
	}
	if cmd.ReportDate != nil {
		rep.ReportDate = *cmd.ReportDate
	}
	if cmd.Description != nil {
		rep.Description = *cmd.Description
	}
	return rep, nil
}

func (r *fakeReportRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.reports[id]; !ok {
		return report.ErrReportNotFound
	}
	delete(r.reports, id)
	return nil
}

func (r *fakeReportRepo) List(_ context.Context, q *report.ListReportsQuery) ([]*report.Report, error) {
	var out []*report.Report
	for _, rep := range r.reports {
		if rep.OwnerID != q.OwnerID {
			continue
		}
		if q.Category != nil && rep.Category != *q.Category {
			continue
		}
		if q.From != nil && rep.ReportDate.Before(*q.From) {
			continue
		}
		if q.To != nil && rep.ReportDate.After(*q.To) {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportDate.After(out[j].ReportDate) })
	return out, nil
}

type fakeVitalRepo struct {
	vitals map[uuid.UUID]*vital.Vital
}

func newFakeVitalRepo() *fakeVitalRepo {
	return &fakeVitalRepo{vitals: make(map[uuid.UUID]*vital.Vital)}
}

func (r *fakeVitalRepo) Create(_ context.Context, v *vital.Vital) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.vitals[v.ID] = v
	return nil
}

func (r *fakeVitalRepo) List(_ context.Context, q *vital.ListVitalsQuery) ([]*vital.Vital, error) {
	var out []*vital.Vital
	for _, v := range r.vitals {
		if v.UserID != q.UserID {
			continue
		}
		if q.Type != nil && v.Type != *q.Type {
			continue
		}
		if q.From != nil && v.MeasuredAt.Before(*q.From) {
			continue
		}
		if q.To != nil && v.MeasuredAt.After(*q.To) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	return out, nil
}

func (r *fakeVitalRepo) ListTypes(_ context.Context, userID uuid.UUID) ([]vital.TypeUnit, error) {
	seen := make(map[vital.TypeUnit]bool)
	for _, v := range r.vitals {
		if v.UserID == userID {
			seen[vital.TypeUnit{Type: v.Type, Unit: v.Unit}] = true
		}
	}
	out := make([]vital.TypeUnit, 0, len(seen))
	for tu := range seen {
		out = append(out, tu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (r *fakeVitalRepo) ListSince(_ context.Context, userID uuid.UUID, vitalType string, since time.Time) ([]*vital.Vital, error) {
	var out []*vital.Vital
	for _, v := range r.vitals {
		if v.UserID == userID && v.Type == vitalType && !v.MeasuredAt.Before(since) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.Before(out[j].MeasuredAt) })
	return out, nil
}

func (r *fakeVitalRepo) GetOwned(_ context.Context, id, userID uuid.UUID) (*vital.Vital, error) {
	v, ok := r.vitals[id]
	if !ok || v.UserID != userID {
		return nil, vital.ErrVitalNotFound
	}
	return v, nil
}

func (r *fakeVitalRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.vitals[id]; !ok {
		return vital.ErrVitalNotFound
	}
	delete(r.vitals, id)
	return nil
}

// fakeShareRepo keeps references to the user and report fakes so the
// joined views can be assembled the way the SQL queries do.
type fakeShareRepo struct {
	shares  map[uuid.UUID]*share.Share
	users   *fakeUserRepo
	reports *fakeReportRepo
}

func newFakeShareRepo(users *fakeUserRepo, reports *fakeReportRepo) *fakeShareRepo {
	return &fakeShareRepo{
		shares:  make(map[uuid.UUID]*share.Share),
		users:   users,
		reports: reports,
	}
}

func (r *fakeShareRepo) Create(_ context.Context, s *share.Share) error {
	for _, existing := range r.shares {
		if existing.ReportID == s.ReportID && existing.GranteeID == s.GranteeID {
			return share.ErrShareExists
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.shares[s.ID] = s
	return nil
}

func (r *fakeShareRepo) ListByReport(_ context.Context, reportID uuid.UUID) ([]*share.ShareWithGrantee, error) {
	var out []*share.ShareWithGrantee
	for _, s := range r.shares {
		if s.ReportID != reportID {
			continue
		}
		row := &share.ShareWithGrantee{Share: *s}
		if grantee, ok := r.users.users[s.GranteeID]; ok {
			row.GranteeUsername = grantee.Username
			row.GranteeEmail = grantee.Email
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeShareRepo) ListSharedWith(_ context.Context, granteeID uuid.UUID, now time.Time) ([]*share.SharedReport, error) {
	var out []*share.SharedReport
	for _, s := range r.shares {
		if s.GranteeID != granteeID || !s.Active(now) {
			continue
		}
		rep, ok := r.reports.reports[s.ReportID]
		if !ok {
			continue
		}
		row := &share.SharedReport{
			Report:      *rep,
			AccessLevel: s.AccessLevel,
			ExpiresAt:   s.ExpiresAt,
		}
		if owner, ok := r.users.users[rep.OwnerID]; ok {
			row.OwnerUsername = owner.Username
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportDate.After(out[j].ReportDate) })
	return out, nil
}

func (r *fakeShareRepo) GetOwned(_ context.Context, id, reportID, ownerID uuid.UUID) (*share.Share, error) {
	s, ok := r.shares[id]
	if !ok || s.ReportID != reportID || s.OwnerID != ownerID {
		return nil, share.ErrShareNotFound
	}
	return s, nil
}

func (r *fakeShareRepo) FindActive(_ context.Context, reportID, userID uuid.UUID, now time.Time) (*share.Share, error) {
	for _, s := range r.shares {
		if s.ReportID == reportID && s.GranteeID == userID && s.Active(now) {
			return s, nil
		}
	}
	return nil, share.ErrShareNotFound
}

func (r *fakeShareRepo) UpdateAccessLevel(_ context.Context, id uuid.UUID, level string) error {
	s, ok := r.shares[id]
	if !ok {
		return share.ErrShareNotFound
	}
	s.AccessLevel = level
	return nil
}

func (r *fakeShareRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.shares[id]; !ok {
		return share.ErrShareNotFound
	}
	delete(r.shares, id)
	return nil
}

// fakeStore is an in-memory blob store recording deletions so rollback
// behavior can be asserted.
type fakeStore struct {
	files     map[string][]byte
	writeErr  error
	deleteErr error
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (s *fakeStore) Write(_ context.Context, r io.Reader, _ storage.Metadata) (string, error) {
	if s.writeErr != nil {
		return "", s.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := uuid.New().String()
	s.files[key] = data
	return key, nil
}

func (s *fakeStore) Read(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.files[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.files, key)
	return nil
}
