package share

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
)

type AccessLevel string

const (
	AccessViewer AccessLevel = "viewer"
	AccessEditor AccessLevel = "editor"
)

func (l AccessLevel) IsValid() bool {
	switch l {
	case AccessViewer, AccessEditor:
		return true
	}
	return false
}

// Share delegates access to one report from its owner to one grantee.
// The (report_id, grantee_id) pair is unique for the lifetime of the row,
// whether or not the share has expired.
type Share struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	ReportID  uuid.UUID `gorm:"column:report_id;type:uuid;not null;uniqueIndex:idx_shares_report_grantee"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	GranteeID uuid.UUID `gorm:"column:grantee_id;type:uuid;not null;uniqueIndex:idx_shares_report_grantee"`

	AccessLevel string     `gorm:"column:access_level;type:varchar(20);not null;default:'viewer'"`
	ExpiresAt   *time.Time `gorm:"column:expires_at"`
}

func (Share) TableName() string {
	return "shares"
}

// Active reports whether the share grants access at the given instant.
// Expired shares stay in the table; they are filtered at read time, never
// swept.
func (s *Share) Active(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// ShareWithGrantee is a share joined with the grantee's identity, for the
// owner's view of who a report is shared with.
type ShareWithGrantee struct {
	Share           `gorm:"embedded"`
	GranteeUsername string `gorm:"column:grantee_username" json:"grantee_username"`
	GranteeEmail    string `gorm:"column:grantee_email" json:"grantee_email"`
}

// SharedReport is a report joined with its owner's identity and the
// grantee's access level, for the shared-with-me view.
type SharedReport struct {
	report.Report `gorm:"embedded"`
	OwnerUsername string     `gorm:"column:owner_username" json:"owner_username"`
	AccessLevel   string     `gorm:"column:access_level" json:"access_level"`
	ExpiresAt     *time.Time `gorm:"column:share_expires_at" json:"expires_at,omitempty"`
}

type CreateShareCommand struct {
	OwnerID         uuid.UUID
	ReportID        uuid.UUID
	GranteeUsername string
	AccessLevel     string
	ExpiresAt       *time.Time
}
