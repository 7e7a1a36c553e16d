package report

import (
	"time"

	"github.com/google/uuid"
)

// Category values the UI presents. The column itself is an open string;
// anything outside this set is stored as-is and grouped under "other"
// client-side.
const (
	CategoryLabReport        = "lab_report"
	CategoryXRay             = "x_ray"
	CategoryPrescription     = "prescription"
	CategoryDischargeSummary = "discharge_summary"
	CategoryOther            = "other"
)

type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	OwnerID uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`

	FileName   string `gorm:"column:file_name;type:varchar(255);not null"`
	StorageKey string `gorm:"column:storage_key;type:varchar(255);not null"`
	FileType   string `gorm:"column:file_type;type:varchar(100);not null"`

	Category   string    `gorm:"column:category;type:varchar(50);not null;index"`
	ReportDate time.Time `gorm:"column:report_date;not null;index"`

	Description string `gorm:"column:description;type:text"`
}

func (Report) TableName() string {
	return "reports"
}

type UploadReportCommand struct {
	OwnerID     uuid.UUID
	FileName    string
	FileType    string
	Category    string
	ReportDate  time.Time
	Description string
	Size        int64
}

type UpdateReportCommand struct {
	Category    *string
	ReportDate  *time.Time
	Description *string
}

// ListReportsQuery filters by category and by the clinical report date,
// not the upload time.
type ListReportsQuery struct {
	OwnerID  uuid.UUID
	Category *string
	From     *time.Time
	To       *time.Time
}
