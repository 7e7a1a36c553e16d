package vital

import (
	"time"

	"github.com/google/uuid"
)

// Vital is a single timestamped measurement. Rows are immutable after
// insert; corrections are delete-and-recreate.
type Vital struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	Type  string  `gorm:"column:vital_type;type:varchar(50);not null;index"`
	Value float64 `gorm:"column:value;not null"`
	Unit  string  `gorm:"column:unit;type:varchar(20);not null"`

	// MeasuredAt is the clinically relevant instant, distinct from CreatedAt.
	MeasuredAt time.Time `gorm:"column:measured_at;not null;index"`

	Notes string `gorm:"column:notes;type:text"`
}

func (Vital) TableName() string {
	return "vitals"
}

// RecordVitalCommand carries Value as a pointer so a reading of 0 is
// distinguishable from an absent one.
type RecordVitalCommand struct {
	UserID     uuid.UUID
	Type       string
	Value      *float64
	Unit       string
	MeasuredAt *time.Time
	Notes      string
}

type ListVitalsQuery struct {
	UserID uuid.UUID
	Type   *string
	From   *time.Time
	To     *time.Time
}

// TypeUnit is one distinct (vital_type, unit) pair a user has recorded.
// The same type recorded with two units yields two pairs.
type TypeUnit struct {
	Type string `gorm:"column:vital_type" json:"vital_type"`
	Unit string `gorm:"column:unit" json:"unit"`
}

// Summary holds windowed statistics for one vital type. Average, Min and
// Max are rounded to 2 decimal places, half away from zero. Unit is taken
// from the chronologically earliest reading in the window.
type Summary struct {
	Type       string  `json:"vital_type"`
	Count      int     `json:"count"`
	Current    float64 `json:"current"`
	Average    float64 `json:"average"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Unit       string  `json:"unit"`
	PeriodDays int     `json:"period_days"`
}
