package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/vital"
)

const defaultSummaryWindowDays = 30

// VitalsService records point-in-time measurements and computes summary
// statistics over a trailing window.
type VitalsService struct {
	repo vital.Repository
	log  *zap.Logger
}

func NewVitalsService(repo vital.Repository, log *zap.Logger) *VitalsService {
	return &VitalsService{repo: repo, log: log}
}

func (s *VitalsService) RecordVital(ctx context.Context, cmd *vital.RecordVitalCommand) (*vital.Vital, error) {
	var errs []string
	if strings.TrimSpace(cmd.Type) == "" {
		errs = append(errs, "vital_type is required")
	}
	// Value is a pointer: a reading of 0 is valid, only a missing field
	// fails validation.
	if cmd.Value == nil {
		errs = append(errs, "value is required")
	}
	if strings.TrimSpace(cmd.Unit) == "" {
		errs = append(errs, "unit is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	measuredAt := time.Now()
	if cmd.MeasuredAt != nil {
		measuredAt = *cmd.MeasuredAt
	}

	v := &vital.Vital{
		UserID:     cmd.UserID,
		Type:       strings.TrimSpace(cmd.Type),
		Value:      *cmd.Value,
		Unit:       strings.TrimSpace(cmd.Unit),
		MeasuredAt: measuredAt,
		Notes:      cmd.Notes,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.log.Error("failed to record vital", zap.Error(err))
		return nil, err
	}

	return v, nil
}

func (s *VitalsService) ListVitals(ctx context.Context, q *vital.ListVitalsQuery) ([]*vital.Vital, error) {
	return s.repo.List(ctx, q)
}

func (s *VitalsService) ListVitalTypes(ctx context.Context, userID uuid.UUID) ([]vital.TypeUnit, error) {
	return s.repo.ListTypes(ctx, userID)
}

// Summarize computes statistics over the trailing window [now-days, now].
// A nil summary with an empty series means no matching data; that is a
// result, not an error. The returned series is ascending by measurement
// time so callers can chart it directly.
func (s *VitalsService) Summarize(ctx context.Context, userID uuid.UUID, vitalType string, days int) (*vital.Summary, []*vital.Vital, error) {
	if strings.TrimSpace(vitalType) == "" {
		return nil, nil, &ValidationError{Fields: []string{"vital_type is required"}}
	}
	if days <= 0 {
		days = defaultSummaryWindowDays
	}

	since := time.Now().AddDate(0, 0, -days)
	vitals, err := s.repo.ListSince(ctx, userID, vitalType, since)
	if err != nil {
		return nil, nil, err
	}

	if len(vitals) == 0 {
		return nil, []*vital.Vital{}, nil
	}

	min, max, sum := vitals[0].Value, vitals[0].Value, 0.0
	for _, v := range vitals {
		if v.Value < min {
			min = v.Value
		}
		if v.Value > max {
			max = v.Value
		}
		sum += v.Value
	}

	summary := &vital.Summary{
		Type:  vitalType,
		Count: len(vitals),
		// Current is the latest reading by measurement time, which is not
		// necessarily the most recently inserted row.
		Current: vitals[len(vitals)-1].Value,
		Average: round2(sum / float64(len(vitals))),
		Min:     round2(min),
		Max:     round2(max),
		// Unit comes from the earliest reading in the window and is not
		// checked against the rest; mixed-unit data reports the first unit.
		Unit:       vitals[0].Unit,
		PeriodDays: days,
	}

	return summary, vitals, nil
}

func (s *VitalsService) DeleteVital(ctx context.Context, userID, vitalID uuid.UUID) error {
	if _, err := s.repo.GetOwned(ctx, vitalID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, vitalID)
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
