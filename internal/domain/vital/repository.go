package vital

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, v *Vital) error

	// List returns the user's vitals ordered by measured_at descending.
	List(ctx context.Context, q *ListVitalsQuery) ([]*Vital, error)

	// ListTypes returns distinct (vital_type, unit) pairs ordered by type.
	ListTypes(ctx context.Context, userID uuid.UUID) ([]TypeUnit, error)

	// ListSince returns vitals of one type measured at or after since,
	// ordered by measured_at ascending. Used for summaries and charting.
	ListSince(ctx context.Context, userID uuid.UUID, vitalType string, since time.Time) ([]*Vital, error)

	// GetOwned retrieves a vital only if userID owns it.
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*Vital, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
