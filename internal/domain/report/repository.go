package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new report row. The file itself is written to the
	// blob store before this is called.
	Create(ctx context.Context, r *Report) error

	// GetByID retrieves a report regardless of owner. Returns
	// ErrReportNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// GetOwned retrieves a report only if ownerID owns it. A report owned
	// by someone else is indistinguishable from a missing one.
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*Report, error)

	// Update applies partial metadata updates and returns the fresh row.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateReportCommand) (*Report, error)

	// Delete removes the row; shares referencing it are removed by the
	// store's cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the owner's reports ordered by report_date descending.
	List(ctx context.Context, q *ListReportsQuery) ([]*Report, error)
}
