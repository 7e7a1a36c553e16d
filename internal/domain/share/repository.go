package share

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new share. Returns ErrShareExists when the
	// (report_id, grantee_id) pair already has a row; the store's unique
	// constraint is the arbiter under concurrent creates.
	Create(ctx context.Context, s *Share) error

	// ListByReport returns all shares for a report joined with grantee
	// identity, most recently created first. Expiry is not filtered here;
	// the owner sees expired shares.
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]*ShareWithGrantee, error)

	// ListSharedWith returns reports shared with the grantee through
	// shares active at now, ordered by report date descending.
	ListSharedWith(ctx context.Context, granteeID uuid.UUID, now time.Time) ([]*SharedReport, error)

	// GetOwned retrieves a share only if it belongs to the given report
	// and owner. Returns ErrShareNotFound otherwise.
	GetOwned(ctx context.Context, id, reportID, ownerID uuid.UUID) (*Share, error)

	// FindActive returns the share granting userID access to reportID at
	// now, or ErrShareNotFound when no active share exists.
	FindActive(ctx context.Context, reportID, userID uuid.UUID, now time.Time) (*Share, error)

	UpdateAccessLevel(ctx context.Context, id uuid.UUID, level string) error

	Delete(ctx context.Context, id uuid.UUID) error
}
