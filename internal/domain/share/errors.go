package share

import "errors"

var (
	ErrShareNotFound = errors.New("share not found")
	ErrShareExists   = errors.New("report already shared with this user")
	ErrSelfShare     = errors.New("cannot share report with yourself")
)
