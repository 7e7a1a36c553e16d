package report

import "errors"

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrCategoryRequired = errors.New("report category is required")
	ErrDateRequired     = errors.New("report date is required")
)
