package vital

import "errors"

var (
	ErrVitalNotFound = errors.New("vital not found")
	ErrTypeRequired  = errors.New("vital type is required")
)
