package service

import (
	"errors"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
