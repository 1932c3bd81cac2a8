package session

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrInvalidData = errors.New("invalid session data")
)
