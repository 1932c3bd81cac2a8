package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPersist wraps substrate write failures. Read failures degrade to
	// empty defaults instead; dropping a write silently would break the
	// durability expectation of a save.
	ErrPersist = errors.New("could not persist data")

	ErrMalformedBackup = errors.New("malformed backup bundle")
)

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersist, op, err)
}
