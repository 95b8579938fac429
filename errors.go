package pskiplist

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the public surface. Callers should test
// against these with errors.Is rather than comparing strings.
var (
	// ErrDuplicate is returned by Insert when the datum is already live
	// at the present version. The structure is left unchanged.
	ErrDuplicate = errors.New("pskiplist: datum already present")

	// ErrAbsent is returned by Remove when the datum is not live at the
	// present version. The structure is left unchanged.
	ErrAbsent = errors.New("pskiplist: datum not present")

	// ErrOutOfRange is returned by any query given a timestamp outside
	// [0, present], or by Tick once present cannot be advanced further.
	ErrOutOfRange = errors.New("pskiplist: timestamp out of range")

	// ErrInvariantViolation indicates an internal consistency assertion
	// failed. Seeing this surfaced to a caller is a programmer bug in
	// this package, not a runtime condition the caller caused.
	ErrInvariantViolation = errors.New("pskiplist: invariant violation")
)

// invariantViolation wraps ErrInvariantViolation with a detail message,
// still satisfying errors.Is(err, ErrInvariantViolation).
func invariantViolation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
