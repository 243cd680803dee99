package arcrack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the launch configuration fails
	// validation (empty charset, bad length order, unknown mode).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilTester is returned when no archive tester was provided.
	ErrNilTester = errors.New("archive tester is required")
)

// ErrUnknownMode indicates a mode string that is not ascending,
// descending, or random.
type ErrUnknownMode struct {
	Value string
}

func (e *ErrUnknownMode) Error() string {
	return fmt.Sprintf("unknown mode %q (use ascending, descending, or random)", e.Value)
}

func (e *ErrUnknownMode) Unwrap() error { return ErrInvalidConfig }
