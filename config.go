package arcrack

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Mode selects the order in which candidates are enumerated.
type Mode uint8

const (
	// ModeAscending walks lengths from shortest to longest.
	ModeAscending Mode = iota
	// ModeDescending walks lengths from longest to shortest.
	ModeDescending
	// ModeRandom tests a uniform shuffle of the whole target space.
	ModeRandom
)

// ParseMode parses a case-insensitive mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ascending":
		return ModeAscending, nil
	case "descending":
		return ModeDescending, nil
	case "random":
		return ModeRandom, nil
	default:
		return ModeAscending, &ErrUnknownMode{Value: s}
	}
}

func (m Mode) String() string {
	switch m {
	case ModeDescending:
		return "descending"
	case ModeRandom:
		return "random"
	default:
		return "ascending"
	}
}

// Config carries the launch parameters. It is immutable after New: the
// run controller and workers only ever read it.
type Config struct {
	// Charset is the ordered sequence of characters admissible in
	// wildcard positions; its order defines digit order in index
	// arithmetic.
	Charset string `validate:"required"`

	// MinLength and MaxLength bound the candidate length range.
	MinLength int `validate:"gte=1"`
	MaxLength int `validate:"gtefield=MinLength"`

	// ArchivePath is the target file handed to the verifier.
	ArchivePath string `validate:"required"`

	// Mode selects the enumeration order.
	Mode Mode `validate:"lte=2"`

	// Pattern optionally constrains candidate shape (`?`, `*`, `\c`).
	Pattern string

	// SkipFilePath enables the skip-list filter when non-empty; the
	// sibling path SkipFilePath+".stop" is the cancellation sentinel.
	SkipFilePath string

	// CheckpointInterval is the minimum spacing between mid-run filter
	// saves; zero disables periodic checkpointing.
	CheckpointInterval time.Duration `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the launch invariants. Failures wrap
// ErrInvalidConfig so the harness can map them to the argument-error
// exit status.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// StopFlagPath returns the cancellation sentinel path, or "" when no
// skip file is configured.
func (c *Config) StopFlagPath() string {
	if c.SkipFilePath == "" {
		return ""
	}
	return c.SkipFilePath + ".stop"
}
