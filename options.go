package arcrack

import (
	"io"
	"math/rand"

	"github.com/hupe1980/arcrack/internal/archive"
	"github.com/hupe1980/arcrack/internal/bloom"
	"github.com/hupe1980/arcrack/internal/status"
)

type options struct {
	logger       *Logger
	statusWriter io.Writer
	reporter     *status.Reporter
	tester       archive.Tester
	filter       *bloom.Filter
	workers      int
	randSource   rand.Source64
}

// Option configures Cracker construction. Collaborators the launch
// harness owns (the verifier adapter, the skip-list filter, the status
// sink) are injected here; everything else defaults sensibly.
type Option func(*options)

// WithLogger sets the structured logger. Defaults to a text logger on
// stderr at info level.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStatusWriter directs status lines to w instead of os.Stdout.
// Ignored when WithStatus is also given.
func WithStatusWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.statusWriter = w
		}
	}
}

// WithStatus shares an existing status reporter, so harness and
// controller emit on the same sink.
func WithStatus(r *status.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithTester sets the archive tester. Required: New fails without one.
func WithTester(t archive.Tester) Option {
	return func(o *options) {
		o.tester = t
	}
}

// WithFilter adopts a skip-list filter the harness loaded or built. The
// Cracker owns it for the duration of the run; workers hold a borrowed
// reference guarded by the Cracker's mutex.
func WithFilter(f *bloom.Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithWorkers overrides the fan-out. Defaults to the available
// hardware parallelism, with a floor of one.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRandSource injects the PRNG used to shuffle random-mode index
// vectors. Defaults to a Mersenne-Twister seeded from the operating
// system's entropy source. Deterministic tests inject a fixed seed.
func WithRandSource(src rand.Source64) Option {
	return func(o *options) {
		o.randSource = src
	}
}
