package arcrack

import (
	"context"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/arcrack/internal/archive"
	"github.com/hupe1980/arcrack/internal/bloom"
	"github.com/hupe1980/arcrack/internal/status"
	"github.com/hupe1980/arcrack/internal/stopfile"
)

// progressEvery bounds how often workers emit a progress status line.
const progressEvery = 30 * time.Second

// Cracker is the run controller: it owns the skip-list filter, selects
// an enumeration strategy from the configuration, dispatches workers,
// and drives checkpointing and the final save.
type Cracker struct {
	cfg    Config
	logger *Logger
	status *status.Reporter
	tester archive.Tester

	filter *bloom.Filter
	// filterMu serializes filter mutation and serialization; workers
	// take the read side for membership tests.
	filterMu sync.RWMutex

	workers    int
	randSource rand.Source64
}

// New validates the configuration and assembles a Cracker. The archive
// tester is mandatory; everything else has defaults.
func New(cfg Config, optFns ...Option) (*Cracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:       NewLogger(nil),
		statusWriter: os.Stdout,
		workers:      runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	if o.tester == nil {
		return nil, ErrNilTester
	}
	if o.reporter == nil {
		o.reporter = status.New(o.statusWriter, o.logger.Logger)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	return &Cracker{
		cfg:        cfg,
		logger:     o.logger,
		status:     o.reporter,
		tester:     o.tester,
		filter:     o.filter,
		workers:    o.workers,
		randSource: o.randSource,
	}, nil
}

// runState is the mutable per-run coordination state shared between the
// controller and its dispatcher.
type runState struct {
	found          *foundCell
	stop           *stopLatch
	d              *dispatcher
	lastCheckpoint time.Time
}

// Run executes the search and returns the accepted password, or ""
// when the space was exhausted or a stop was requested. A panic inside
// the controller is caught at this frame: it is reported as FATAL, a
// best-effort final save is attempted, and the run returns empty.
func (c *Cracker) Run(ctx context.Context) (password string, err error) {
	started := time.Now()

	rs := &runState{
		found:          &foundCell{},
		stop:           &stopLatch{flagPath: c.cfg.StopFlagPath()},
		lastCheckpoint: started,
	}
	rs.d = c.newDispatcher(rs)

	defer func() {
		if r := recover(); r != nil {
			rs.stop.Request()
			c.status.Fatalf("%v", r)
			c.logger.Error("controller panic", "panic", r)
			c.finalSave(rs, true)
			password, err = "", nil
		}
	}()

	c.status.Infof("Starting brute-force worker...")
	c.status.Infof("Using %d worker threads.", c.workers)

	if rs.stop.flagPath != "" {
		watcher, werr := stopfile.Watch(rs.stop.flagPath, func() {
			rs.stop.Request()
			c.status.Infof("Stop flag file detected.")
		})
		if werr != nil {
			c.logger.Warn("stop flag watcher unavailable, polling only", "error", werr)
		} else {
			defer watcher.Close()
		}
	}

	switch {
	case c.cfg.Pattern != "":
		c.runPattern(ctx, rs)
	case c.cfg.Mode == ModeRandom:
		c.runRandom(ctx, rs)
	default:
		c.runLengths(ctx, rs, nil, c.cfg.MinLength, c.cfg.MaxLength, c.cfg.Mode)
	}

	c.status.Infof("Brute-force worker processing finished in %.3f seconds.", time.Since(started).Seconds())
	c.finalSave(rs, false)

	switch {
	case rs.found.Set():
		return rs.found.Password(), nil
	case rs.stop.Requested():
		c.status.Infof("Process stopped by user request.")
		return "", nil
	default:
		c.status.Infof("Exhausted search space without finding password.")
		return "", nil
	}
}

func (c *Cracker) newDispatcher(rs *runState) *dispatcher {
	d := &dispatcher{
		workers:  c.workers,
		tester:   c.tester,
		archive:  c.cfg.ArchivePath,
		found:    rs.found,
		stop:     rs.stop,
		status:   c.status,
		logger:   c.logger,
		progress: rate.Sometimes{Interval: progressEvery},
	}
	if c.filter.Valid() {
		d.filter = c.filter
		d.filterMu = &c.filterMu
	}
	return d
}

// shuffleSource returns the injected PRNG source, or a freshly seeded
// Mersenne-Twister.
func (c *Cracker) shuffleSource() rand.Source64 {
	if c.randSource != nil {
		return c.randSource
	}
	return newTwisterSource()
}

// maybeCheckpoint serializes the filter when the checkpoint interval
// has elapsed since the previous save. Called between length chunks;
// never from workers. Serialize failures are logged and non-fatal.
func (c *Cracker) maybeCheckpoint(rs *runState) {
	if !c.filter.Valid() || c.cfg.SkipFilePath == "" || c.cfg.CheckpointInterval <= 0 || rs.stop.Requested() {
		return
	}
	if time.Since(rs.lastCheckpoint) < c.cfg.CheckpointInterval {
		return
	}

	c.status.Infof("Checkpoint interval reached. Saving skip list state...")
	c.filterMu.Lock()
	err := c.filter.SaveFile(c.cfg.SkipFilePath)
	c.filterMu.Unlock()

	c.logger.LogCheckpoint(c.cfg.SkipFilePath, err)
	if err != nil {
		c.status.Errorf("Failed to save skip list checkpoint: %v", err)
	} else {
		c.status.Infof("Skip list checkpoint saved successfully to: %s", c.cfg.SkipFilePath)
	}
	// The schedule advances even on failure so a broken disk does not
	// turn every length boundary into a save attempt.
	rs.lastCheckpoint = time.Now()
}

// finalSave persists the filter at termination, but only when there is
// something worth recording: the password was found or a stop was
// requested (or the controller is unwinding from a panic). A clean
// exhaustion deliberately does not save, so later runs do not consult a
// fully swept filter.
func (c *Cracker) finalSave(rs *runState, unwinding bool) {
	if c.cfg.SkipFilePath == "" || c.filter == nil {
		return
	}
	if !c.filter.Valid() {
		c.status.Infof("Final skip list save skipped because filter became invalid during run.")
		return
	}
	if !unwinding && !rs.found.Set() && !rs.stop.Requested() {
		c.status.Infof("Final skip list save skipped (process finished normally without finding password or being stopped).")
		return
	}

	c.status.Infof("Performing final save of skip list state...")
	c.filterMu.Lock()
	err := c.filter.SaveFile(c.cfg.SkipFilePath)
	c.filterMu.Unlock()

	if err != nil {
		c.status.Errorf("Failed to save final skip list state: %v", err)
	} else {
		c.status.Infof("Skip list final state saved successfully to: %s", c.cfg.SkipFilePath)
	}
}
