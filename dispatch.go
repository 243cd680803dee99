package arcrack

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/arcrack/internal/archive"
	"github.com/hupe1980/arcrack/internal/bloom"
	"github.com/hupe1980/arcrack/internal/status"
	"github.com/hupe1980/arcrack/internal/stopfile"
)

// stopPollEvery is the number of candidates a worker advances between
// consultations of the external stop flag file.
const stopPollEvery = 1000

// foundCell latches the first accepted password. The flag transitions
// unset -> set at most once via CAS; the winning worker stores the
// password under the paired mutex.
type foundCell struct {
	set      atomic.Bool
	mu       sync.Mutex
	password string
}

// TrySet attempts the unset -> set transition. Only the single caller
// that wins stores its password and sees true.
func (f *foundCell) TrySet(password string) bool {
	if !f.set.CompareAndSwap(false, true) {
		return false
	}
	f.mu.Lock()
	f.password = password
	f.mu.Unlock()
	return true
}

// Set reports whether a password has been latched.
func (f *foundCell) Set() bool { return f.set.Load() }

// Password returns the latched password, or "" when unset.
func (f *foundCell) Password() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password
}

// stopLatch is the cooperative cancellation flag: a single atomic bool
// that transitions false -> true at most once, fed by the external flag
// file and by fatal conditions.
type stopLatch struct {
	requested atomic.Bool
	flagPath  string
}

// Request latches the stop flag.
func (s *stopLatch) Request() { s.requested.Store(true) }

// Requested reports whether a stop has been latched.
func (s *stopLatch) Requested() bool { return s.requested.Load() }

// CheckFile consults the external flag file, latching and reporting
// true when it exists. Already-latched stops short-circuit the stat.
func (s *stopLatch) CheckFile() bool {
	if s.requested.Load() {
		return true
	}
	if s.flagPath != "" && stopfile.Exists(s.flagPath) {
		s.requested.Store(true)
		return true
	}
	return false
}

// buildFunc materializes the candidate at an index. A false return
// means the index cannot produce a candidate and is skipped.
type buildFunc func(index uint64) (string, bool)

// dispatcher fans a contiguous index window out over worker
// goroutines. The same dispatcher is reused across length chunks of a
// run; the found cell and stop latch it carries span the whole run.
type dispatcher struct {
	workers  int
	tester   archive.Tester
	archive  string
	filter   *bloom.Filter
	filterMu *sync.RWMutex
	found    *foundCell
	stop     *stopLatch
	status   *status.Reporter
	logger   *Logger

	tested   atomic.Uint64
	progress rate.Sometimes
}

// run partitions [0, total) into one contiguous chunk per worker (the
// last may be shorter) and joins all workers before returning. Workers
// are never abandoned: an early find or a stop request drains them.
func (d *dispatcher) run(ctx context.Context, total uint64, build buildFunc) {
	if total == 0 {
		return
	}

	workers := d.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (total + uint64(workers) - 1) / uint64(workers)
	d.logger.LogDispatch(total, workers)

	g, ctx := errgroup.WithContext(ctx)
	for t := 0; t < workers; t++ {
		start := uint64(t) * chunk
		if start >= total {
			break
		}
		end := min(start+chunk, total)
		g.Go(func() error {
			d.worker(ctx, start, end, build)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *dispatcher) worker(ctx context.Context, start, end uint64, build buildFunc) {
	for index, seen := start, uint64(0); index < end; index, seen = index+1, seen+1 {
		if seen%stopPollEvery == 0 && d.stop.flagPath != "" && d.stop.CheckFile() {
			d.status.Infof("Stop flag detected by worker.")
			return
		}
		if d.found.Set() || d.stop.Requested() || ctx.Err() != nil {
			return
		}

		password, ok := build(index)
		if !ok {
			d.status.Warnf("Skipping impossible candidate index %d.", index)
			continue
		}

		if d.filter != nil {
			d.filterMu.RLock()
			skip := d.filter.MayContain(password)
			d.filterMu.RUnlock()
			if skip {
				continue
			}
		}

		if d.tester.Test(password, d.archive) {
			if d.found.TrySet(password) {
				d.logger.Info("candidate accepted", "length", len(password))
			}
			return
		}

		tested := d.tested.Add(1)
		d.progress.Do(func() {
			d.status.Infof("Progress: %d candidates tested so far.", tested)
		})

		if d.filter != nil {
			d.filterMu.Lock()
			d.filter.Add(password)
			d.filterMu.Unlock()
		}
	}
}
