package arcrack

import (
	"context"
	"math"

	"github.com/hupe1980/arcrack/internal/keyspace"
	"github.com/hupe1980/arcrack/internal/pattern"
)

// runLengths walks the length range in the given direction and
// dispatches one index window per length: the full base-C space for
// plain enumeration, or the pattern's per-length window when pat is
// non-nil. Lengths whose counts overflow are skipped with a warning.
func (c *Cracker) runLengths(ctx context.Context, rs *runState, pat *pattern.Pattern, minLen, maxLen int, mode Mode) {
	start, end, step := minLen, maxLen, 1
	if mode == ModeDescending {
		start, end, step = maxLen, minLen, -1
	}
	charsetSize := uint64(len(c.cfg.Charset))

	for length := start; (step > 0 && length <= end) || (step < 0 && length >= end); length += step {
		if rs.found.Set() || rs.stop.CheckFile() || ctx.Err() != nil {
			break
		}

		var (
			total uint64
			ok    bool
		)
		if pat != nil {
			total, ok = pat.CombinationsForLength(charsetSize, length)
			if !ok {
				c.status.Warnf("Cannot calculate combinations (overflow?) for pattern length %d. Skipping.", length)
				continue
			}
		} else {
			total, ok = keyspace.Combinations(charsetSize, length)
			if !ok {
				c.status.Warnf("Combination calculation overflow for length %d. Skipping.", length)
				continue
			}
		}
		if total == 0 {
			continue
		}

		var build buildFunc
		if pat != nil {
			c.status.Infof("Testing pattern matching passwords of length %d (Combinations: %d)...", length, total)
			build = func(index uint64) (string, bool) {
				return pat.PasswordByIndex(index, c.cfg.Charset, length)
			}
		} else {
			c.status.Infof("Testing passwords of length %d (Combinations: %d)...", length, total)
			build = func(index uint64) (string, bool) {
				return keyspace.PasswordAtLength(index, c.cfg.Charset, length), true
			}
		}

		rs.d.run(ctx, total, build)
		c.status.Infof("Worker threads joined for length %d.", length)
		c.maybeCheckpoint(rs)
	}
}

// runPattern coerces the length range to the pattern's constraints and
// runs the requested mode. Random mode degrades to ascending when the
// pattern has multiple stars, when a per-length count is undefined, or
// when the index vector would break the memory ceiling.
func (c *Cracker) runPattern(ctx context.Context, rs *runState) {
	c.status.Infof("Pattern matching mode enabled.")
	pat := pattern.Parse(c.cfg.Pattern)

	minLen, maxLen := c.cfg.MinLength, c.cfg.MaxLength
	fixed := pat.FixedLength()
	if minLen < fixed {
		c.status.Infof("Adjusted min_length from %d to pattern minimum %d", minLen, fixed)
		minLen = fixed
	}
	if pat.Stars() == 0 && maxLen != fixed {
		c.status.Infof("Adjusted max_length to %d (pattern has fixed length)", fixed)
		maxLen = fixed
	}
	if maxLen < minLen {
		c.status.Infof("Corrected max_length to %d (max < min)", minLen)
		maxLen = minLen
	}

	mode := c.cfg.Mode
	if mode == ModeRandom {
		if pat.Stars() > 1 {
			c.status.Warnf("Random mode is unsupported for multi-star patterns. Falling back to ascending order.")
			mode = ModeAscending
		} else if c.runRandomPattern(ctx, rs, pat, minLen, maxLen) {
			return
		} else {
			mode = ModeAscending
		}
	}

	c.runLengths(ctx, rs, pat, minLen, maxLen, mode)
}

// runRandomPattern implements random order over a pattern space: a
// shuffled vector of global pattern indices resolved per candidate. It
// returns false when random mode cannot be used and the caller should
// fall back to ascending order.
func (c *Cracker) runRandomPattern(ctx context.Context, rs *runState, pat *pattern.Pattern, minLen, maxLen int) bool {
	c.status.Infof("Calculating total combinations for random pattern mode...")
	charsetSize := uint64(len(c.cfg.Charset))

	counts := make(map[int]uint64)
	var total uint64
	for length := minLen; length <= maxLen; length++ {
		if rs.stop.CheckFile() {
			return true
		}
		count, ok := pat.CombinationsForLength(charsetSize, length)
		if !ok {
			c.status.Errorf("Pattern combination calculation failed (overflow?) for length %d", length)
			c.status.Infof("Falling back to ascending length order.")
			return false
		}
		if count == 0 {
			continue
		}
		counts[length] = count
		if total > math.MaxUint64-count {
			c.status.Errorf("Total pattern combination calculation overflowed.")
			c.status.Infof("Falling back to ascending length order.")
			return false
		}
		total += count
	}

	if total == 0 {
		c.status.Infof("Pattern generates 0 combinations in the specified length range.")
		return true
	}
	c.status.Infof("Total pattern combinations in range: %d", total)

	if total > maxShuffleIndices {
		c.status.Errorf("Pattern space too large for random mode RAM usage (%d MB needed). Falling back to ascending order.", total/(1024*1024/8))
		return false
	}

	c.status.Infof("Generating and shuffling %d pattern indices...", total)
	indices := shuffledIndices(total, c.shuffleSource())
	c.status.Infof("Pattern indices shuffled.")

	if rs.stop.CheckFile() {
		return true
	}

	rs.d.run(ctx, total, func(index uint64) (string, bool) {
		return pat.GlobalPasswordByIndex(indices[index], c.cfg.Charset, minLen, maxLen, counts)
	})
	c.status.Infof("Shuffled pattern worker threads joined.")
	c.maybeCheckpoint(rs)
	return true
}

// runRandom implements random order over the plain key space: workers
// offset each shuffled index past the lengths below MinLength and
// resolve it through the length-unioned enumeration. Random mode is
// unavailable when the counts overflow or the index vector would break
// the memory ceiling; the run then exhausts without work.
func (c *Cracker) runRandom(ctx context.Context, rs *runState) {
	c.status.Infof("Calculating total combinations for random mode...")
	charsetSize := uint64(len(c.cfg.Charset))

	prefix, ok := keyspace.Total(charsetSize, 1, c.cfg.MinLength-1)
	if !ok {
		c.status.Errorf("Overflow calculating total prefix password count.")
		return
	}
	target, ok := keyspace.Total(charsetSize, c.cfg.MinLength, c.cfg.MaxLength)
	if !ok {
		c.status.Errorf("Overflow calculating total target password count.")
		return
	}
	if rs.stop.CheckFile() {
		return
	}
	if target == 0 {
		c.status.Warnf("Calculated total passwords in target range is zero.")
		return
	}

	c.status.Infof("Total passwords to test (lengths %d to %d): %d", c.cfg.MinLength, c.cfg.MaxLength, target)

	if target > maxShuffleIndices {
		c.status.Errorf("Target password space too large for shuffled index mode RAM usage (%d MB needed).", target/(1024*1024/8))
		return
	}

	c.status.Infof("Generating and shuffling target indices...")
	indices := shuffledIndices(target, c.shuffleSource())
	c.status.Infof("Index vector generated and shuffled.")

	if rs.stop.CheckFile() {
		return
	}

	rs.d.run(ctx, target, func(index uint64) (string, bool) {
		return keyspace.PasswordByIndex(indices[index]+prefix, c.cfg.Charset, c.cfg.MaxLength)
	})
	c.status.Infof("Shuffled index worker threads joined.")
	c.maybeCheckpoint(rs)
}
