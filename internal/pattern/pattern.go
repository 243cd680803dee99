// Package pattern implements the wildcard template language used to
// constrain candidate shape: `?` stands for exactly one charset
// character, `*` for zero or more, and a backslash escapes the next
// character into a literal.
package pattern

import (
	"math"
	"strings"

	"github.com/hupe1980/arcrack/internal/keyspace"
)

// SegmentKind discriminates the three token kinds of a parsed pattern.
type SegmentKind uint8

const (
	// Literal is a run of characters matched verbatim.
	Literal SegmentKind = iota
	// AnyOne matches exactly one charset character (`?`).
	AnyOne
	// AnyMany matches zero or more charset characters (`*`).
	AnyMany
)

// Segment is one token of a parsed pattern. Text is non-empty only for
// Literal segments.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Pattern is an immutable parsed pattern with its derived attributes.
type Pattern struct {
	Segments []Segment

	literalLen int
	anyOnes    int
	stars      int
}

// Parse tokenizes the pattern string. Consecutive literal characters
// collapse into a single segment; `\c` yields literal c for any c. A
// trailing lone backslash is dropped.
func Parse(s string) *Pattern {
	p := &Pattern{}

	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			p.Segments = append(p.Segments, Segment{Kind: Literal, Text: literal.String()})
			p.literalLen += literal.Len()
			literal.Reset()
		}
	}

	escape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escape:
			literal.WriteByte(c)
			escape = false
		case c == '\\':
			escape = true
		case c == '?':
			flush()
			p.Segments = append(p.Segments, Segment{Kind: AnyOne})
			p.anyOnes++
		case c == '*':
			flush()
			p.Segments = append(p.Segments, Segment{Kind: AnyMany})
			p.stars++
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	return p
}

// FixedLength is the sum of literal lengths plus the count of `?`
// tokens: the minimum length of any match.
func (p *Pattern) FixedLength() int { return p.literalLen + p.anyOnes }

// AnyOnes returns the number of `?` tokens.
func (p *Pattern) AnyOnes() int { return p.anyOnes }

// Stars returns the number of `*` tokens.
func (p *Pattern) Stars() int { return p.stars }

// CombinationsForLength counts the candidates of exactly the given
// total length that match the pattern. The second return value is false
// when the count is undefined: multiplication overflowed uint64, or the
// pattern has two or more `*` tokens.
func (p *Pattern) CombinationsForLength(charsetSize uint64, length int) (uint64, bool) {
	if charsetSize == 0 {
		return 0, true
	}
	if p.stars >= 2 {
		return 0, false
	}
	if length < p.FixedLength() {
		return 0, true
	}

	wildcardChars := p.anyOnes
	if p.stars == 1 {
		wildcardChars += length - p.FixedLength()
	} else if length != p.FixedLength() {
		return 0, true
	}
	if wildcardChars == 0 {
		// Only literals remain: the single candidate is the pattern text.
		return 1, true
	}

	return keyspace.Combinations(charsetSize, wildcardChars)
}

// PasswordByIndex materializes the index-th candidate of exactly the
// given total length matching the pattern, for patterns with at most
// one `*`. The wildcard positions are filled from the length-unioned
// enumeration of the charset and woven into the segment order: each `?`
// consumes one wildcard character, the `*` consumes the whole length
// surplus, and literals are emitted verbatim. Returns false for indices
// outside the space, lengths the pattern cannot produce, or overflow.
func (p *Pattern) PasswordByIndex(index uint64, charset string, length int) (string, bool) {
	charsetSize := uint64(len(charset))
	if charsetSize == 0 || p.stars >= 2 {
		return "", false
	}

	starLen := 0
	if p.stars == 1 {
		starLen = length - p.FixedLength()
		if starLen < 0 {
			return "", false
		}
	} else if length != p.FixedLength() {
		return "", false
	}

	wildcardChars := p.anyOnes + starLen
	var fill string
	if wildcardChars == 0 {
		if index > 0 {
			return "", false
		}
	} else {
		// The fixed-width base-C enumeration of width w sits at
		// offset sum(C^l, l=1..w-1) of the length-unioned space.
		var offset uint64
		power := uint64(1)
		for l := 1; l < wildcardChars; l++ {
			if power > math.MaxUint64/charsetSize {
				return "", false
			}
			power *= charsetSize
			if offset > math.MaxUint64-power {
				return "", false
			}
			offset += power
		}
		if offset > math.MaxUint64-index {
			return "", false
		}

		var ok bool
		fill, ok = keyspace.PasswordByIndex(offset+index, charset, wildcardChars)
		if !ok || len(fill) != wildcardChars {
			return "", false
		}
	}

	var out strings.Builder
	out.Grow(length)
	next := 0
	for _, seg := range p.Segments {
		switch seg.Kind {
		case AnyOne:
			out.WriteByte(fill[next])
			next++
		case AnyMany:
			out.WriteString(fill[next : next+starLen])
			next += starLen
		default:
			out.WriteString(seg.Text)
		}
	}

	if out.Len() != length {
		return "", false
	}
	return out.String(), true
}

// GlobalPasswordByIndex resolves a global index over the concatenation,
// in ascending length order, of the per-length candidate windows given
// by counts, then defers to PasswordByIndex with the local offset.
func (p *Pattern) GlobalPasswordByIndex(global uint64, charset string, minLength, maxLength int, counts map[int]uint64) (string, bool) {
	current := global
	for length := minLength; length <= maxLength; length++ {
		count, ok := counts[length]
		if !ok || count == 0 {
			continue
		}
		if current < count {
			return p.PasswordByIndex(current, charset, length)
		}
		current -= count
	}
	return "", false
}
