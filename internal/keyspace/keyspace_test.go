package keyspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinations(t *testing.T) {
	tests := []struct {
		name        string
		charsetSize uint64
		length      int
		want        uint64
		wantOK      bool
	}{
		{name: "single char", charsetSize: 26, length: 1, want: 26, wantOK: true},
		{name: "power", charsetSize: 4, length: 3, want: 64, wantOK: true},
		{name: "zero length", charsetSize: 4, length: 0, want: 0, wantOK: true},
		{name: "empty charset", charsetSize: 0, length: 3, want: 0, wantOK: true},
		{name: "overflow", charsetSize: 1 << 32, length: 2, wantOK: false},
		{name: "max fit", charsetSize: 2, length: 63, want: 1 << 63, wantOK: true},
		{name: "one past", charsetSize: 2, length: 64, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Combinations(tt.charsetSize, tt.length)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	// 2 + 4 + 8 = 14
	total, ok := Total(2, 1, 3)
	require.True(t, ok)
	assert.Equal(t, uint64(14), total)

	// Empty range sums to zero.
	total, ok = Total(2, 1, 0)
	require.True(t, ok)
	assert.Zero(t, total)

	_, ok = Total(1<<32, 1, 3)
	assert.False(t, ok)
}

func TestPasswordAtLength(t *testing.T) {
	tests := []struct {
		index  uint64
		length int
		want   string
	}{
		{0, 2, "aa"},
		{1, 2, "ab"},
		{2, 2, "ba"},
		{3, 2, "bb"},
		{0, 1, "a"},
		{1, 1, "b"},
		{5, 3, "bab"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordAtLength(tt.index, "ab", tt.length), "index %d length %d", tt.index, tt.length)
	}
}

func TestPasswordAtLengthDigitOrder(t *testing.T) {
	// Most-significant position first: index 7 in base 4 is "13".
	assert.Equal(t, "13", PasswordAtLength(7, "0123", 2))
	assert.Equal(t, "013", PasswordAtLength(7, "0123", 3))
}

func TestPasswordByIndexBijection(t *testing.T) {
	const charset = "ab"
	const maxLength = 3

	total, ok := Total(uint64(len(charset)), 1, maxLength)
	require.True(t, ok)
	require.Equal(t, uint64(14), total)

	seen := make(map[string]struct{}, total)
	for i := uint64(0); i < total; i++ {
		password, ok := PasswordByIndex(i, charset, maxLength)
		require.True(t, ok, "index %d", i)

		// Length windows are contiguous: 0..1 length 1, 2..5 length 2,
		// 6..13 length 3.
		switch {
		case i < 2:
			assert.Len(t, password, 1)
		case i < 6:
			assert.Len(t, password, 2)
		default:
			assert.Len(t, password, 3)
		}

		_, dup := seen[password]
		assert.False(t, dup, "duplicate %q at index %d", password, i)
		seen[password] = struct{}{}
	}

	assert.Len(t, seen, int(total))

	_, ok = PasswordByIndex(total, charset, maxLength)
	assert.False(t, ok, "index past the space must fail")
}

func TestPasswordByIndexEmptyCharset(t *testing.T) {
	_, ok := PasswordByIndex(0, "", 3)
	assert.False(t, ok)
}
