package bloom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSizing(t *testing.T) {
	f := New(1000, 0.01)
	require.True(t, f.Valid())

	// m = ceil(-n*ln(p)/ln(2)^2) for n=1000, p=0.01 is 9586 bits,
	// k = ceil((m/n)*ln 2) is 7.
	assert.Equal(t, uint64(9586), f.NumBits())
	assert.Equal(t, uint32(7), f.NumHashes())
	assert.Equal(t, uint64(1000), f.Items())
	assert.Equal(t, 0.01, f.FPRate())
}

func TestNewClamps(t *testing.T) {
	// Large p shrinks m below the floor.
	f := New(1, 0.99)
	require.True(t, f.Valid())
	assert.GreaterOrEqual(t, f.NumBits(), uint64(8))
	assert.GreaterOrEqual(t, f.NumHashes(), uint32(1))

	// Tiny p would demand more than 20 hashes.
	f = New(10, 1e-30)
	require.True(t, f.Valid())
	assert.Equal(t, uint32(20), f.NumHashes())
}

func TestNewInvalidParameters(t *testing.T) {
	for _, f := range []*Filter{New(0, 0.01), New(100, 0), New(100, 1)} {
		require.True(t, f.Valid())
		assert.Equal(t, uint64(minBits), f.NumBits())
		assert.Equal(t, uint32(minHashes), f.NumHashes())
	}
}

func TestZeroValueInvalid(t *testing.T) {
	var f Filter
	assert.False(t, f.Valid())
	assert.False(t, (*Filter)(nil).Valid())

	// Operations on an invalid filter are inert.
	f.Add("x")
	assert.False(t, f.MayContain("x"))
}

func TestNoFalseNegatives(t *testing.T) {
	f := New(1000, 0.01)
	require.True(t, f.Valid())

	for i := 0; i < 1000; i++ {
		f.Add(fmt.Sprintf("candidate-%d", i))
	}
	for i := 0; i < 1000; i++ {
		assert.True(t, f.MayContain(fmt.Sprintf("candidate-%d", i)), "inserted item %d must be reported present", i)
	}
}

func TestFalsePositiveRate(t *testing.T) {
	const n = 10000
	f := New(n, 0.01)
	require.True(t, f.Valid())

	for i := 0; i < n; i++ {
		f.Add(fmt.Sprintf("in-%d", i))
	}

	falsePositives := 0
	for i := 0; i < n; i++ {
		if f.MayContain(fmt.Sprintf("out-%d", i)) {
			falsePositives++
		}
	}

	// Loose bound: observed rate within 2x of the target.
	assert.LessOrEqual(t, float64(falsePositives)/n, 0.02,
		"observed false-positive rate too high: %d/%d", falsePositives, n)
}

func TestRoundTrip(t *testing.T) {
	f := New(500, 0.01)
	require.True(t, f.Valid())
	for i := 0; i < 200; i++ {
		f.Add(fmt.Sprintf("item-%d", i))
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, int64(headerSize+(f.NumBits()+7)/8), n)

	loaded, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, loaded.Valid())

	assert.Equal(t, f.NumBits(), loaded.NumBits())
	assert.Equal(t, f.NumHashes(), loaded.NumHashes())
	assert.Equal(t, f.Items(), loaded.Items())
	assert.Equal(t, f.FPRate(), loaded.FPRate())
	assert.Equal(t, f.words, loaded.words)

	for i := 0; i < 200; i++ {
		assert.True(t, loaded.MayContain(fmt.Sprintf("item-%d", i)))
	}
}

func TestHeaderLayout(t *testing.T) {
	f := New(100, 0.01)
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.Bytes()
	assert.Equal(t, uint32(0xBF10F17E), binary.LittleEndian.Uint32(raw[0:4]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(raw[4:6]))
	assert.Equal(t, f.NumBits(), binary.LittleEndian.Uint64(raw[6:14]))
	assert.Equal(t, f.NumHashes(), binary.LittleEndian.Uint32(raw[14:18]))
	assert.Equal(t, uint64(100), binary.LittleEndian.Uint64(raw[18:26]))
	assert.Equal(t, 0.01, math.Float64frombits(binary.LittleEndian.Uint64(raw[26:34])))
}

func TestReadRejectsCorruption(t *testing.T) {
	valid := func() []byte {
		f := New(100, 0.01)
		f.Add("x")
		var buf bytes.Buffer
		_, err := f.WriteTo(&buf)
		require.NoError(t, err)
		return buf.Bytes()
	}

	t.Run("wrong magic", func(t *testing.T) {
		raw := valid()
		raw[0] ^= 0xFF
		_, err := Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptedFilter)
	})

	t.Run("wrong version", func(t *testing.T) {
		raw := valid()
		binary.LittleEndian.PutUint16(raw[4:6], 2)
		_, err := Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptedFilter)
	})

	t.Run("zero parameters", func(t *testing.T) {
		raw := valid()
		binary.LittleEndian.PutUint32(raw[14:18], 0)
		_, err := Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptedFilter)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		raw := append(valid(), 0x00)
		_, err := Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptedFilter)
	})

	t.Run("truncated vector", func(t *testing.T) {
		raw := valid()
		_, err := Read(bytes.NewReader(raw[:len(raw)-3]))
		assert.ErrorIs(t, err, ErrCorruptedFilter)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Read(bytes.NewReader(valid()[:10]))
		assert.ErrorIs(t, err, ErrCorruptedFilter)
	})
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip.bloom")

	f := New(100, 0.01)
	f.Add("tried")
	require.NoError(t, f.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.MayContain("tried"))
	assert.False(t, loaded.MayContain("definitely-not-inserted-value"))

	// Save truncates: a second, smaller filter replaces the file.
	small := New(10, 0.5)
	require.NoError(t, small.SaveFile(path))
	loaded, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, small.NumBits(), loaded.NumBits())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.bloom"))
	assert.True(t, os.IsNotExist(err))
}

func TestEstimateBits(t *testing.T) {
	assert.Equal(t, uint64(9586), EstimateBits(1000, 0.01))
	assert.Equal(t, uint64(minBits), EstimateBits(0, 0.01))
	assert.Equal(t, uint64(minBits), EstimateBits(100, 0))
}
