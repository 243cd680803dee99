// Package bloom provides the skip-list filter: a fixed-capacity Bloom
// filter over candidate strings with a stable little-endian file
// format, so that a run can be resumed without re-testing passwords the
// archive already rejected.
//
// A membership test returning false means the candidate was never
// inserted; true means it may have been (false positives occur at
// roughly the configured rate, never false negatives).
package bloom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	fileMagic   = 0xBF10F17E
	fileVersion = 1
	headerSize  = 34

	minBits   = 8
	minHashes = 1
	maxHashes = 20
)

// ErrCorruptedFilter indicates a skip-list file that cannot be adopted:
// wrong magic, wrong version, zero parameters, or trailing bytes.
// Callers treat such a file as absent and build a fresh filter.
var ErrCorruptedFilter = errors.New("bloom: corrupted filter file")

// Filter is a Bloom filter keyed by FNV-1a double hashing. The zero
// value is invalid; construct with New or Read. Add and MayContain are
// not synchronized; concurrent writers must serialize externally.
type Filter struct {
	words     []uint64
	numBits   uint64
	numHashes uint32
	items     uint64
	fpRate    float64
}

// EstimateBits returns the bit count New would allocate for the given
// target item count and false-positive rate, before allocation. Used to
// enforce memory ceilings up front.
func EstimateBits(items uint64, fpRate float64) uint64 {
	if items == 0 || fpRate <= 0 || fpRate >= 1 {
		return minBits
	}
	exact := -(float64(items) * math.Log(fpRate)) / (math.Ln2 * math.Ln2)
	bits := uint64(math.Ceil(exact))
	if bits < minBits {
		bits = minBits
	}
	return bits
}

// New builds a filter sized for the given target item count at the
// given false-positive rate: m = ceil(-n*ln(p)/ln(2)^2) bits, clamped
// to at least 8, and k = ceil((m/n)*ln 2) hashes, clamped to [1, 20].
// Invalid parameters yield a minimal 8-bit filter; an allocation
// failure yields an invalid filter the caller must check with Valid.
func New(items uint64, fpRate float64) (f *Filter) {
	defer func() {
		// makeslice panics when the bit vector cannot be sized.
		if recover() != nil {
			f = &Filter{}
		}
	}()

	if items == 0 || fpRate <= 0 || fpRate >= 1 {
		return &Filter{
			words:     make([]uint64, 1),
			numBits:   minBits,
			numHashes: minHashes,
			items:     items,
			fpRate:    fpRate,
		}
	}

	numBits := EstimateBits(items, fpRate)
	numHashes := uint32(math.Ceil(float64(numBits) / float64(items) * math.Ln2))
	if numHashes < minHashes {
		numHashes = minHashes
	}
	if numHashes > maxHashes {
		numHashes = maxHashes
	}

	return &Filter{
		words:     make([]uint64, (numBits+63)/64),
		numBits:   numBits,
		numHashes: numHashes,
		items:     items,
		fpRate:    fpRate,
	}
}

// Valid reports whether the filter holds an allocated bit vector and a
// usable hash count. Callers skip filter use entirely when false.
func (f *Filter) Valid() bool {
	return f != nil && len(f.words) > 0 && f.numHashes > 0
}

// NumBits returns the size of the bit vector (m).
func (f *Filter) NumBits() uint64 { return f.numBits }

// NumHashes returns the number of hash functions (k).
func (f *Filter) NumHashes() uint32 { return f.numHashes }

// Items returns the target item count the filter was sized for (n).
func (f *Filter) Items() uint64 { return f.items }

// FPRate returns the target false-positive rate (p).
func (f *Filter) FPRate() float64 { return f.fpRate }

// Add inserts an item. After Add(s), MayContain(s) always returns true.
func (f *Filter) Add(item string) {
	if !f.Valid() {
		return
	}
	h1, h2 := baseHashes(item)
	for i := uint32(0); i < f.numHashes; i++ {
		bit := (h1 + uint64(i)*h2) % f.numBits
		f.words[bit/64] |= 1 << (bit % 64)
	}
}

// MayContain reports whether the item may have been inserted. A false
// result is definitive.
func (f *Filter) MayContain(item string) bool {
	if !f.Valid() {
		return false
	}
	h1, h2 := baseHashes(item)
	for i := uint32(0); i < f.numHashes; i++ {
		bit := (h1 + uint64(i)*h2) % f.numBits
		if f.words[bit/64]&(1<<(bit%64)) == 0 {
			return false
		}
	}
	return true
}

// baseHashes computes the two 64-bit hashes used for double hashing:
// FNV-1a over the item, and FNV-1a over the little-endian bytes of the
// first hash.
func baseHashes(item string) (h1, h2 uint64) {
	const (
		fnvOffset = 0xcbf29ce484222325
		fnvPrime  = 0x100000001b3
	)

	h1 = fnvOffset
	for i := 0; i < len(item); i++ {
		h1 ^= uint64(item[i])
		h1 *= fnvPrime
	}

	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], h1)
	h2 = uint64(fnvOffset)
	for _, b := range raw {
		h2 ^= uint64(b)
		h2 *= fnvPrime
	}

	return h1, h2
}

// WriteTo serializes the filter: a 34-byte little-endian header (magic,
// version, m, k, n, p) followed by ceil(m/8) packed bytes with bit i at
// byte i/8, mask 1<<(i%8).
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], fileMagic)
	binary.LittleEndian.PutUint16(header[4:6], fileVersion)
	binary.LittleEndian.PutUint64(header[6:14], f.numBits)
	binary.LittleEndian.PutUint32(header[14:18], f.numHashes)
	binary.LittleEndian.PutUint64(header[18:26], f.items)
	binary.LittleEndian.PutUint64(header[26:34], math.Float64bits(f.fpRate))

	written := int64(0)
	n, err := w.Write(header)
	written += int64(n)
	if err != nil {
		return written, err
	}

	packed := make([]byte, (f.numBits+7)/8)
	for i := range packed {
		packed[i] = byte(f.words[i/8] >> (8 * (uint(i) % 8)))
	}
	n, err = w.Write(packed)
	written += int64(n)
	return written, err
}

// Read deserializes a filter written by WriteTo. It returns
// ErrCorruptedFilter (wrapped with the reason) for wrong magic, wrong
// version, zero parameters, a short bit vector, or trailing bytes.
func Read(r io.Reader) (*Filter, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrCorruptedFilter, err)
	}

	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != fileMagic {
		return nil, fmt.Errorf("%w: invalid magic %#x", ErrCorruptedFilter, magic)
	}
	if version := binary.LittleEndian.Uint16(header[4:6]); version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptedFilter, version)
	}

	numBits := binary.LittleEndian.Uint64(header[6:14])
	numHashes := binary.LittleEndian.Uint32(header[14:18])
	if numBits == 0 || numHashes == 0 {
		return nil, fmt.Errorf("%w: zero parameters", ErrCorruptedFilter)
	}

	packed := make([]byte, (numBits+7)/8)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, fmt.Errorf("%w: short bit vector: %w", ErrCorruptedFilter, err)
	}
	var extra [1]byte
	if n, _ := io.ReadFull(r, extra[:]); n != 0 {
		return nil, fmt.Errorf("%w: trailing bytes", ErrCorruptedFilter)
	}

	words := make([]uint64, (numBits+63)/64)
	for i, b := range packed {
		words[i/8] |= uint64(b) << (8 * (uint(i) % 8))
	}

	return &Filter{
		words:     words,
		numBits:   numBits,
		numHashes: numHashes,
		items:     binary.LittleEndian.Uint64(header[18:26]),
		fpRate:    math.Float64frombits(binary.LittleEndian.Uint64(header[26:34])),
	}, nil
}

// SaveFile writes the filter to path, truncating any previous content.
func (f *Filter) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadFile reads a filter from path. A missing file surfaces as the
// underlying os error; corruption surfaces as ErrCorruptedFilter.
func LoadFile(path string) (*Filter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}
