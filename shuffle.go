package arcrack

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/seehuhn/mt19937"
)

// maxShuffleIndices caps the random-mode index vector at 4 GiB of
// uint64 entries.
const maxShuffleIndices = (4 << 30) / 8

// newTwisterSource returns a 64-bit Mersenne-Twister source seeded from
// the operating system's entropy provider, falling back to the wall
// clock when no entropy is available.
func newTwisterSource() rand.Source64 {
	mt := mt19937.New()

	var raw [8]byte
	if _, err := cryptorand.Read(raw[:]); err == nil {
		mt.Seed(int64(binary.LittleEndian.Uint64(raw[:])))
	} else {
		mt.Seed(time.Now().UnixNano())
	}

	return mt
}

// shuffledIndices materializes the vector [0, n) and applies a
// Fisher-Yates shuffle driven by src.
func shuffledIndices(n uint64, src rand.Source64) []uint64 {
	indices := make([]uint64, n)
	for i := range indices {
		indices[i] = uint64(i)
	}

	r := rand.New(src)
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	return indices
}
