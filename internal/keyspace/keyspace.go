// Package keyspace maps 64-bit indices to candidate passwords.
//
// The key space for a charset of size C and a maximum length L is the
// union of the base-C enumerations of every length 1..L, concatenated in
// length order. All mappings are pure functions of immutable inputs and
// safe to call from any goroutine.
package keyspace

import "math"

// Combinations returns C^length with overflow detection. The second
// return value is false when the product does not fit in a uint64. An
// empty charset or a length of zero or less yields 0, not C^0.
func Combinations(charsetSize uint64, length int) (uint64, bool) {
	if charsetSize == 0 || length <= 0 {
		return 0, true
	}

	combinations := uint64(1)
	for i := 0; i < length; i++ {
		if combinations > math.MaxUint64/charsetSize {
			return 0, false
		}
		combinations *= charsetSize
	}

	return combinations, true
}

// Total returns the sum of C^L for L in [minLength, maxLength], with
// overflow detection.
func Total(charsetSize uint64, minLength, maxLength int) (uint64, bool) {
	var total uint64
	for length := minLength; length <= maxLength; length++ {
		combinations, ok := Combinations(charsetSize, length)
		if !ok {
			return 0, false
		}
		if total > math.MaxUint64-combinations {
			return 0, false
		}
		total += combinations
	}
	return total, true
}

// PasswordAtLength returns the index-th string of exactly the given
// length over charset, most-significant position first. The index must
// be below C^length; behavior repeats modulo the space otherwise.
func PasswordAtLength(index uint64, charset string, length int) string {
	charsetSize := uint64(len(charset))
	if charsetSize == 0 || length <= 0 {
		return ""
	}

	password := make([]byte, length)
	for i := range password {
		password[i] = charset[0]
	}

	current := index
	for i := 0; i < length; i++ {
		password[length-1-i] = charset[current%charsetSize]
		current /= charsetSize
		if current == 0 {
			break
		}
	}

	return string(password)
}

// PasswordByIndex maps a global index to the candidate at that position
// in the length-unioned enumeration of lengths 1..maxLength. Index 0 is
// the first length-1 string; the window for length L starts after all
// shorter lengths. Returns false when the index falls outside the space
// or when computing the cumulative offset would overflow.
func PasswordByIndex(index uint64, charset string, maxLength int) (string, bool) {
	charsetSize := uint64(len(charset))
	if charsetSize == 0 {
		return "", false
	}

	current := index
	power := uint64(1)
	for length := 1; length <= maxLength; length++ {
		if power > math.MaxUint64/charsetSize {
			return "", false
		}
		power *= charsetSize

		if current < power {
			return PasswordAtLength(current, charset, length), true
		}
		current -= power
	}

	return "", false
}
