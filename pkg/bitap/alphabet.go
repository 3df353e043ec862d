package bitap

// Alphabet returns, for each distinct rune of pattern, a mask with bit
// len(pattern)-1-i set for every position i at which the rune occurs.
// The pattern must not be longer than WordSize.
func Alphabet(pattern []rune) map[rune]uint64 {
	n := len(pattern)
	mask := make(map[rune]uint64, n)
	for i, r := range pattern {
		mask[r] |= 1 << uint(n-i-1)
	}
	return mask
}
