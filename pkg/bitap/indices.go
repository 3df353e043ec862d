package bitap

import "strconv"

// Range is an inclusive [Start, End] pair of rune offsets into a text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// MarshalJSON encodes the range as a two element array.
func (r Range) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 16)
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(r.Start), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(r.End), 10)
	return append(b, ']'), nil
}

// MatchedIndices converts a per-rune match mask into the maximal runs of
// matched runes that are at least minLen long, in ascending order.
func MatchedIndices(mask []bool, minLen int) []Range {
	var ranges []Range
	start := -1

	for i, matched := range mask {
		switch {
		case matched && start == -1:
			start = i
		case !matched && start != -1:
			if i-start >= minLen {
				ranges = append(ranges, Range{Start: start, End: i - 1})
			}
			start = -1
		}
	}

	// Flush a run that reaches the end of the mask.
	if start != -1 && len(mask)-start >= minLen {
		ranges = append(ranges, Range{Start: start, End: len(mask) - 1})
	}

	return ranges
}
