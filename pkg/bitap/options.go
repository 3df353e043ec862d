package bitap

import "regexp"

// WordSize is the widest pattern the bit-parallel sweep can handle.
const WordSize = 64

// DefaultMaxPatternLength is the pattern length beyond which searches fall
// back to literal token matching.
const DefaultMaxPatternLength = 32

// DefaultTokenSeparator splits patterns and texts on runs of spaces.
var DefaultTokenSeparator = regexp.MustCompile(` +`)

// Options configures a Searcher.
type Options struct {
	// Location is the offset in the text where the pattern is expected.
	Location int

	// Distance is how far from Location a perfect match may be before it
	// scores as a complete mismatch. Zero requires the match at Location.
	Distance int

	// Threshold is the worst score the sweep keeps looking for.
	// 0 requires a perfect match, 1 matches anything.
	Threshold float64

	// MaxPatternLength is the longest pattern matched with the sweep.
	// Values <= 0 mean DefaultMaxPatternLength; values above WordSize are
	// capped at WordSize.
	MaxPatternLength int

	// CaseSensitive disables case folding of pattern and text.
	CaseSensitive bool

	// TokenSeparator splits long patterns into alternatives for the
	// fallback search. Nil means DefaultTokenSeparator.
	TokenSeparator *regexp.Regexp

	// FindAllMatches keeps scanning to the end of the text even after a
	// perfect match was found.
	FindAllMatches bool

	// MinMatchCharLength is the shortest run of matched runes reported in
	// Result.Indices.
	MinMatchCharLength int
}

// DefaultOptions returns the default matcher configuration.
func DefaultOptions() Options {
	return Options{
		Location:           0,
		Distance:           100,
		Threshold:          0.6,
		MaxPatternLength:   DefaultMaxPatternLength,
		CaseSensitive:      false,
		TokenSeparator:     DefaultTokenSeparator,
		FindAllMatches:     false,
		MinMatchCharLength: 1,
	}
}

// maxPatternLength returns the effective word-size cutoff.
func (o Options) maxPatternLength() int {
	switch {
	case o.MaxPatternLength <= 0:
		return DefaultMaxPatternLength
	case o.MaxPatternLength > WordSize:
		return WordSize
	default:
		return o.MaxPatternLength
	}
}
