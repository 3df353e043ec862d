package bitap

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of matching a pattern against one text.
type Result struct {
	// IsMatch reports whether any candidate within the threshold was found.
	IsMatch bool

	// Score is the match quality in [0, 1]; 0 is an exact match.
	Score float64

	// Indices are the runs of matched runes in the text.
	Indices []Range
}

// Searcher matches one pattern against many texts.
// It is immutable after New and safe for concurrent use.
type Searcher struct {
	pattern  string
	runes    []rune
	alphabet map[rune]uint64
	fallback *regexp.Regexp
	opts     Options
}

// New creates a Searcher for pattern. A negative Location or Distance is
// treated as 0.
func New(pattern string, opts Options) *Searcher {
	if opts.TokenSeparator == nil {
		opts.TokenSeparator = DefaultTokenSeparator
	}
	opts.Location = max(opts.Location, 0)
	opts.Distance = max(opts.Distance, 0)

	normalized := pattern
	if !opts.CaseSensitive {
		normalized = strings.ToLower(pattern)
	}

	s := &Searcher{
		pattern: normalized,
		runes:   []rune(normalized),
		opts:    opts,
	}

	if len(s.runes) <= opts.maxPatternLength() {
		s.alphabet = Alphabet(s.runes)
	} else {
		s.fallback = compileFallback(normalized, opts.TokenSeparator)
	}

	return s
}

// Pattern returns the normalized pattern.
func (s *Searcher) Pattern() string {
	return s.pattern
}

// Len returns the pattern length in runes.
func (s *Searcher) Len() int {
	return len(s.runes)
}

// Search matches the pattern against text.
func (s *Searcher) Search(text string) Result {
	if !s.opts.CaseSensitive {
		text = strings.ToLower(text)
	}

	if text == s.pattern {
		n := utf8.RuneCountInString(text)
		if n == 0 {
			return Result{IsMatch: true, Score: 0}
		}
		return Result{IsMatch: true, Score: 0, Indices: []Range{{Start: 0, End: n - 1}}}
	}

	if s.fallback != nil {
		return regexSearch(text, s.fallback)
	}

	return s.sweep([]rune(text))
}

// sweep runs the Bitap dynamic program over text, one error level at a time.
func (s *Searcher) sweep(text []rune) Result {
	pattern := s.runes
	patternLen := len(pattern)
	textLen := len(text)

	if patternLen == 0 {
		return Result{Score: 1}
	}

	expected := s.opts.Location
	distance := s.opts.Distance
	score := func(errors, current int) float64 {
		return Score(errors, patternLen, current, expected, distance)
	}

	// Highest score beyond which we give up.
	threshold := s.opts.Threshold

	// Seed the threshold with exact occurrences near the expected location.
	if loc := indexRunes(text, pattern, expected); loc != -1 {
		threshold = math.Min(score(0, loc), threshold)

		if loc = lastIndexRunes(text, pattern, expected+patternLen); loc != -1 {
			threshold = math.Min(score(0, loc), threshold)
		}
	}

	matchMask := make([]bool, textLen)
	bestLocation := -1
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint64(1) << uint(patternLen-1)

	var lastBitArr []uint64

	for errors := 0; errors < patternLen; errors++ {
		// Binary search for how far from the expected location we can
		// stray at this error level.
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if score(errors, expected+binMid) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expected-binMid+1)
		finish := textLen
		if !s.opts.FindAllMatches {
			finish = min(expected+binMid, textLen) + patternLen
		}

		bitArr := make([]uint64, finish+2)
		bitArr[finish+1] = (uint64(1) << uint(errors)) - 1

		for j := finish; j >= start; j-- {
			current := j - 1

			var charMatch uint64
			if current < textLen {
				charMatch = s.alphabet[text[current]]
			}
			if charMatch != 0 {
				matchMask[current] = true
			}

			// Exact pass.
			bitArr[j] = ((bitArr[j+1] << 1) | 1) & charMatch

			// Fuzzy passes carry substitutions, insertions and deletions
			// over from the previous level.
			if errors != 0 {
				prevNext := wordAt(lastBitArr, j+1)
				bitArr[j] |= ((prevNext|wordAt(lastBitArr, j))<<1 | 1) | prevNext
			}

			if bitArr[j]&mask == 0 {
				continue
			}

			finalScore = score(errors, current)
			if finalScore > threshold {
				continue
			}

			threshold = finalScore
			bestLocation = current

			// Already passed the expected location; only worse from here.
			if bestLocation <= expected {
				break
			}

			// Don't stray further from the expected location than this match.
			start = max(1, 2*expected-bestLocation)
		}

		// No hope for a better match at the next error level.
		if score(errors+1, expected) > threshold {
			break
		}

		lastBitArr = bitArr
	}

	// A perfect sweep match is "almost" exact.
	if finalScore == 0 {
		finalScore = 0.001
	}

	return Result{
		IsMatch: bestLocation >= 0,
		Score:   finalScore,
		Indices: MatchedIndices(matchMask, s.opts.MinMatchCharLength),
	}
}

// wordAt returns arr[i], or 0 past the end of arr.
func wordAt(arr []uint64, i int) uint64 {
	if i < len(arr) {
		return arr[i]
	}
	return 0
}

// indexRunes returns the first offset >= from at which pattern occurs in
// text, or -1. from is clamped to [0, len(text)].
func indexRunes(text, pattern []rune, from int) int {
	from = max(0, min(from, len(text)))
	for i := from; i+len(pattern) <= len(text); i++ {
		if hasPrefix(text[i:], pattern) {
			return i
		}
	}
	return -1
}

// lastIndexRunes returns the last offset <= from at which pattern occurs in
// text, or -1. from is clamped to [0, len(text)].
func lastIndexRunes(text, pattern []rune, from int) int {
	from = max(0, min(from, len(text)-len(pattern)))
	for i := from; i >= 0; i-- {
		if hasPrefix(text[i:], pattern) {
			return i
		}
	}
	return -1
}

func hasPrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}
