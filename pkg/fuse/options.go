package fuse

import (
	"cmp"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/dshills/bitfuse/pkg/bitap"
	"github.com/dshills/bitfuse/pkg/field"
)

// Key names a searched field of record collections.
type Key struct {
	// Name is a dotted path resolved against each item.
	Name string

	// Weight is the key's importance in (0, 1]. Zero means unweighted.
	Weight float64
}

// Ranked is the view of a matched item handed to a SortFunc.
type Ranked struct {
	// Item is the original collection element.
	Item field.Value

	// Index is the item's position in the collection.
	Index int

	// Score is the aggregated item score.
	Score float64
}

// SortFunc orders two ranked items, returning a negative number when a
// sorts before b, zero when they tie and a positive number otherwise.
type SortFunc func(a, b Ranked) int

// ByScore sorts by ascending score.
func ByScore(a, b Ranked) int {
	return cmp.Compare(a.Score, b.Score)
}

// Options configures an Engine.
type Options struct {
	// Location is where in each text the pattern is expected to be found.
	Location int

	// Distance is how far from Location a match may drift. A perfect match
	// Distance runes away from Location scores as a complete mismatch.
	Distance int

	// Threshold bounds the matcher's search: 0 requires a perfect match,
	// 1 matches anything.
	Threshold float64

	// MaxPatternLength is the longest pattern matched bit-parallel.
	// Longer patterns use a literal token search.
	MaxPatternLength int

	// CaseSensitive disables case folding.
	CaseSensitive bool

	// TokenSeparator splits queries and values into tokens.
	TokenSeparator *regexp.Regexp

	// FindAllMatches keeps scanning after a perfect match.
	FindAllMatches bool

	// MinMatchCharLength is the shortest run of matched runes reported.
	MinMatchCharLength int

	// ID is a path whose first leaf replaces each item in the results.
	ID string

	// Keys are the searched fields of record collections.
	Keys []Key

	// ShouldSort sorts results with SortFunc.
	ShouldSort bool

	// Resolver extracts field values from items.
	Resolver field.Resolver

	// SortFunc orders results when ShouldSort is set.
	SortFunc SortFunc

	// Tokenize also matches individual query tokens against each word.
	Tokenize bool

	// MatchAllTokens keeps only items matching every query token.
	// Only meaningful with Tokenize.
	MatchAllTokens bool

	// IncludeMatches attaches matched ranges to each result.
	IncludeMatches bool

	// IncludeScore attaches the aggregated score to each result.
	IncludeScore bool

	// Verbose traces every search step at debug level.
	Verbose bool

	// Logger receives the trace. Defaults to a component logger.
	Logger *logrus.Entry

	// CacheSize is the number of queries whose results are cached.
	// Zero disables the cache.
	CacheSize int
}

// DefaultOptions returns the default search configuration.
func DefaultOptions() Options {
	return Options{
		Location:           0,
		Distance:           100,
		Threshold:          0.6,
		MaxPatternLength:   bitap.DefaultMaxPatternLength,
		CaseSensitive:      false,
		TokenSeparator:     bitap.DefaultTokenSeparator,
		FindAllMatches:     false,
		MinMatchCharLength: 1,
		ShouldSort:         true,
		Resolver:           field.PathResolver{},
		SortFunc:           ByScore,
		CacheSize:          100,
	}
}

// matcherOptions returns the subset of options used by each Searcher.
func (o Options) matcherOptions() bitap.Options {
	return bitap.Options{
		Location:           o.Location,
		Distance:           o.Distance,
		Threshold:          o.Threshold,
		MaxPatternLength:   o.MaxPatternLength,
		CaseSensitive:      o.CaseSensitive,
		TokenSeparator:     o.TokenSeparator,
		FindAllMatches:     o.FindAllMatches,
		MinMatchCharLength: o.MinMatchCharLength,
	}
}

// validate rejects options the matcher cannot search with.
func (o Options) validate() error {
	if o.Location < 0 {
		return &OptionError{Option: "location", Value: o.Location}
	}
	if o.Distance < 0 {
		return &OptionError{Option: "distance", Value: o.Distance}
	}
	return nil
}

// weights resolves every key to its internal weight, 1 - w, where
// unweighted keys and a weight of exactly 1 both become 1.
func (o Options) weights() (map[string]float64, error) {
	weights := make(map[string]float64, len(o.Keys))
	for _, key := range o.Keys {
		if key.Weight < 0 || key.Weight > 1 {
			return nil, &WeightError{Key: key.Name, Weight: key.Weight}
		}

		weight := 1 - key.Weight
		if key.Weight == 0 || weight == 0 {
			weight = 1
		}
		weights[key.Name] = weight
	}
	return weights, nil
}
