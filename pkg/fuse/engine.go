package fuse

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/bitfuse/pkg/bitap"
	"github.com/dshills/bitfuse/pkg/field"
)

// Engine searches a collection with a fixed set of options.
type Engine struct {
	mu   sync.RWMutex
	list []field.Value
	gen  uint64

	opts    Options
	weights map[string]float64
	cache   *Cache
	log     *logrus.Entry
}

// collectionKind selects how items are analyzed.
type collectionKind uint8

const (
	// kindStrings is a flat list of strings.
	kindStrings collectionKind = iota
	// kindRecords is a list of records searched by key.
	kindRecords
)

// kindOf decides the collection kind from its first element.
func kindOf(list []field.Value) collectionKind {
	if len(list) == 0 {
		return kindStrings
	}
	if _, ok := list[0].(field.String); ok {
		return kindStrings
	}
	return kindRecords
}

// searchers holds the matchers built for one query.
type searchers struct {
	full   *bitap.Searcher
	tokens []*bitap.Searcher

	// distinct is the number of distinct normalized query tokens.
	distinct int
}

// fieldMatch is the outcome of matching one value of one key.
type fieldMatch struct {
	key           string
	arrayIndex    int
	value         string
	isMatch       bool
	score         float64
	nScore        float64
	indices       []bitap.Range
	matchedTokens map[string]struct{}
}

// itemResult collects the matching fields of one item.
type itemResult struct {
	item          field.Value
	index         int
	output        []fieldMatch
	matchedTokens map[string]struct{}
	score         float64
}

// New creates an Engine over collection.
// It returns an error wrapping ErrInvalidWeight if a key weight is outside
// (0, 1], and one wrapping ErrInvalidOption if Location or Distance is
// negative.
func New(collection []field.Value, opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	weights, err := opts.weights()
	if err != nil {
		return nil, err
	}

	if opts.TokenSeparator == nil {
		opts.TokenSeparator = bitap.DefaultTokenSeparator
	}
	if opts.Resolver == nil {
		opts.Resolver = field.PathResolver{}
	}
	if opts.SortFunc == nil {
		opts.SortFunc = ByScore
	}

	log := opts.Logger
	if log == nil {
		if opts.Verbose {
			logger := logrus.New()
			logger.SetLevel(logrus.DebugLevel)
			log = logger.WithField("component", "fuse")
		} else {
			log = logrus.WithField("component", "fuse")
		}
	}

	var cache *Cache
	if opts.CacheSize > 0 {
		cache = NewCache(opts.CacheSize)
	}

	e := &Engine{
		opts:    opts,
		weights: weights,
		cache:   cache,
		log:     log,
	}
	e.SetCollection(collection)
	return e, nil
}

// SetCollection replaces the searched collection and returns it.
// Cached results are discarded.
func (e *Engine) SetCollection(collection []field.Value) []field.Value {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.list = collection
	e.gen++
	if e.cache != nil {
		e.cache.Clear()
	}
	return collection
}

// Collection returns the current collection.
func (e *Engine) Collection() []field.Value {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.list
}

// ClearCache discards all cached results.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Search ranks the collection against pattern.
// A search that matches nothing returns an empty slice.
func (e *Engine) Search(pattern string) []Result {
	if cached := e.cached(pattern); cached != nil {
		return cached
	}

	list, gen := e.snapshot()
	s := e.newSearchers(pattern)
	kind := kindOf(list)

	items := make([]itemResult, 0, len(list))
	for i, item := range list {
		if r, ok := e.analyzeItem(kind, item, i, s); ok {
			items = append(items, r)
		}
	}

	results := e.finish(kind, items, s)
	e.store(pattern, gen, results)
	return results
}

// snapshot returns the current collection and its generation.
func (e *Engine) snapshot() ([]field.Value, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.list, e.gen
}

func (e *Engine) cached(pattern string) []Result {
	if e.cache == nil {
		return nil
	}
	return e.cache.Get(pattern)
}

// store caches results unless the collection changed during the search.
func (e *Engine) store(pattern string, gen uint64, results []Result) {
	if e.cache == nil {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.gen == gen {
		e.cache.Set(pattern, results)
	}
}

// newSearchers builds the full-query searcher and, when tokenizing, one
// searcher per query token.
func (e *Engine) newSearchers(pattern string) *searchers {
	e.trace(logrus.Fields{"pattern": pattern}, "search pattern")

	opts := e.opts.matcherOptions()
	s := &searchers{full: bitap.New(pattern, opts)}

	if e.opts.Tokenize {
		seen := make(map[string]struct{})
		for _, token := range e.opts.TokenSeparator.Split(pattern, -1) {
			ts := bitap.New(token, opts)
			s.tokens = append(s.tokens, ts)
			seen[ts.Pattern()] = struct{}{}
		}
		s.distinct = len(seen)
	}

	return s
}

// finish filters, scores, sorts and formats analyzed items.
func (e *Engine) finish(kind collectionKind, items []itemResult, s *searchers) []Result {
	if e.opts.Tokenize && e.opts.MatchAllTokens {
		kept := items[:0]
		for _, item := range items {
			if len(item.matchedTokens) == s.distinct {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	for i := range items {
		e.computeScore(kind, &items[i])
	}

	if e.opts.ShouldSort {
		e.trace(logrus.Fields{"results": len(items)}, "sorting")
		sort.SliceStable(items, func(i, j int) bool {
			return e.opts.SortFunc(items[i].ranked(), items[j].ranked()) < 0
		})
	}

	return e.format(items)
}

func (r *itemResult) ranked() Ranked {
	return Ranked{Item: r.item, Index: r.index, Score: r.score}
}

// trace logs a search step when Verbose is set.
func (e *Engine) trace(fields logrus.Fields, msg string) {
	if !e.opts.Verbose {
		return
	}
	e.log.WithFields(fields).Debug(msg)
}
