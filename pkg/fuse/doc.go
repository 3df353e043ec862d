// Package fuse ranks collections of strings or records against a fuzzy query.
//
// An Engine holds a collection and a fixed set of Options. Each call to
// Search matches the query against every item with the Bitap matcher from
// package bitap, aggregates the per-field scores of each item, sorts the
// matching items by ascending score and formats them.
//
// # Collections
//
// A collection whose first element is a field.String is searched as a flat
// list of strings. Any other collection is searched as records: each
// configured Key is resolved against every item through the Resolver and
// every leaf found is matched separately.
//
// # Tokens
//
// With Tokenize set, the query and every searched value are also split on
// TokenSeparator and each query token is matched against each word. A field
// matches if either the whole query or any token matched, and its score is
// the mean of the whole-query score and the mean token score. MatchAllTokens
// keeps only items in which every distinct query token matched somewhere.
//
// # Weights
//
// A key weight w in (0, 1] is applied inverted, as 1-w, with a weight of 1
// treated as unweighted. Items whose matches all come from unweighted keys
// score the mean of their field scores. As soon as a weighted key matched,
// the item scores the best (lowest) weighted field score instead.
//
// # Usage
//
//	opts := fuse.DefaultOptions()
//	opts.Keys = []fuse.Key{{Name: "title", Weight: 0.3}, {Name: "author", Weight: 0.7}}
//	engine, err := fuse.New(books, opts)
//	if err != nil {
//	    return err
//	}
//	for _, r := range engine.Search("Man") {
//	    fmt.Println(r.Item)
//	}
//
// # Thread Safety
//
// An Engine is safe for concurrent use. SetCollection swaps the collection
// atomically; searches already running keep the collection they started
// with. SearchParallel spreads item analysis over a worker pool.
package fuse
