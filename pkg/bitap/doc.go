// Package bitap implements approximate substring search with the Bitap
// (shift-or) algorithm.
//
// A Searcher is built once per pattern. Building it folds the pattern's case
// (unless case sensitive) and precomputes the pattern alphabet, a bitmask per
// distinct rune marking where that rune occurs in the pattern. The Searcher
// can then be matched against any number of texts and is safe for concurrent
// use.
//
// # Scoring
//
// Scores are continuous in [0, 1], lower is better. A candidate with e errors
// found at offset c, when the match was expected at offset l, scores
//
//	e/len(pattern) + |l-c|/distance
//
// An exact match of the whole text scores 0. A match found by the bit-parallel
// sweep never scores 0; a perfect sweep match reports 0.001 instead.
//
// The threshold does not reject a candidate after the fact. It bounds the
// search space: the sweep only visits error levels and offsets that could
// still produce a score at or below the current best.
//
// # Long patterns
//
// Patterns longer than the configured maximum (at most 64, the word size)
// cannot be swept. They fall back to a literal search for any of the
// pattern's tokens, which scores 0.5 on a hit and 1 on a miss.
//
// # Usage
//
//	s := bitap.New("wor", bitap.DefaultOptions())
//	r := s.Search("Hello World")
//	if r.IsMatch {
//	    fmt.Println(r.Score, r.Indices)
//	}
package bitap
