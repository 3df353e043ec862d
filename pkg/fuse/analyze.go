package fuse

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/bitfuse/pkg/field"
)

// analyzeItem matches one collection element. It reports false when the
// element has no matching field.
func (e *Engine) analyzeItem(kind collectionKind, item field.Value, index int, s *searchers) (itemResult, bool) {
	if kind == kindStrings {
		str, ok := item.(field.String)
		if !ok {
			return itemResult{}, false
		}

		match := e.analyzeString("", -1, string(str), s)
		if !match.isMatch {
			return itemResult{}, false
		}
		return itemResult{
			item:          item,
			index:         index,
			output:        []fieldMatch{match},
			matchedTokens: match.matchedTokens,
		}, true
	}

	result := itemResult{
		item:          item,
		index:         index,
		matchedTokens: make(map[string]struct{}),
	}

	for _, key := range e.opts.Keys {
		for _, leaf := range e.opts.Resolver.Resolve(item, key.Name) {
			match := e.analyzeString(key.Name, leaf.ArrayIndex, leaf.Value, s)
			if !match.isMatch {
				continue
			}

			result.output = append(result.output, match)
			for token := range match.matchedTokens {
				result.matchedTokens[token] = struct{}{}
			}
		}
	}

	if len(result.output) == 0 {
		return itemResult{}, false
	}
	return result, true
}

// analyzeString matches the query, and each query token when tokenizing,
// against one value.
func (e *Engine) analyzeString(key string, arrayIndex int, value string, s *searchers) fieldMatch {
	main := s.full.Search(value)

	match := fieldMatch{
		key:           key,
		arrayIndex:    arrayIndex,
		value:         value,
		isMatch:       main.IsMatch,
		score:         main.Score,
		indices:       main.Indices,
		matchedTokens: make(map[string]struct{}),
	}

	averageScore := -1.0
	if e.opts.Tokenize {
		words := e.opts.TokenSeparator.Split(value, -1)

		var scores []float64
		for _, ts := range s.tokens {
			for _, word := range words {
				r := ts.Search(word)
				if r.IsMatch {
					match.isMatch = true
					match.matchedTokens[ts.Pattern()] = struct{}{}
					scores = append(scores, r.Score)
					continue
				}

				// A miss counts as a full mismatch unless misses
				// disqualify the item anyway.
				if !e.opts.MatchAllTokens {
					scores = append(scores, 1)
				}
			}
		}

		if len(scores) > 0 {
			averageScore = mean(scores)
		}
	}

	if averageScore > -1 {
		match.score = (main.Score + averageScore) / 2
	}

	e.trace(logrus.Fields{
		"key":          key,
		"value":        value,
		"full_score":   main.Score,
		"token_score":  averageScore,
		"score":        match.score,
		"is_match":     match.isMatch,
		"array_index":  arrayIndex,
		"tokens_found": len(match.matchedTokens),
	}, "analyzed value")

	return match
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
