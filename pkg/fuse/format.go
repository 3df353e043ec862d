package fuse

import (
	"encoding/json"

	"github.com/dshills/bitfuse/pkg/bitap"
	"github.com/dshills/bitfuse/pkg/field"
)

// Result is one matched item.
type Result struct {
	// Item is the matched element, or its ID when Options.ID is set.
	// A missing ID yields a nil Item.
	Item field.Value

	// Score is the aggregated item score. Set when IncludeScore is on.
	Score float64

	// Matches lists the matched fields. Set when IncludeMatches is on.
	Matches []Match

	includeScore   bool
	includeMatches bool
}

// Match describes the matched ranges of one field value.
type Match struct {
	// Key is the field name. Empty for string collections.
	Key string

	// Value is the text that matched.
	Value string

	// Indices are the matched rune ranges.
	Indices []bitap.Range

	// ArrayIndex is the value's position in the innermost list it was
	// found in, or -1 when it was not found in a list.
	ArrayIndex int
}

// MarshalJSON encodes the bare item unless scores or matches are included,
// in which case it encodes an object holding item, score and matches.
func (r Result) MarshalJSON() ([]byte, error) {
	item := field.ToAny(r.Item)
	if !r.includeScore && !r.includeMatches {
		return json.Marshal(item)
	}

	out := map[string]any{"item": item}
	if r.includeScore {
		out["score"] = r.Score
	}
	if r.includeMatches {
		matches := r.Matches
		if matches == nil {
			matches = []Match{}
		}
		out["matches"] = matches
	}
	return json.Marshal(out)
}

// MarshalJSON omits the key of string collection matches and the array
// index of values not found in a list.
func (m Match) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"value":   m.Value,
		"indices": m.Indices,
	}
	if m.Key != "" {
		out["key"] = m.Key
	}
	if m.ArrayIndex > -1 {
		out["arrayIndex"] = m.ArrayIndex
	}
	return json.Marshal(out)
}

// format projects sorted items into results.
func (e *Engine) format(items []itemResult) []Result {
	results := make([]Result, 0, len(items))

	for _, r := range items {
		res := Result{
			Item:           r.item,
			includeScore:   e.opts.IncludeScore,
			includeMatches: e.opts.IncludeMatches,
		}

		if e.opts.ID != "" {
			res.Item = e.projectID(r.item)
		}
		if e.opts.IncludeScore {
			res.Score = r.score
		}
		if e.opts.IncludeMatches {
			res.Matches = matchesOf(r.output)
		}

		results = append(results, res)
	}

	return results
}

// projectID returns the first leaf at the ID path, or nil.
func (e *Engine) projectID(item field.Value) field.Value {
	leaves := e.opts.Resolver.Resolve(item, e.opts.ID)
	if len(leaves) == 0 {
		return nil
	}
	return field.String(leaves[0].Value)
}

func matchesOf(output []fieldMatch) []Match {
	matches := make([]Match, 0, len(output))
	for _, out := range output {
		if len(out.indices) == 0 {
			continue
		}
		matches = append(matches, Match{
			Key:        out.key,
			Value:      out.value,
			Indices:    out.indices,
			ArrayIndex: out.arrayIndex,
		})
	}
	return matches
}
