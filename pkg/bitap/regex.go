package bitap

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Scores reported by the literal fallback search.
const (
	fallbackMatchScore = 0.5
	fallbackMissScore  = 1.0
)

// RegexSearch looks for any token of pattern, split by sep, as a literal
// substring of text. It is used for patterns too long for the sweep.
// Text and pattern are compared as given; callers fold case beforehand.
func RegexSearch(text, pattern string, sep *regexp.Regexp) Result {
	if sep == nil {
		sep = DefaultTokenSeparator
	}
	return regexSearch(text, compileFallback(pattern, sep))
}

// compileFallback builds an alternation of the pattern's tokens with all
// regular expression metacharacters escaped.
func compileFallback(pattern string, sep *regexp.Regexp) *regexp.Regexp {
	tokens := sep.Split(pattern, -1)
	for i, token := range tokens {
		tokens[i] = regexp.QuoteMeta(token)
	}
	return regexp.MustCompile(strings.Join(tokens, "|"))
}

func regexSearch(text string, re *regexp.Regexp) Result {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return Result{Score: fallbackMissScore}
	}

	result := Result{IsMatch: true, Score: fallbackMatchScore}
	if loc[1] > loc[0] {
		start := utf8.RuneCountInString(text[:loc[0]])
		n := utf8.RuneCountInString(text[loc[0]:loc[1]])
		result.Indices = []Range{{Start: start, End: start + n - 1}}
	}
	return result
}
