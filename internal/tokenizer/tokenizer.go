package tokenizer

import (
	"strings"
)

// separator is the only character tokens are split on.
const separator = " "

// StopWords is a set of uppercase tokens excluded from indexing or scoring.
type StopWords map[string]struct{}

// NewStopWords builds a StopWords set from the given words, stored as given.
func NewStopWords(words ...string) StopWords {
	set := make(StopWords, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether token is a stop word. A nil set contains nothing.
func (s StopWords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// IndexStopWords are skipped when indexing a record's name tokens.
var IndexStopWords = NewStopWords("SCHOOL", "ELEMENTARY", "MIDDLE", "HIGH")

// QueryStopWords are skipped when scoring a record against a query.
var QueryStopWords = NewStopWords("SCHOOL")

// Split splits text on every single space. Consecutive, leading or trailing
// spaces produce empty tokens, and casing is left untouched. An empty input
// yields a single empty token.
func Split(text string) []string {
	return strings.Split(text, separator)
}

// SplitCollapsed splits text like Split but drops the empty tokens produced by
// repeated separators.
func SplitCollapsed(text string) []string {
	split := Split(text)
	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Tokenizer splits query and name text according to its mode.
type Tokenizer struct {
	collapseSpaces bool
}

// New returns a Tokenizer. With collapseSpaces set it behaves like SplitCollapsed,
// otherwise like Split.
func New(collapseSpaces bool) Tokenizer {
	return Tokenizer{collapseSpaces: collapseSpaces}
}

// Tokenize converts text into an ordered slice of tokens.
func (t Tokenizer) Tokenize(text string) []string {
	if t.collapseSpaces {
		return SplitCollapsed(text)
	}
	return Split(text)
}
