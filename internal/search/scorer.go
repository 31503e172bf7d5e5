package search

import (
	"strings"

	"github.com/gcbaptista/go-school-search/internal/tokenizer"
	"github.com/gcbaptista/go-school-search/model"
)

// Field weights added when an uppercased query token matches a record.
const (
	nameWeight      = 3
	cityWeight      = 2
	longStateWeight = 1

	// matchBoost multiplies the number of matching tokens in the final score.
	matchBoost = 3
)

// CalcScore scores school against the query tokens.
//
// Each token is uppercased and skipped if it is a stop word. A token that is a
// substring of the name adds 3, a substring of the city adds 2, and an exact
// match of the long state adds 1; any combination may fire. Every token that
// fired at least once counts as a matching token, and the summed score is
// multiplied by matchingTokens*3, so a record with no matching tokens scores 0.
func CalcScore(school model.School, tokens []string, stopWords tokenizer.StopWords) int {
	score := 0
	matchingTokens := 0

	for _, token := range tokens {
		token = strings.ToUpper(token)
		if stopWords.Contains(token) {
			continue
		}

		matched := false
		if strings.Contains(school.Name, token) {
			score += nameWeight
			matched = true
		}
		if strings.Contains(school.City, token) {
			score += cityWeight
			matched = true
		}
		if school.HasLongState && token == school.LongState {
			score += longStateWeight
			matched = true
		}
		if matched {
			matchingTokens++
		}
	}

	return score * (matchingTokens * matchBoost)
}
