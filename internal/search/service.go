package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-school-search/index"
	"github.com/gcbaptista/go-school-search/internal/tokenizer"
	"github.com/gcbaptista/go-school-search/model"
	"github.com/gcbaptista/go-school-search/services"
	"github.com/gcbaptista/go-school-search/store"
)

// DefaultTopK is the number of results returned when Options.TopK is unset.
const DefaultTopK = 3

// Options controls query tokenization, scoring, and truncation.
type Options struct {
	// TopK is the maximum number of results. Zero or less means DefaultTopK.
	TopK int
	// StopWords are skipped while scoring. Nil means tokenizer.QueryStopWords.
	StopWords tokenizer.StopWords
	// Tokenizer splits the query. The zero value splits on every single space.
	Tokenizer tokenizer.Tokenizer
}

// Service answers queries against a built, read-only index.
// It is safe for concurrent use because nothing it reads is ever mutated.
type Service struct {
	invertedIndex *index.InvertedIndex
	recordStore   *store.RecordStore
	opts          Options
	logger        *logrus.Entry
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, recordStore *store.RecordStore, opts Options, logger *logrus.Entry) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if recordStore == nil {
		return nil, fmt.Errorf("record store cannot be nil")
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.StopWords == nil {
		opts.StopWords = tokenizer.QueryStopWords
	}
	if logger == nil {
		logger = logrus.WithField("component", "search")
	}
	return &Service{
		invertedIndex: invIndex,
		recordStore:   recordStore,
		opts:          opts,
		logger:        logger,
	}, nil
}

// Search runs query through candidate retrieval, scoring, and ranking and
// returns the best TopK schools with the elapsed time.
//
// Ranking is by score descending; equal scores are ordered by record position
// ascending so results are deterministic for a given index.
func (s *Service) Search(query string) services.SearchResult {
	startTime := time.Now()

	tokens := s.opts.Tokenizer.Tokenize(query)
	candidates := s.candidates(tokens)

	hits := make([]services.HitResult, 0, len(candidates))
	for _, pos := range candidates {
		school := s.recordStore.MustGet(pos)
		hits = append(hits, services.HitResult{
			School:   school,
			Score:    CalcScore(school, tokens, s.opts.StopWords),
			Position: pos,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Position < hits[j].Position
	})

	if len(hits) > s.opts.TopK {
		hits = hits[:s.opts.TopK]
	}

	schools := make([]model.School, len(hits))
	for i, hit := range hits {
		schools[i] = hit.School
	}

	elapsed := time.Since(startTime)
	s.logger.WithFields(logrus.Fields{
		"query":      query,
		"candidates": len(candidates),
		"results":    len(schools),
		"elapsed":    elapsed,
	}).Debug("Search completed")

	return services.SearchResult{
		Schools:    schools,
		Hits:       hits,
		Candidates: len(candidates),
		Elapsed:    elapsed,
		QueryId:    uuid.New().String(),
	}
}

// candidates returns the distinct positions indexed under any uppercased query
// token, in ascending position order.
func (s *Service) candidates(tokens []string) []uint32 {
	seen := make(map[uint32]struct{})
	for _, token := range tokens {
		postings, ok := s.invertedIndex.Lookup(strings.ToUpper(token))
		if !ok {
			continue
		}
		for _, pos := range postings {
			seen[pos] = struct{}{}
		}
	}

	positions := make([]uint32, 0, len(seen))
	for pos := range seen {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return positions
}
