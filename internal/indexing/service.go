package indexing

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-school-search/index"
	"github.com/gcbaptista/go-school-search/internal/tokenizer"
	"github.com/gcbaptista/go-school-search/model"
	"github.com/gcbaptista/go-school-search/store"
)

// Options controls how records are turned into index entries.
type Options struct {
	// StopWords are name tokens that are never indexed. Nil means tokenizer.IndexStopWords.
	StopWords tokenizer.StopWords
	// Tokenizer splits record names. The zero value splits on every single space.
	Tokenizer tokenizer.Tokenizer
	// Resolver resolves state codes to long names. Nil leaves every long state absent.
	Resolver model.LongNameResolver
}

// Result is the output of a build: an index and the store its positions refer to.
type Result struct {
	Index    *index.InvertedIndex
	Store    *store.RecordStore
	Duration time.Duration
}

// Service builds an inverted index and record store from raw records.
type Service struct {
	opts   Options
	logger *logrus.Entry
}

// NewService creates a new indexing Service.
func NewService(opts Options, logger *logrus.Entry) *Service {
	if opts.StopWords == nil {
		opts.StopWords = tokenizer.IndexStopWords
	}
	if logger == nil {
		logger = logrus.WithField("component", "indexing")
	}
	return &Service{opts: opts, logger: logger}
}

// Build indexes every record in order. For the record at position i it adds i
// under each non-stop-word name token, under the raw city string, and under the
// resolved long state when there is one. Tokens are used exactly as they appear
// in the data and positions are never deduplicated.
func (s *Service) Build(records []model.RawRecord) Result {
	start := time.Now()

	invIndex := index.NewInvertedIndex()
	recordStore := store.NewRecordStore(len(records))

	for _, raw := range records {
		school := model.NewSchool(raw, s.opts.Resolver)
		pos := recordStore.Append(school)

		for _, token := range s.opts.Tokenizer.Tokenize(school.Name) {
			if s.opts.StopWords.Contains(token) {
				continue
			}
			invIndex.Add(token, pos)
		}
		invIndex.Add(school.City, pos)
		if school.HasLongState {
			invIndex.Add(school.LongState, pos)
		}
	}

	duration := time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"records":  recordStore.Len(),
		"terms":    invIndex.TermCount(),
		"duration": duration,
	}).Info("Index built")

	return Result{
		Index:    invIndex,
		Store:    recordStore,
		Duration: duration,
	}
}
