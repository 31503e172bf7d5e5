package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/go-school-search/internal/indexing"
	"github.com/gcbaptista/go-school-search/internal/metrics"
	"github.com/gcbaptista/go-school-search/internal/search"
	"github.com/gcbaptista/go-school-search/model"
	"github.com/gcbaptista/go-school-search/services"

	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
)

const buildKey = "build"

// Loader produces the records to index. It is called at most once per
// successful build. Its context carries the first caller's values but is never
// cancelled on their behalf.
type Loader func(ctx context.Context) ([]model.RawRecord, error)

// Options wires the engine's collaborators.
type Options struct {
	Indexing indexing.Options
	Search   search.Options
	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
	// Logger is optional; nil uses the logrus standard logger.
	Logger *logrus.Logger
}

// instance is one fully built index with the search service over it.
// It is published only once complete and never modified afterwards.
type instance struct {
	searcher *search.Service
	stats    services.IndexStats
}

// Engine owns the record store and inverted index and serves queries over
// them. It implements the services.Searcher interface.
//
// The index is either built up front (New) or on first use (NewLazy). A lazy
// build runs at most once: concurrent first callers share a single build and
// all observe the same complete index.
type Engine struct {
	opts    Options
	loader  Loader
	current atomic.Pointer[instance]
	group   singleflight.Group
	logger  *logrus.Entry
}

// New builds the index from records immediately.
func New(records []model.RawRecord, opts Options) (*Engine, error) {
	e := newEngine(nil, opts)
	inst, err := e.build(records)
	if err != nil {
		return nil, err
	}
	e.current.Store(inst)
	return e, nil
}

// NewLazy creates an engine whose index is built from loader on the first
// Search or Build call.
func NewLazy(loader Loader, opts Options) *Engine {
	return newEngine(loader, opts)
}

func newEngine(loader Loader, opts Options) *Engine {
	var logger *logrus.Entry
	if opts.Logger != nil {
		logger = opts.Logger.WithField("component", "engine")
	} else {
		logger = logrus.WithField("component", "engine")
	}
	return &Engine{
		opts:   opts,
		loader: loader,
		logger: logger,
	}
}

// Build makes sure the index exists, loading and building it if needed.
// Calling it again after a successful build is a no-op.
func (e *Engine) Build(ctx context.Context) error {
	_, err := e.ensure(ctx)
	return err
}

// Built reports whether a complete index is available.
func (e *Engine) Built() bool {
	return e.current.Load() != nil
}

// Search answers query against the built index. It fails only when there is
// no index and none can be built.
func (e *Engine) Search(ctx context.Context, query string) (services.SearchResult, error) {
	inst, err := e.ensure(ctx)
	if err != nil {
		if e.opts.Metrics != nil {
			e.opts.Metrics.ObserveSearchError()
		}
		return services.SearchResult{}, err
	}

	result := inst.searcher.Search(query)
	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveSearch(result.Elapsed, result.Candidates, len(result.Schools))
	}
	return result, nil
}

// Stats describes the current index. Built is false until a build succeeds.
func (e *Engine) Stats() services.IndexStats {
	inst := e.current.Load()
	if inst == nil {
		return services.IndexStats{}
	}
	return inst.stats
}

func (e *Engine) ensure(ctx context.Context) (*instance, error) {
	if inst := e.current.Load(); inst != nil {
		return inst, nil
	}
	if e.loader == nil {
		return nil, internalErrors.NewIndexNotBuiltError("engine has no records and no loader")
	}

	// Shared by every coalesced caller; no single caller's cancellation reaches the loader.
	buildCtx := context.WithoutCancel(ctx)
	ch := e.group.DoChan(buildKey, func() (interface{}, error) {
		// a previous flight may have finished between Load and Do
		if inst := e.current.Load(); inst != nil {
			return inst, nil
		}

		e.logger.Info("Loading records for lazy index build")
		records, err := e.loader(buildCtx)
		if err != nil {
			if e.opts.Metrics != nil {
				e.opts.Metrics.ObserveBuild(0, 0, 0, err)
			}
			e.logger.WithError(err).Error("Failed to load records")
			return nil, fmt.Errorf("%w: failed to load records: %w", internalErrors.ErrIndexNotBuilt, err)
		}

		inst, err := e.build(records)
		if err != nil {
			return nil, err
		}
		e.current.Store(inst)
		return inst, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			e.logger.Debug("Joined in-flight index build")
		}
		return res.Val.(*instance), nil
	}
}

func (e *Engine) build(records []model.RawRecord) (*instance, error) {
	built := indexing.NewService(e.opts.Indexing, e.componentLogger("indexing")).Build(records)

	searcher, err := search.NewService(built.Index, built.Store, e.opts.Search, e.componentLogger("search"))
	if err != nil {
		if e.opts.Metrics != nil {
			e.opts.Metrics.ObserveBuild(built.Duration, 0, 0, err)
		}
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	stats := services.IndexStats{
		Built:         true,
		Records:       built.Store.Len(),
		Terms:         built.Index.TermCount(),
		BuildDuration: built.Duration,
		BuiltAt:       time.Now(),
	}
	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveBuild(stats.BuildDuration, stats.Records, stats.Terms, nil)
	}
	return &instance{searcher: searcher, stats: stats}, nil
}

func (e *Engine) componentLogger(component string) *logrus.Entry {
	if e.opts.Logger != nil {
		return e.opts.Logger.WithField("component", component)
	}
	return logrus.WithField("component", component)
}
