package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-school-search/config"
	"github.com/gcbaptista/go-school-search/internal/engine"
	"github.com/gcbaptista/go-school-search/internal/indexing"
	"github.com/gcbaptista/go-school-search/internal/ingest"
	"github.com/gcbaptista/go-school-search/internal/logging"
	"github.com/gcbaptista/go-school-search/internal/metrics"
	"github.com/gcbaptista/go-school-search/internal/search"
	"github.com/gcbaptista/go-school-search/internal/states"
	"github.com/gcbaptista/go-school-search/internal/tokenizer"
)

type rootOptions struct {
	configPath string
	dataPath   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "school_search",
		Short: "Keyword search over the public school directory.",
		Long: `Builds an in-memory inverted index over school names, cities and states
and answers keyword queries with the three best matching schools.

  school_search search "foley high alabama"
  school_search serve --config config.yaml
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dataPath, "data", "", "CSV file to index (overrides data.path)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides logging.level)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	return cmd
}

// load reads settings and applies command-line overrides.
func (o *rootOptions) load() (*config.Settings, error) {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataPath != "" {
		settings.Data.Path = o.dataPath
	}
	if o.logLevel != "" {
		settings.Logging.Level = o.logLevel
	}
	return settings, nil
}

// newReader maps data settings onto a CSV reader.
func newReader(settings *config.Settings, logger *logrus.Logger) *ingest.Reader {
	return ingest.NewReader(ingest.Options{
		Columns: ingest.Columns{
			Name:  settings.Data.NameColumn,
			City:  settings.Data.CityColumn,
			State: settings.Data.StateColumn,
		},
		Encoding: settings.Data.Encoding,
	}, logging.WithComponent(logger, "ingest"))
}

// engineOptions maps search settings onto the engine's collaborators.
func engineOptions(settings *config.Settings, logger *logrus.Logger, m *metrics.Metrics) engine.Options {
	tok := tokenizer.New(settings.Search.CollapseSpaces)
	return engine.Options{
		Indexing: indexing.Options{
			StopWords: tokenizer.NewStopWords(settings.Search.IndexStopWords...),
			Tokenizer: tok,
			Resolver:  states.Default,
		},
		Search: search.Options{
			TopK:      settings.Search.TopK,
			StopWords: tokenizer.NewStopWords(settings.Search.QueryStopWords...),
			Tokenizer: tok,
		},
		Metrics: m,
		Logger:  logger,
	}
}

// newMetrics returns nil when metrics are disabled.
func newMetrics(settings *config.Settings, reg *prometheus.Registry) *metrics.Metrics {
	if !settings.Metrics.Enabled {
		return nil
	}
	return metrics.New(reg)
}

func newEngine(cmd *cobra.Command, settings *config.Settings, logger *logrus.Logger, m *metrics.Metrics) (*engine.Engine, error) {
	reader := newReader(settings, logger)
	opts := engineOptions(settings, logger, m)

	if settings.Data.Lazy {
		logger.WithField("path", settings.Data.Path).Info("Index will be built on first query")
		return engine.NewLazy(reader.FileLoader(settings.Data.Path), opts), nil
	}

	records, err := reader.ReadFile(cmd.Context(), settings.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", settings.Data.Path, err)
	}
	return engine.New(records, opts)
}
