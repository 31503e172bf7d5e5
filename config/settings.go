// Package config provides configuration structures for the school search engine.
// Settings are read from a YAML file, overridden from SCHOOL_SEARCH_* environment
// variables, and completed with defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
)

// Settings is the top-level configuration.
type Settings struct {
	Server  ServerSettings  `yaml:"server"`
	Data    DataSettings    `yaml:"data"`
	Search  SearchSettings  `yaml:"search"`
	Logging LoggingSettings `yaml:"logging"`
	Metrics MetricsSettings `yaml:"metrics"`
}

// ServerSettings holds HTTP server settings.
type ServerSettings struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// DataSettings describes where records come from and how they are decoded.
type DataSettings struct {
	Path     string `yaml:"path"`     // CSV file with a header row
	Encoding string `yaml:"encoding"` // "windows-1252" or "utf-8"
	// Lazy defers loading and indexing until the first query.
	Lazy        bool   `yaml:"lazy"`
	NameColumn  string `yaml:"name_column"`
	CityColumn  string `yaml:"city_column"`
	StateColumn string `yaml:"state_column"`
}

// SearchSettings controls tokenization, stop words, and result size.
type SearchSettings struct {
	TopK           int      `yaml:"top_k"`
	IndexStopWords []string `yaml:"index_stop_words"`
	QueryStopWords []string `yaml:"query_stop_words"`
	CollapseSpaces bool     `yaml:"collapse_spaces"` // drop empty tokens produced by repeated spaces
	MaxQueryLength int      `yaml:"max_query_length"`
}

// LoggingSettings controls log level and output format.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// MetricsSettings controls the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Supported values for DataSettings.Encoding.
const (
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
)

// Default returns settings matching the NCES school directory export.
func Default() *Settings {
	s := &Settings{
		Metrics: MetricsSettings{Enabled: true},
	}
	s.ApplyDefaults()
	return s
}

// Load reads a YAML file (if path is not empty), applies environment overrides
// and defaults, and validates the result. Validation failures match
// internalErrors.ErrInvalidInput.
func Load(path string) (*Settings, error) {
	settings := &Settings{
		Metrics: MetricsSettings{Enabled: true},
	}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	settings.ApplyEnvOverrides(os.Getenv)
	settings.ApplyDefaults()

	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w",
			internalErrors.NewValidationError("", strings.Join(problems, "; ")))
	}
	return settings, nil
}

// ApplyDefaults fills in every unset value.
func (s *Settings) ApplyDefaults() {
	if s.Server.Port == 0 {
		s.Server.Port = 8080
	}
	if s.Server.ReadTimeout == 0 {
		s.Server.ReadTimeout = 10 * time.Second
	}
	if s.Server.WriteTimeout == 0 {
		s.Server.WriteTimeout = 10 * time.Second
	}
	if s.Server.ShutdownTimeout == 0 {
		s.Server.ShutdownTimeout = 15 * time.Second
	}
	if s.Server.MaxBodyBytes == 0 {
		s.Server.MaxBodyBytes = 1 << 20
	}

	if s.Data.Path == "" {
		s.Data.Path = "school_data.csv"
	}
	if s.Data.Encoding == "" {
		s.Data.Encoding = EncodingWindows1252
	}
	if s.Data.NameColumn == "" {
		s.Data.NameColumn = "SCHNAM05"
	}
	if s.Data.CityColumn == "" {
		s.Data.CityColumn = "LCITY05"
	}
	if s.Data.StateColumn == "" {
		s.Data.StateColumn = "LSTATE05"
	}

	if s.Search.TopK == 0 {
		s.Search.TopK = 3
	}
	// nil means unset; an explicit empty list disables stop words
	if s.Search.IndexStopWords == nil {
		s.Search.IndexStopWords = []string{"SCHOOL", "ELEMENTARY", "MIDDLE", "HIGH"}
	}
	if s.Search.QueryStopWords == nil {
		s.Search.QueryStopWords = []string{"SCHOOL"}
	}
	if s.Search.MaxQueryLength == 0 {
		s.Search.MaxQueryLength = 256
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	if s.Logging.Format == "" {
		s.Logging.Format = "text"
	}
	if s.Metrics.Path == "" {
		s.Metrics.Path = "/metrics"
	}
}

// ApplyEnvOverrides overrides settings from SCHOOL_SEARCH_* variables looked up
// through getenv. Values that fail to parse are ignored.
func (s *Settings) ApplyEnvOverrides(getenv func(string) string) {
	if v := getenv("SCHOOL_SEARCH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Server.Port = port
		}
	}
	if v := getenv("SCHOOL_SEARCH_DATA_PATH"); v != "" {
		s.Data.Path = v
	}
	if v := getenv("SCHOOL_SEARCH_DATA_ENCODING"); v != "" {
		s.Data.Encoding = v
	}
	if v := getenv("SCHOOL_SEARCH_LAZY"); v != "" {
		if lazy, err := strconv.ParseBool(v); err == nil {
			s.Data.Lazy = lazy
		}
	}
	if v := getenv("SCHOOL_SEARCH_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			s.Search.TopK = k
		}
	}
	if v := getenv("SCHOOL_SEARCH_COLLAPSE_SPACES"); v != "" {
		if collapse, err := strconv.ParseBool(v); err == nil {
			s.Search.CollapseSpaces = collapse
		}
	}
	if v := getenv("SCHOOL_SEARCH_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	if v := getenv("SCHOOL_SEARCH_LOG_FORMAT"); v != "" {
		s.Logging.Format = v
	}
	if v := getenv("SCHOOL_SEARCH_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			s.Metrics.Enabled = enabled
		}
	}
}

// Validate returns a description of every invalid setting.
func (s *Settings) Validate() []string {
	var problems []string

	if s.Server.Port < 1 || s.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", s.Server.Port))
	}
	if s.Server.MaxBodyBytes < 0 {
		problems = append(problems, "server.max_body_bytes cannot be negative")
	}

	switch strings.ToLower(s.Data.Encoding) {
	case EncodingWindows1252, EncodingUTF8:
	default:
		problems = append(problems, "data.encoding '"+s.Data.Encoding+"' is not supported (must be 'windows-1252' or 'utf-8')")
	}
	for field, column := range map[string]string{
		"data.name_column":  s.Data.NameColumn,
		"data.city_column":  s.Data.CityColumn,
		"data.state_column": s.Data.StateColumn,
	} {
		if strings.TrimSpace(column) == "" {
			problems = append(problems, field+" cannot be empty or whitespace-only")
		}
	}

	if s.Search.TopK < 1 {
		problems = append(problems, fmt.Sprintf("search.top_k must be at least 1, got %d", s.Search.TopK))
	}
	if s.Search.MaxQueryLength < 1 {
		problems = append(problems, fmt.Sprintf("search.max_query_length must be at least 1, got %d", s.Search.MaxQueryLength))
	}
	problems = append(problems, checkStopWords("search.index_stop_words", s.Search.IndexStopWords)...)
	problems = append(problems, checkStopWords("search.query_stop_words", s.Search.QueryStopWords)...)

	switch strings.ToLower(s.Logging.Format) {
	case "text", "json":
	default:
		problems = append(problems, "logging.format '"+s.Logging.Format+"' is not supported (must be 'text' or 'json')")
	}
	if !strings.HasPrefix(s.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with '/'")
	}

	return problems
}

// checkStopWords rejects duplicates and words that could never match an
// uppercased or uppercase-stored token.
func checkStopWords(fieldName string, words []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, word := range words {
		if word == "" || strings.Contains(word, " ") {
			errors = append(errors, "Stop word '"+word+"' in "+fieldName+" must be a single non-empty token")
			continue
		}
		if word != strings.ToUpper(word) {
			errors = append(errors, "Stop word '"+word+"' in "+fieldName+" must be uppercase")
		}
		if seen[word] {
			errors = append(errors, "Duplicate stop word '"+word+"' found in "+fieldName)
		}
		seen[word] = true
	}

	return errors
}
