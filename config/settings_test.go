package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, 8080, s.Server.Port)
	assert.Equal(t, "school_data.csv", s.Data.Path)
	assert.Equal(t, EncodingWindows1252, s.Data.Encoding)
	assert.Equal(t, "SCHNAM05", s.Data.NameColumn)
	assert.Equal(t, "LCITY05", s.Data.CityColumn)
	assert.Equal(t, "LSTATE05", s.Data.StateColumn)
	assert.Equal(t, 3, s.Search.TopK)
	assert.Equal(t, []string{"SCHOOL", "ELEMENTARY", "MIDDLE", "HIGH"}, s.Search.IndexStopWords)
	assert.Equal(t, []string{"SCHOOL"}, s.Search.QueryStopWords)
	assert.False(t, s.Search.CollapseSpaces)
	assert.True(t, s.Metrics.Enabled)
	assert.Equal(t, "/metrics", s.Metrics.Path)
	assert.Empty(t, s.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
  read_timeout: 5s
data:
  path: /srv/schools.csv
  encoding: utf-8
  lazy: true
search:
  top_k: 5
  query_stop_words: []
  collapse_spaces: true
logging:
  level: debug
  format: json
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, s.Server.Port)
	assert.Equal(t, 5*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, s.Server.WriteTimeout)
	assert.Equal(t, "/srv/schools.csv", s.Data.Path)
	assert.Equal(t, EncodingUTF8, s.Data.Encoding)
	assert.True(t, s.Data.Lazy)
	assert.Equal(t, 5, s.Search.TopK)
	assert.Empty(t, s.Search.QueryStopWords, "explicit empty list disables query stop words")
	assert.NotNil(t, s.Search.QueryStopWords)
	assert.Len(t, s.Search.IndexStopWords, 4)
	assert.True(t, s.Search.CollapseSpaces)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.False(t, s.Metrics.Enabled)
}

func TestLoad_NoPath(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Search.TopK)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("search:\n  top_k: -1\n"), 0600))
	_, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.top_k")
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

	var validationErr *internalErrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Message, "search.top_k")
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"SCHOOL_SEARCH_PORT":            "9100",
		"SCHOOL_SEARCH_DATA_PATH":       "/data/x.csv",
		"SCHOOL_SEARCH_DATA_ENCODING":   "utf-8",
		"SCHOOL_SEARCH_LAZY":            "true",
		"SCHOOL_SEARCH_TOP_K":           "not-a-number",
		"SCHOOL_SEARCH_COLLAPSE_SPACES": "1",
		"SCHOOL_SEARCH_LOG_LEVEL":       "warn",
		"SCHOOL_SEARCH_LOG_FORMAT":      "json",
		"SCHOOL_SEARCH_METRICS_ENABLED": "false",
	}
	s := Default()
	s.ApplyEnvOverrides(func(key string) string { return env[key] })

	assert.Equal(t, 9100, s.Server.Port)
	assert.Equal(t, "/data/x.csv", s.Data.Path)
	assert.Equal(t, "utf-8", s.Data.Encoding)
	assert.True(t, s.Data.Lazy)
	assert.Equal(t, 3, s.Search.TopK, "unparseable values are ignored")
	assert.True(t, s.Search.CollapseSpaces)
	assert.Equal(t, "warn", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.False(t, s.Metrics.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(s *Settings)
		expectedErrors int
		contains       string
	}{
		{"valid defaults", func(s *Settings) {}, 0, ""},
		{"port out of range", func(s *Settings) { s.Server.Port = 70000 }, 1, "server.port"},
		{"unsupported encoding", func(s *Settings) { s.Data.Encoding = "latin-9" }, 1, "data.encoding"},
		{"empty column", func(s *Settings) { s.Data.CityColumn = "  " }, 1, "data.city_column"},
		{"zero top k", func(s *Settings) { s.Search.TopK = 0 }, 1, "search.top_k"},
		{"lowercase stop word", func(s *Settings) { s.Search.QueryStopWords = []string{"school"} }, 1, "must be uppercase"},
		{"duplicate stop word", func(s *Settings) { s.Search.IndexStopWords = []string{"HIGH", "HIGH"} }, 1, "Duplicate stop word"},
		{"multi word stop word", func(s *Settings) { s.Search.IndexStopWords = []string{"HIGH SCHOOL"} }, 1, "single non-empty token"},
		{"bad log format", func(s *Settings) { s.Logging.Format = "xml" }, 1, "logging.format"},
		{"metrics path", func(s *Settings) { s.Metrics.Path = "metrics" }, 1, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			problems := s.Validate()
			if len(problems) != tt.expectedErrors {
				t.Fatalf("Expected %d errors, got %d: %v", tt.expectedErrors, len(problems), problems)
			}
			if tt.contains != "" && !strings.Contains(strings.Join(problems, "\n"), tt.contains) {
				t.Errorf("Expected errors to mention %q, got %v", tt.contains, problems)
			}
		})
	}
}
