// Package testing provides utilities and helpers for testing the search engine.
package testing

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-school-search/internal/engine"
	"github.com/gcbaptista/go-school-search/internal/indexing"
	"github.com/gcbaptista/go-school-search/internal/states"
	"github.com/gcbaptista/go-school-search/model"
	"github.com/gcbaptista/go-school-search/services"
)

// FixtureRecords is a small directory covering the demo queries.
var FixtureRecords = []model.RawRecord{
	{Name: "HIGHLAND PARK ELEMENTARY SCHOOL", City: "HIGHLAND PARK", StateCode: "IL"},
	{Name: "HIGHLAND ELEMENTARY SCHOOL", City: "SILVER SPRING", StateCode: "MD"},
	{Name: "JEFFERSON ELEMENTARY SCHOOL", City: "BELLEVILLE", StateCode: "IL"},
	{Name: "JEFFERSON MIDDLE SCHOOL", City: "SPRINGFIELD", StateCode: "IL"},
	{Name: "RIVERSIDE SCHOOL 44", City: "INDIANAPOLIS", StateCode: "IN"},
	{Name: "RIVERSIDE ELEMENTARY", City: "RIVERSIDE", StateCode: "CA"},
	{Name: "GRANADA HILLS CHARTER HIGH", City: "GRANADA HILLS", StateCode: "CA"},
	{Name: "GRANADA ELEMENTARY", City: "ALAMEDA", StateCode: "CA"},
	{Name: "FOLEY HIGH SCHOOL", City: "FOLEY", StateCode: "AL"},
	{Name: "FOLEY MIDDLE SCHOOL", City: "FOLEY", StateCode: "AL"},
	{Name: "KUSKOKWIM LEARNING ACADEMY", City: "BETHEL", StateCode: "AK"},
	{Name: "DOD OVERSEAS SCHOOL", City: "RAMSTEIN", StateCode: "ZZ"},
}

// QuietLogger returns a logger that only prints warnings and above.
func QuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// DefaultOptions returns engine options with the default state table and a quiet logger.
func DefaultOptions() engine.Options {
	return engine.Options{
		Indexing: indexing.Options{Resolver: states.Default},
		Logger:   QuietLogger(),
	}
}

// CreateTestEngine builds an engine over FixtureRecords.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(FixtureRecords, DefaultOptions())
	require.NoError(t, err, "Failed to create test engine")
	return eng
}

// SchoolNames returns the names of schools in result order.
func SchoolNames(schools []model.School) []string {
	names := make([]string, len(schools))
	for i, s := range schools {
		names[i] = s.Name
	}
	return names
}

// SearchTestCase defines a search test case
type SearchTestCase struct {
	Name          string
	Query         string
	ExpectedNames []string // Expected result names, in order
	ValidateFunc  func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against a searcher
func RunSearchTests(t *testing.T, searcher services.Searcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := searcher.Search(context.Background(), tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.LessOrEqual(t, len(results.Schools), 3, "Search never returns more than 3 schools")
			if tt.ExpectedNames != nil {
				assert.Equal(t, tt.ExpectedNames, SchoolNames(results.Schools), "Result order should match")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}
