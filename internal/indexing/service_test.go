package indexing

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-school-search/index"
	"github.com/gcbaptista/go-school-search/internal/states"
	"github.com/gcbaptista/go-school-search/internal/tokenizer"
	"github.com/gcbaptista/go-school-search/model"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(logger)
}

func newTestService() *Service {
	return NewService(Options{Resolver: states.Default}, quietLogger())
}

func TestBuild_IndexesNameCityAndLongState(t *testing.T) {
	result := newTestService().Build([]model.RawRecord{
		{Name: "FOLEY HIGH SCHOOL", City: "FOLEY", StateCode: "AL"},
		{Name: "KUSKOKWIM ELEMENTARY", City: "BETHEL", StateCode: "AK"},
	})

	require.Equal(t, 2, result.Store.Len())

	tests := []struct {
		token string
		want  index.PostingList
	}{
		// name token and city are the same key for record 0
		{"FOLEY", index.PostingList{0, 0}},
		{"ALABAMA", index.PostingList{0}},
		{"KUSKOKWIM", index.PostingList{1}},
		{"BETHEL", index.PostingList{1}},
		{"ALASKA", index.PostingList{1}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := result.Index.Lookup(tt.token)
			require.True(t, ok, "expected %q to be indexed", tt.token)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_SkipsIndexStopWords(t *testing.T) {
	result := newTestService().Build([]model.RawRecord{
		{Name: "LINCOLN MIDDLE SCHOOL", City: "SPRINGFIELD", StateCode: "IL"},
		{Name: "JEFFERSON ELEMENTARY HIGH", City: "BELLEVILLE", StateCode: "IL"},
	})

	for _, stop := range []string{"SCHOOL", "ELEMENTARY", "MIDDLE", "HIGH"} {
		_, ok := result.Index.Lookup(stop)
		assert.False(t, ok, "stop word %q should not be indexed", stop)
	}

	illinois, ok := result.Index.Lookup("ILLINOIS")
	require.True(t, ok)
	assert.Equal(t, index.PostingList{0, 1}, illinois)
}

func TestBuild_NoCaseTransformation(t *testing.T) {
	result := newTestService().Build([]model.RawRecord{
		{Name: "Riverside school", City: "Dayton", StateCode: "OH"},
	})

	_, upper := result.Index.Lookup("RIVERSIDE")
	assert.False(t, upper)
	_, mixed := result.Index.Lookup("Riverside")
	assert.True(t, mixed)
	// lowercase "school" is not in the uppercase stop set
	_, lower := result.Index.Lookup("school")
	assert.True(t, lower)
}

func TestBuild_CityIsWholeString(t *testing.T) {
	result := newTestService().Build([]model.RawRecord{
		{Name: "GRANADA CHARTER", City: "GRANADA HILLS", StateCode: "CA"},
	})

	_, whole := result.Index.Lookup("GRANADA HILLS")
	assert.True(t, whole)
	_, part := result.Index.Lookup("HILLS")
	assert.False(t, part)

	_, longState := result.Index.Lookup("CALIFORNIA")
	assert.True(t, longState)
}

func TestBuild_AbsentLongStateIsNotIndexed(t *testing.T) {
	result := newTestService().Build([]model.RawRecord{
		{Name: "OVERSEAS ACADEMY", City: "RAMSTEIN", StateCode: "XX"},
	})

	_, empty := result.Index.Lookup("")
	assert.False(t, empty, "absent long state must not produce a placeholder key")
	assert.Equal(t, 3, result.Index.TermCount()) // OVERSEAS, ACADEMY, RAMSTEIN
	assert.False(t, result.Store.MustGet(0).HasLongState)
}

func TestBuild_EmptyTokensFromRepeatedSpaces(t *testing.T) {
	raw := []model.RawRecord{{Name: "PS  44", City: "BRONX", StateCode: "NY"}}

	result := newTestService().Build(raw)
	postings, ok := result.Index.Lookup("")
	require.True(t, ok)
	assert.Equal(t, index.PostingList{0}, postings)

	collapsed := NewService(Options{Resolver: states.Default, Tokenizer: tokenizer.New(true)}, quietLogger()).Build(raw)
	_, ok = collapsed.Index.Lookup("")
	assert.False(t, ok)
}

func TestBuild_CustomStopWords(t *testing.T) {
	svc := NewService(Options{Resolver: states.Default, StopWords: tokenizer.NewStopWords("ACADEMY")}, quietLogger())
	result := svc.Build([]model.RawRecord{{Name: "HIGH ACADEMY", City: "X", StateCode: "TX"}})

	_, academy := result.Index.Lookup("ACADEMY")
	assert.False(t, academy)
	_, high := result.Index.Lookup("HIGH")
	assert.True(t, high)
}

func TestBuild_NilResolver(t *testing.T) {
	result := NewService(Options{}, quietLogger()).Build([]model.RawRecord{
		{Name: "A", City: "B", StateCode: "AL"},
	})
	_, ok := result.Index.Lookup("ALABAMA")
	assert.False(t, ok)
}

func TestBuild_EmptyInput(t *testing.T) {
	result := newTestService().Build(nil)
	assert.Equal(t, 0, result.Store.Len())
	assert.Equal(t, 0, result.Index.TermCount())
}

func TestBuild_Idempotent(t *testing.T) {
	raw := []model.RawRecord{
		{Name: "FOLEY HIGH SCHOOL", City: "FOLEY", StateCode: "AL"},
		{Name: "FOLEY MIDDLE SCHOOL", City: "FOLEY", StateCode: "AL"},
		{Name: "KUSKOKWIM", City: "BETHEL", StateCode: "AK"},
	}
	svc := newTestService()
	first := svc.Build(raw)
	second := svc.Build(raw)

	require.Equal(t, first.Index.TermCount(), second.Index.TermCount())
	for term, a := range first.Index.Index {
		b, ok := second.Index.Lookup(term)
		require.True(t, ok, "term %q missing from second build", term)
		assert.ElementsMatch(t, a, b, "postings differ for %q", term)
	}
}
