package analytics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-school-search/model"
)

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	service := NewService(0, nil)
	fixed := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	service.TrackSearchEvent(model.SearchEvent{
		Query:        "foley high alabama",
		ResponseTime: 50 * time.Microsecond,
		ResultCount:  2,
	})

	require.Len(t, service.events, 1)
	assert.Equal(t, fixed, service.events[0].Timestamp, "Missing timestamps are filled in")
	assert.Equal(t, DefaultMaxEvents, service.maxEvents)
}

func TestAnalyticsService_EventsAreBounded(t *testing.T) {
	service := NewService(3, nil)
	for _, q := range []string{"a", "b", "c", "d", "e"} {
		service.TrackSearchEvent(model.SearchEvent{Query: q})
	}

	require.Len(t, service.events, 3)
	assert.Equal(t, "c", service.events[0].Query)
	assert.Equal(t, "e", service.events[2].Query)
}

func TestAnalyticsService_GetDashboardData(t *testing.T) {
	service := NewService(0, nil)

	events := []model.SearchEvent{
		{Query: "jefferson belleville", ResponseTime: 500 * time.Microsecond, ResultCount: 3},
		{Query: "jefferson belleville", ResponseTime: 1500 * time.Microsecond, ResultCount: 3},
		{Query: "KUSKOKWIM", ResponseTime: 20 * time.Millisecond, ResultCount: 1},
		{Query: "xyzzy", ResponseTime: 100 * time.Microsecond, ResultCount: 0},
	}
	for _, e := range events {
		service.TrackSearchEvent(e)
	}

	dashboard := service.GetDashboardData()
	assert.Equal(t, 4, dashboard.TotalSearches)
	assert.Equal(t, 1, dashboard.ZeroResultSearches)
	assert.InDelta(t, 1.75, dashboard.AvgResultCount, 1e-9)
	assert.Equal(t, int64(5525), dashboard.AvgResponseTimeMicros)

	require.NotEmpty(t, dashboard.PopularSearches)
	assert.Equal(t, model.PopularSearch{Query: "jefferson belleville", SearchCount: 2}, dashboard.PopularSearches[0])
	assert.Equal(t, []model.PopularSearch{{Query: "xyzzy", SearchCount: 1}}, dashboard.ZeroResultQueries)

	dist := dashboard.ResponseTimeDistribution
	assert.Equal(t, 2, dist.Bucket0To1ms)
	assert.Equal(t, 1, dist.Bucket1To10ms)
	assert.Equal(t, 1, dist.Bucket10msPlus)
	assert.InDelta(t, 50.0, dist.Percentage0To1, 1e-9)
	assert.False(t, dashboard.Since.IsZero())
}

func TestAnalyticsService_EmptyDashboard(t *testing.T) {
	dashboard := NewService(0, nil).GetDashboardData()

	assert.Equal(t, 0, dashboard.TotalSearches)
	assert.Equal(t, int64(0), dashboard.AvgResponseTimeMicros)
	assert.Empty(t, dashboard.PopularSearches)
	assert.True(t, dashboard.Since.IsZero())
}

func TestGetPopularSearches_LimitAndTies(t *testing.T) {
	var events []model.SearchEvent
	for _, q := range []string{"g", "f", "e", "d", "c", "b", "a", "a", ""} {
		events = append(events, model.SearchEvent{Query: q, ResultCount: 1})
	}

	popular := getPopularSearches(events, false)
	require.Len(t, popular, popularLimit)
	assert.Equal(t, "a", popular[0].Query)
	assert.Equal(t, 2, popular[0].SearchCount)
	assert.Equal(t, "b", popular[1].Query)
	assert.Equal(t, "e", popular[4].Query)
}

func TestAnalyticsService_ConcurrentTracking(t *testing.T) {
	service := NewService(0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			service.TrackSearchEvent(model.SearchEvent{Query: "foley"})
			_ = service.GetDashboardData()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, service.GetDashboardData().TotalSearches)
}
