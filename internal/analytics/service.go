package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-school-search/model"
)

const (
	// DefaultMaxEvents bounds memory; older events are dropped first.
	DefaultMaxEvents = 10000
	popularLimit     = 5
)

// Service keeps a bounded in-memory log of queries and summarizes it.
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	now       func() time.Time
	logger    *logrus.Entry
}

// NewService creates a new analytics service. maxEvents <= 0 means DefaultMaxEvents.
func NewService(maxEvents int, logger *logrus.Entry) *Service {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if logger == nil {
		logger = logrus.WithField("component", "analytics")
	}
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEvents,
		now:       time.Now,
		logger:    logger,
	}
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > s.maxEvents {
		dropped := len(s.events) - s.maxEvents
		s.events = append(s.events[:0:0], s.events[dropped:]...)
		s.logger.WithField("dropped", dropped).Debug("Analytics events trimmed")
	}
}

// GetDashboardData summarizes every retained event.
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(s.events),
		AvgResponseTimeMicros:    calculateAvgResponseTime(s.events),
		PopularSearches:          getPopularSearches(s.events, false),
		ZeroResultQueries:        getPopularSearches(s.events, true),
		ResponseTimeDistribution: getResponseTimeDistribution(s.events),
	}
	if len(s.events) == 0 {
		return dashboard
	}

	dashboard.Since = s.events[0].Timestamp
	totalResults := 0
	for _, event := range s.events {
		totalResults += event.ResultCount
		if event.ResultCount == 0 {
			dashboard.ZeroResultSearches++
		}
	}
	dashboard.AvgResultCount = float64(totalResults) / float64(len(s.events))
	return dashboard
}

// calculateAvgResponseTime calculates average response time for events in microseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Microseconds()
}

// getPopularSearches returns the most frequent queries, optionally only those
// that returned nothing. Ties are ordered by query text.
func getPopularSearches(events []model.SearchEvent, zeroResultOnly bool) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query == "" {
			continue
		}
		if zeroResultOnly && event.ResultCount > 0 {
			continue
		}
		queryCounts[event.Query]++
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > popularLimit {
		popular = popular[:popularLimit]
	}
	return popular
}

// getResponseTimeDistribution buckets events by response time
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	var dist model.ResponseTimeDistribution
	for _, event := range events {
		switch {
		case event.ResponseTime < time.Millisecond:
			dist.Bucket0To1ms++
		case event.ResponseTime < 10*time.Millisecond:
			dist.Bucket1To10ms++
		default:
			dist.Bucket10msPlus++
		}
	}

	if total := len(events); total > 0 {
		dist.Percentage0To1 = float64(dist.Bucket0To1ms) / float64(total) * 100
		dist.Percentage1To10 = float64(dist.Bucket1To10ms) / float64(total) * 100
		dist.Percentage10Plus = float64(dist.Bucket10msPlus) / float64(total) * 100
	}
	return dist
}
