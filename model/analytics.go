package model

import "time"

// SearchEvent records a single query for analytics tracking
type SearchEvent struct {
	Query        string        `json:"query"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Candidates   int           `json:"candidates"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To1ms     int     `json:"bucket_0_1ms"`
	Bucket1To10ms    int     `json:"bucket_1_10ms"`
	Bucket10msPlus   int     `json:"bucket_10ms_plus"`
	Percentage0To1   float64 `json:"percentage_0_1"`
	Percentage1To10  float64 `json:"percentage_1_10"`
	Percentage10Plus float64 `json:"percentage_10_plus"`
}

// AnalyticsDashboard summarizes the tracked queries
type AnalyticsDashboard struct {
	TotalSearches            int                      `json:"total_searches"`
	ZeroResultSearches       int                      `json:"zero_result_searches"`
	AvgResponseTimeMicros    int64                    `json:"avg_response_time_us"`
	AvgResultCount           float64                  `json:"avg_result_count"`
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ZeroResultQueries        []PopularSearch          `json:"zero_result_queries"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	Since                    time.Time                `json:"since,omitempty"`
}
