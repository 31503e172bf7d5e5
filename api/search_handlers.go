package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
	"github.com/gcbaptista/go-school-search/model"
	"github.com/gcbaptista/go-school-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query   string `json:"query"`
	Explain bool   `json:"explain,omitempty"` // include scores and record positions
}

// SchoolResult is one ranked school in a search response.
type SchoolResult struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// ExplainedHit pairs a result with the score that ranked it.
type ExplainedHit struct {
	Position uint32 `json:"position"`
	Score    int    `json:"score"`
}

// SearchResponse is the body returned by the search endpoints.
type SearchResponse struct {
	Query       string         `json:"query"`
	QueryId     string         `json:"query_id"`
	Results     []SchoolResult `json:"results"`
	Total       int            `json:"total"`
	Candidates  int            `json:"candidates"`
	TookSeconds float64        `json:"took_seconds"`
	Hits        []ExplainedHit `json:"hits,omitempty"`
}

// SearchHandler handles search requests.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	api.search(c, req)
}

// SearchGetHandler handles GET /search?q=...&explain=true.
func (api *API) SearchGetHandler(c *gin.Context) {
	req := SearchRequest{Query: c.Query("q")}
	if raw := c.Query("explain"); raw != "" {
		explain, err := strconv.ParseBool(raw)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid explain parameter: "+raw)
			return
		}
		req.Explain = explain
	}
	api.search(c, req)
}

func (api *API) search(c *gin.Context, req SearchRequest) {
	if result := ValidateSearchQuery(req.Query, api.opts.MaxQueryLength); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := api.searcher.Search(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotBuilt) {
			SendIndexNotBuiltError(c, err)
			return
		}
		api.logger.WithError(err).Error("Search failed")
		SendSearchError(c, err)
		return
	}

	if api.opts.Analytics != nil {
		api.opts.Analytics.TrackSearchEvent(model.SearchEvent{
			Query:        req.Query,
			ResponseTime: results.Elapsed,
			ResultCount:  len(results.Schools),
			Candidates:   results.Candidates,
		})
	}

	c.JSON(http.StatusOK, buildSearchResponse(req, results))
}

func buildSearchResponse(req SearchRequest, results services.SearchResult) SearchResponse {
	response := SearchResponse{
		Query:       req.Query,
		QueryId:     results.QueryId,
		Results:     make([]SchoolResult, len(results.Schools)),
		Total:       len(results.Schools),
		Candidates:  results.Candidates,
		TookSeconds: results.ElapsedSeconds(),
	}
	for i, school := range results.Schools {
		response.Results[i] = SchoolResult{Name: school.Name, City: school.City, State: school.State}
	}
	if req.Explain {
		response.Hits = make([]ExplainedHit, len(results.Hits))
		for i, hit := range results.Hits {
			response.Hits[i] = ExplainedHit{Position: hit.Position, Score: hit.Score}
		}
	}
	return response
}
