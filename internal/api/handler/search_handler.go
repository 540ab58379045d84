package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CandidateSummary is the employer-facing card for one seeker.
type CandidateSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Location   string   `json:"location"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
}

// mockCandidates stands in for the search backend, which is out of scope
// for this service. The shape matches what the search service will return.
var mockCandidates = []CandidateSummary{
	{ID: "1", Name: "Demo Seeker", Title: "Senior Full Stack Developer", Location: "Tel Aviv", Experience: "7+ years", Skills: []string{"React", "Node.js", "TypeScript", "Python"}},
	{ID: "3", Name: "Dana Levi", Title: "Backend Engineer", Location: "Haifa", Experience: "4 years", Skills: []string{"Go", "PostgreSQL", "Kubernetes"}},
	{ID: "4", Name: "Omer Katz", Title: "Data Engineer", Location: "Jerusalem", Experience: "5 years", Skills: []string{"Python", "Spark", "Airflow"}},
}

// SearchHandler serves the employer-only candidate search.
type SearchHandler struct{}

func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// Candidates returns seekers matching an optional free-text query over
// title and skills.
//
// @Summary      Search candidates
// @Tags         search
// @Produce      json
// @Param        q  query  string  false  "Free-text filter over title and skills"
// @Success      200  {array}  CandidateSummary
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /search/candidates [get]
func (h *SearchHandler) Candidates(c echo.Context) error {
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	if q == "" {
		return c.JSON(http.StatusOK, mockCandidates)
	}

	matches := make([]CandidateSummary, 0, len(mockCandidates))
	for _, cand := range mockCandidates {
		if strings.Contains(strings.ToLower(cand.Title), q) || matchesSkill(cand.Skills, q) {
			matches = append(matches, cand)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func matchesSkill(skills []string, q string) bool {
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
