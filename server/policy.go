package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumenhr/lumen/hr"
)

type policyResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	ContentHTML string `json:"contentHtml,omitempty"`
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
}

func (s *Server) listPolicies(c echo.Context) error {
	policies := s.hrService.Policies()
	response := make([]policyResponse, 0, len(policies))
	for _, policy := range policies {
		response = append(response, policyResponse{
			ID:          policy.ID,
			Title:       policy.Title,
			Category:    policy.Category,
			Content:     policy.Content,
			LastUpdated: policy.LastUpdated,
			Version:     policy.Version,
		})
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) getPolicy(c echo.Context) error {
	policy := s.hrService.GetPolicy(c.Param("policyId"))
	if policy == nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}

	html, err := hr.RenderPolicyHTML(policy)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render policy").SetInternal(err)
	}
	return c.JSON(http.StatusOK, policyResponse{
		ID:          policy.ID,
		Title:       policy.Title,
		Category:    policy.Category,
		Content:     policy.Content,
		ContentHTML: html,
		LastUpdated: policy.LastUpdated,
		Version:     policy.Version,
	})
}
