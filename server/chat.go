package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
)

type chatRequest struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (s *Server) chat(c echo.Context) error {
	var request chatRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if request.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	if request.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	// A fresh session id starts a new thread; the session row is created
	// lazily on the first persisted turn.
	if request.SessionID == "" {
		request.SessionID = shortuuid.New()
	}

	result, err := s.orchestrator.Chat(c.Request().Context(), request.UserID, request.SessionID, request.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process chat turn").SetInternal(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) recentSessions(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	summaries, err := s.orchestrator.RecentSessions(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sessions").SetInternal(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

type turnResponse struct {
	Role        string           `json:"role"`
	Content     string           `json:"content"`
	Invocations []turnInvocation `json:"invocations,omitempty"`
	CreatedTs   int64            `json:"createdTs"`
}

type turnInvocation struct {
	Name           string `json:"name"`
	Arguments      string `json:"arguments"`
	OutcomeSummary string `json:"outcomeSummary"`
}

func (s *Server) sessionTurns(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	sessionUID := c.Param("sessionId")

	turns, err := s.orchestrator.History(c.Request().Context(), userID, sessionUID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load history").SetInternal(err)
	}

	response := make([]turnResponse, 0, len(turns))
	for _, turn := range turns {
		item := turnResponse{
			Role:      string(turn.Role),
			Content:   turn.Content,
			CreatedTs: turn.CreatedTs,
		}
		for _, invocation := range turn.Invocations {
			item.Invocations = append(item.Invocations, turnInvocation{
				Name:           invocation.Name,
				Arguments:      invocation.Arguments,
				OutcomeSummary: invocation.OutcomeSummary,
			})
		}
		response = append(response, item)
	}
	return c.JSON(http.StatusOK, response)
}
