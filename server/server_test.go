package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lumenhr/lumen/hr"
	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/store"
	"github.com/lumenhr/lumen/store/db/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	testProfile := &profile.Profile{
		// demo mode triggers seeding; no LLM key means chat degrades to the
		// static fallback, which is what these tests exercise.
		Mode:   "demo",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "lumen_test.db"),
	}
	driver, err := sqlite.NewDB(testProfile)
	require.NoError(t, err)

	storeInstance := store.New(driver, testProfile)
	require.NoError(t, storeInstance.Migrate(ctx))

	s, err := NewServer(ctx, testProfile, storeInstance)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })
	return s
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChatValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/v1/chat", `{"userId":"demo-user"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatGeneratesSessionID(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/chat", `{"userId":"demo-user","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.SessionID)
	require.NotEmpty(t, response.Message)
}

func TestChatUnknownUserGetsNoProfileMessage(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/chat", `{"userId":"ghost","sessionId":"s1","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "couldn't find your employee profile")
}

func TestSessionHistoryRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/chat", `{"userId":"demo-user","sessionId":"s1","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/v1/chat/sessions/s1/turns?userId=demo-user", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var turns []turnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turns))
	require.Len(t, turns, 2)
	require.Equal(t, "user", turns[0].Role)
	require.Equal(t, "hello", turns[0].Content)
	require.Equal(t, "assistant", turns[1].Role)

	// Another user cannot read the session.
	rec = doRequest(s, http.MethodGet, "/api/v1/chat/sessions/s1/turns?userId=demo-user-2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestRecentSessionsListing(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/v1/chat", `{"userId":"demo-user","sessionId":"s1","message":"first"}`)
	doRequest(s, http.MethodPost, "/api/v1/chat", `{"userId":"demo-user","sessionId":"s2","message":"second"}`)

	rec := doRequest(s, http.MethodGet, "/api/v1/chat/sessions?userId=demo-user", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []store.ChatSessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)

	rec = doRequest(s, http.MethodGet, "/api/v1/chat/sessions", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRateLimit(t *testing.T) {
	limiter := newUserRateLimiter(0.1, 2)

	for i := 0; i < 2; i++ {
		require.True(t, limiter.limiterFor("demo-user").Allow())
	}
	require.False(t, limiter.limiterFor("demo-user").Allow())
	// Other users are unaffected.
	require.True(t, limiter.limiterFor("demo-user-2").Allow())
}

func TestPolicies(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/policies", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var policies []hr.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policies))
	require.Len(t, policies, 3)

	rec = doRequest(s, http.MethodGet, "/api/v1/policies/leave-policy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Casual Leave: 12 days per year")
	require.Contains(t, rec.Body.String(), "contentHtml")

	rec = doRequest(s, http.MethodGet, "/api/v1/policies/no-such-policy", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
