// Package server assembles the HTTP surface: the chat endpoint, session
// history, policy pages, health and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/assistant"
	"github.com/lumenhr/lumen/assistant/llm"
	"github.com/lumenhr/lumen/assistant/metrics"
	"github.com/lumenhr/lumen/hr"
	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer   *echo.Echo
	hrService    *hr.Service
	orchestrator *assistant.Orchestrator
	exporter     *metrics.PrometheusExporter
	chatLimiter  *userRateLimiter
}

func NewServer(ctx context.Context, instanceProfile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	hrService := hr.NewService(storeInstance)

	var llmService llm.Service
	if instanceProfile.IsLLMEnabled() {
		var err error
		llmService, err = llm.NewService(&llm.Config{
			Provider: instanceProfile.LLMProvider,
			Model:    instanceProfile.LLMModel,
			APIKey:   instanceProfile.LLMAPIKey,
			BaseURL:  instanceProfile.LLMBaseURL,
			Timeout:  instanceProfile.LLMTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create llm service")
		}
		slog.Info("llm service initialized",
			"provider", instanceProfile.LLMProvider,
			"model", instanceProfile.LLMModel,
		)
		// Warmup is best-effort and must not delay startup.
		go func() {
			warmupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			llmService.Warmup(warmupCtx)
		}()
	} else {
		slog.Info("llm service disabled, chat degrades to static responses")
	}

	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())

	orchestrator, err := assistant.NewOrchestrator(llmService, storeInstance, hrService, exporter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create orchestrator")
	}

	s := &Server{
		Profile:      instanceProfile,
		Store:        storeInstance,
		hrService:    hrService,
		orchestrator: orchestrator,
		exporter:     exporter,
		chatLimiter:  newUserRateLimiter(1, 5),
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	echoServer.Use(requestLogger())

	echoServer.GET("/healthz", s.healthz)
	echoServer.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	apiGroup := echoServer.Group("/api/v1")
	apiGroup.POST("/chat", s.chat, s.chatLimiter.Middleware)
	apiGroup.GET("/chat/sessions", s.recentSessions)
	apiGroup.GET("/chat/sessions/:sessionId/turns", s.sessionTurns)
	apiGroup.GET("/policies", s.listPolicies)
	apiGroup.GET("/policies/:policyId", s.getPolicy)

	s.echoServer = echoServer

	if instanceProfile.Mode == "demo" {
		if err := hrService.Seed(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to seed demo data")
		}
	}

	return s, nil
}

// Start begins serving in a goroutine; ListenAndServe failures other than a
// graceful close are logged, not returned.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
	slog.Info("server shutdown")
}

func (s *Server) healthz(c echo.Context) error {
	if err := s.Store.GetDB().PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs one line per request with latency and status.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"requestID", v.RequestID,
			)
			return nil
		},
	})
}
