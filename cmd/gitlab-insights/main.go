package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vilaca/gitlab-insights/internal/api"
	"github.com/vilaca/gitlab-insights/internal/api/gitlab"
	"github.com/vilaca/gitlab-insights/internal/config"
	"github.com/vilaca/gitlab-insights/internal/dashboard"
	"github.com/vilaca/gitlab-insights/internal/logger"
	"github.com/vilaca/gitlab-insights/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.AppEnv)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if cfg.HasSentryConfig() {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			TracesSampleRate: 1.0,
		}); err != nil {
			log.Warn("sentry initialization failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if !cfg.HasGitLabConfig() {
		log.Warn("no GitLab token configured, only public projects are readable; set GITLAB_TOKEN")
	}
	if cfg.ProjectID == "" {
		log.Info("no default project configured, pages need ?project=<id>")
	}

	// Wire up dependencies (Dependency Injection / IoC)
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           buildServer(cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting GitLab Insights",
			zap.String("addr", "http://localhost"+addr),
			zap.String("gitlab_url", cfg.GitLabURL),
			zap.Int("cache_ttl_seconds", cfg.CacheTTLSeconds))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildServer wires up all dependencies and returns the configured HTTP handler.
// This is the composition root where all dependencies are created and injected.
func buildServer(cfg *config.Config, log *zap.Logger) http.Handler {
	requestTimeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	httpClient := &http.Client{
		Timeout: requestTimeout,
	}

	gitlabClient := gitlab.NewClient(api.ClientConfig{
		BaseURL:  cfg.GitLabURL,
		Token:    cfg.GitLabToken,
		MaxPages: cfg.MaxPages,
	}, httpClient)

	// Wrap with caching layer
	cacheDuration := time.Duration(cfg.CacheTTLSeconds) * time.Second
	client := api.NewCachingClient(gitlabClient, cacheDuration, log.Named("cache"))

	var reporter service.ErrorReporter = service.NopReporter{}
	if cfg.HasSentryConfig() {
		reporter = service.NewSentryReporter()
	}
	insights := service.NewInsightsService(client, reporter, log.Named("insights"), cfg.PageSize)

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:         dashboard.NewHTMLRenderer(),
		Logger:           log.Named("dashboard"),
		Insights:         insights,
		DefaultProjectID: cfg.ProjectID,
		RequestTimeout:   requestTimeout,
	})

	// Register routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return logger.Middleware(log)(sentryHandler.Handle(mux))
}
