package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/angelcm/ads-insights-go/internal/config"
	"github.com/angelcm/ads-insights-go/internal/httpx"
	"github.com/angelcm/ads-insights-go/internal/insights"
	"github.com/angelcm/ads-insights-go/internal/pipeline"
	"github.com/angelcm/ads-insights-go/internal/session"
	"github.com/angelcm/ads-insights-go/internal/source"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cl := source.NewHTTPClient(cfg.HTTPTimeout)
	ins := insights.NewClient(insights.Config{
		APIKey:  cfg.InsightsAPIKey,
		BaseURL: cfg.InsightsBaseURL,
		Model:   cfg.InsightsModel,
		Timeout: cfg.HTTPTimeout,
	}, logger)

	runner, err := pipeline.NewRunner(cl, ins, logger, cfg)
	if err != nil {
		logger.Error("bad configuration", slog.String("err", err.Error()))
		os.Exit(1)
	}
	store := session.NewStore(cfg.SessionTTL)

	r := httpx.NewRouter(logger, runner, store)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
