package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lhzhang/astock-advisor/internal/clients/eastmoney"
	"github.com/lhzhang/astock-advisor/internal/clients/glm"
	"github.com/lhzhang/astock-advisor/internal/common"
	"github.com/lhzhang/astock-advisor/internal/server"
	"github.com/lhzhang/astock-advisor/internal/services/analyzer"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	configPath := os.Getenv("ADVISOR_CONFIG")
	if configPath == "" {
		configPath = "config/advisor.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	common.PrintBanner(config, logger)

	apiKey, err := common.ResolveAPIKey("glm_api_key", config.Clients.GLM.APIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("GLM API key not configured; advisory calls will fail")
	}

	market := eastmoney.NewClient(
		eastmoney.WithKlineBaseURL(config.Clients.Eastmoney.KlineBaseURL),
		eastmoney.WithNewsBaseURL(config.Clients.Eastmoney.NewsBaseURL),
		eastmoney.WithRateLimit(config.Clients.Eastmoney.RateLimit),
		eastmoney.WithTimeout(config.Clients.Eastmoney.GetTimeout()),
		eastmoney.WithNewsTimeout(config.Clients.Eastmoney.GetNewsTimeout()),
		eastmoney.WithLogger(logger),
	)

	advisory := glm.NewClient(apiKey,
		glm.WithBaseURL(config.Clients.GLM.BaseURL),
		glm.WithModel(config.Clients.GLM.Model),
		glm.WithTemperature(config.Clients.GLM.Temperature),
		glm.WithTimeout(config.Clients.GLM.GetTimeout()),
		glm.WithLogger(logger),
	)

	service := analyzer.NewService(market, market, advisory, config.Analyzer.BenchmarkSymbol, logger)
	srv := server.NewServer(config, service, logger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Str("benchmark", config.Analyzer.BenchmarkSymbol).
		Msg("Server ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	common.PrintShutdownBanner(logger)
}
