package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cafekiosk/internal/agent"
	"cafekiosk/internal/api"
	"cafekiosk/internal/archive"
	"cafekiosk/internal/config"
	"cafekiosk/internal/llm"
	"cafekiosk/internal/menu"
	"cafekiosk/internal/order"
	"cafekiosk/internal/router"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	port := flag.Int("port", 0, "override HTTP port")
	metricsPort := flag.Int("metrics-port", 0, "override metrics port")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		settings.Port = *port
	}
	if *metricsPort != 0 {
		settings.MetricsPort = *metricsPort
	}

	logger := newLogger(settings.LogLevel)

	if err := run(settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("kiosk exited")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func run(settings config.Settings, logger zerolog.Logger) error {
	catalog := menu.Default()
	if settings.MenuFile != "" {
		loaded, err := menu.LoadFile(settings.MenuFile)
		if err != nil {
			return fmt.Errorf("load menu: %w", err)
		}
		catalog = loaded
	}

	var cloud llm.CloudProvider
	if settings.OpenAIAPIKey != "" {
		provider, err := llm.NewOpenAIProvider(settings.OpenAIAPIKey)
		if err != nil {
			return fmt.Errorf("openai provider: %w", err)
		}
		cloud = provider
	}

	var local llm.LocalProvider
	if settings.EnableLocalModel {
		provider, err := llm.NewOllamaProvider(settings.OllamaBaseURL, settings.OllamaModel)
		if err != nil {
			return fmt.Errorf("ollama provider: %w", err)
		}
		local = provider
	}

	gateway := llm.NewGateway(llm.GatewayOptions{
		Cloud:          cloud,
		Local:          local,
		DefaultModel:   settings.NanoModel,
		RequestTimeout: settings.RequestTimeout,
		Logger:         logger,
	})

	store := order.NewStore(settings.TaxRate, settings.HistoryCapacity, logger)

	if settings.ArchivePath != "" {
		arc, err := archive.Open(settings.ArchivePath, logger)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer arc.Close()
		store.SetTerminalHook(func(o *order.Order) {
			if err := arc.Save(o); err != nil {
				logger.Error().Err(err).Str("order_id", o.ID).Msg("archive order")
			}
		})
	}

	orderAgent := agent.NewOrderAgent(
		catalog,
		router.NewCategoryRouter(gateway, catalog, logger),
		router.NewModelRouter(gateway, settings, logger),
		router.NewServingRouter(gateway, settings, logger),
		gateway,
		store,
		logger,
	)
	recommender := agent.NewRecommender(catalog, store, gateway, logger)

	server := api.NewServer(orderAgent, recommender, store, catalog, settings, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.Port),
		Handler: server.Router(),
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.MetricsPort),
		Handler: metricsRouter(),
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info().Int("port", settings.Port).Msg("kiosk server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Info().Int("port", settings.MetricsPort).Msg("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	logger.Info().Msg("kiosk stopped")
	return nil
}

func metricsRouter() *gin.Engine {
	r := gin.New()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
