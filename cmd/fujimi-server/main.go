package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/cache"
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/internal/logging"
	"github.com/eightweeks/fujimi-forecast/internal/server"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	addressFlag := flag.String("address", "", "listen address override")
	maxUploadFlag := flag.String("max-upload-size", "", "request body limit override (e.g. 256K, 2M)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Environment overrides for the analysis configuration may live in .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	serverConf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *addressFlag != "" {
		serverConf.Address = *addressFlag
	}
	if *maxUploadFlag != "" {
		size, err := server.ParseSize(*maxUploadFlag)
		if err != nil {
			logger.Fatal("invalid max upload size",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		serverConf.SetUploadSizeBytes(size)
	}

	conf, err := config.LoadConfiguration(serverConf.AnalysisConfig)
	if err != nil {
		logger.Fatal("failed to load analysis configuration",
			zap.String("op", "main"),
			zap.String("path", serverConf.AnalysisConfig),
			zap.Error(err),
		)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	resultCache, err := cache.New(logger, conf.Cache)
	if err != nil {
		logger.Fatal("failed to initialize cache",
			zap.String("op", "main"),
			zap.String("backend", conf.Cache.Backend),
			zap.Error(err),
		)
	}
	if closer, ok := resultCache.(interface{ Close() error }); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	limiter := server.NewRateLimiter(serverConf.RateLimit.Capacity, serverConf.RefillInterval())
	defer limiter.Stop()

	handler, err := server.NewHandler(logger, server.Options{
		Config:        conf,
		Cache:         resultCache,
		Limiter:       limiter,
		MaxUploadSize: serverConf.UploadSizeBytes(),
		Version:       version,
	})
	if err != nil {
		logger.Fatal("failed to create handler",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
			zap.Int64("maxUploadSize", serverConf.UploadSizeBytes()),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main"),
			zap.Duration("grace", serverConf.ShutdownGrace()),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConf.ShutdownGrace())
		defer cancel()

		handler.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}
