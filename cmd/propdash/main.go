// Command propdash serves the property-data dashboard API: single address
// lookups, batch enrichment runs, and exports against the Acumidata
// valuation provider.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/acumidata/propdash/internal/httpapi"
	"github.com/acumidata/propdash/pkg/acumidata"
	"github.com/acumidata/propdash/pkg/auth"
	"github.com/acumidata/propdash/pkg/config"
	"github.com/acumidata/propdash/pkg/logging"
	"github.com/acumidata/propdash/pkg/session"
	"github.com/acumidata/propdash/pkg/usage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		logger := logging.NewLogger("main")
		logger.Fatal().Err(err).Msg("Configuration error")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("main")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")

	tracker := usage.NewTracker(redisClient, string(cfg.Environment), cfg.UsageSoftCap,
		logging.NewLogger("usage-tracker"))

	clientCfg := acumidata.DefaultConfig(cfg.Environment, cfg.APIKey)
	clientCfg.Timeout = cfg.RequestTimeout
	clientCfg.Usage = tracker
	provider, err := acumidata.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create provider client")
	}

	users := auth.NewStore(afero.NewOsFs(), cfg.UsersFile)
	if err := users.Load(); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.UsersFile).Msg("Failed to load users file")
	}

	sessions := session.NewStore(redisClient, cfg.SessionTTL)

	api := httpapi.NewServer(httpapi.Config{
		Provider:           provider,
		Users:              users,
		Sessions:           sessions,
		Usage:              tracker,
		DefaultConcurrency: cfg.DefaultConcurrency,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.ServerAddr).
			Str("environment", string(cfg.Environment)).
			Msg("Starting propdash server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// In-flight batch runs drain on their own; the shutdown window only
	// needs to cover open HTTP requests.
	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown error")
	}
	redisClient.Close()
}
