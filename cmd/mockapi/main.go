// Command mockapi runs the self-contained Xerpia ERP API used for local
// development of the console. State lives in memory and resets on restart.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/xerpia/erp-console/internal/mockapi"
	"github.com/xerpia/erp-console/pkg/logger"
)

type serverConfig struct {
	Addr       string        `env:"MOCKAPI_ADDR, default=:8080"`
	JWTSecret  string        `env:"MOCKAPI_JWT_SECRET, default=dev-secret"`
	AccessTTL  time.Duration `env:"MOCKAPI_ACCESS_TTL, default=15m"`
	RefreshTTL time.Duration `env:"MOCKAPI_REFRESH_TTL, default=168h"`
	LogLevel   string        `env:"MOCKAPI_LOG_LEVEL, default=info"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg serverConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	e, _ := mockapi.NewServer(mockapi.Config{
		JWTSecret:  cfg.JWTSecret,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}, log)

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("mock API listening")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
