// Command devserver starts the in-memory talent API for local development.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/semanticsaas/talentctl/internal/devserver"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	addr := pflag.String("addr", ":8080", "listen address")
	jwtKey := pflag.String("jwt-key", "", "HS256 signing key (random when empty)")
	pflag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		// ephemeral key; tokens do not survive a restart, which is fine for
		// a server that holds no durable state either
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			logger.Fatal("generate jwt key", zap.Error(err))
		}
		*jwtKey = hex.EncodeToString(b)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := devserver.New(*jwtKey, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(*addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
