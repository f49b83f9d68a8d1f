// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
uitext serves the example documents as localized web pages.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/uitext/uitext/app"
	"codeberg.org/uitext/uitext/audit"
	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/server/router"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := app.Open(&config.Global)
	if err != nil {
		return fmt.Errorf("failed to open catalogues: %w", err)
	}

	log.Info().
		Str("provider", config.Global.Catalog.Provider).
		Str("mode", a.Resolver.Mode().String()).
		Int("documents", len(a.Documents.Names())).
		Msg("Initialized resolver")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(config.Global.Server.Host, config.Global.Server.Port)

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	log.Info().
		Str("address", listener.Addr().String()).
		Str("url", fmt.Sprintf("http://localhost:%v/", listener.Addr().(*net.TCPAddr).Port)).
		Msg("Listening on address")

	server := &http.Server{
		Handler:           router.New(a),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Serve(listener)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}
