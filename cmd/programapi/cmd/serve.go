package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/argo-platform/program-service/internal/auth"
	programmiddleware "github.com/argo-platform/program-service/internal/middleware"
	"github.com/argo-platform/program-service/internal/server"
	"github.com/argo-platform/program-service/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the program service API server",
	Long:  `Starts the HTTP server with the Connect RPC program service and health endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		shutdownTelemetry, err := telemetry.Init(ctx, cfg.Observability, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(sctx); err != nil {
				logger.Warn("telemetry shutdown failed", "error", err)
			}
		}()

		c, err := buildComponents(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		key, err := loadVerificationKey(ctx, cfg.Auth, c.idp)
		if err != nil {
			return fmt.Errorf("failed to load token verification key: %w", err)
		}
		verifier, err := auth.NewVerifier(key, cfg.Auth.Algorithm,
			auth.WithIssuer(cfg.Auth.Issuer),
			auth.WithAudience(cfg.Auth.Audience),
			auth.WithLeeway(cfg.Auth.Leeway),
		)
		if err != nil {
			return fmt.Errorf("failed to create token verifier: %w", err)
		}
		logger.Info("token verifier ready", "algorithm", cfg.Auth.Algorithm)

		authorizer, err := auth.NewAuthorizer()
		if err != nil {
			return fmt.Errorf("configure casbin authorizer: %w", err)
		}

		authMetrics, err := telemetry.NewAuthMetrics()
		if err != nil {
			return fmt.Errorf("create auth metrics: %w", err)
		}
		authnDeps := programmiddleware.AuthnDependencies{
			Verifier: verifier,
			Logger:   logger,
			Metrics:  authMetrics,
		}

		authnInterceptor, err := programmiddleware.NewAuthnInterceptor(authnDeps)
		if err != nil {
			return fmt.Errorf("configure authentication interceptor: %w", err)
		}
		authzInterceptor, err := programmiddleware.NewAuthzInterceptor(programmiddleware.AuthzDependencies{
			Authorizer: authorizer,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("configure authorization interceptor: %w", err)
		}
		httpAuthn, err := programmiddleware.NewAuthnMiddleware(authnDeps)
		if err != nil {
			return fmt.Errorf("configure authentication middleware: %w", err)
		}

		handler := server.NewH2CHandler(server.RouterOptions{
			Programs:            c.programs,
			References:          c.references,
			Logger:              logger,
			HTTPAuthn:           httpAuthn,
			ConnectInterceptors: []connect.Interceptor{authnInterceptor, authzInterceptor},
			HealthHandler: server.NewHealthHandler(
				server.HealthCheck{Name: "database", Check: c.db.PingContext},
			),
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down gracefully", "signal", sig.String())

			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(sctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
