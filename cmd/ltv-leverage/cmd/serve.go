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

	"github.com/iwvelando/ltv-leverage/internal/server"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion and session API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("address") {
				cfg.Address = address
			}

			logger := a.logger
			if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
				if logger, err = initializeLogger(cfg.Logging, a.logLevel); err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, cfg)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", constants.DefaultServerAddress, "listen address override")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg, version),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "cmd.serve"),
			zap.String("address", cfg.Address),
			zap.String("maxRequestSize", cfg.MaxRequestSize),
			zap.Int("maxSessions", cfg.MaxSessions),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "cmd.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeoutSeconds*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return <-errCh
}
