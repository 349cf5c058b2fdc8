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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdf_optimizer/api"
)

const (
	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 60 * time.Second

	// ServerWriteTimeout covers a whole batch being compressed
	ServerWriteTimeout = 10 * time.Minute

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP compression service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		// Check Ghostscript availability on startup
		coordinator, err := newCoordinator(cfg, logger)
		if err != nil {
			return fmt.Errorf("ghostscript not available: %w. Please install Ghostscript to continue", err)
		}

		if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
			return fmt.Errorf("failed to create temp directory: %w", err)
		}

		r := gin.New()
		r.Use(gin.Recovery())
		api.SetupRoutes(r, api.NewHandler(coordinator, cfg, logger))

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      r,
			ReadTimeout:  ServerReadTimeout,
			WriteTimeout: ServerWriteTimeout,
			IdleTimeout:  ServerIdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting",
				"addr", srv.Addr,
				"max_file_size", cfg.MaxFileSize,
				"temp_dir", cfg.TempDir,
				"workers", cfg.Workers)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		// Wait for interrupt signal for graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
		case <-quit:
		}
		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info("Server exited gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (default 8080)")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}
