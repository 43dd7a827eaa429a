package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docstruct/tably/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the table reconstruction API",
	Long: `Start an HTTP server that reconstructs tables from posted OCR documents.

The server provides the following endpoints:
  POST /extract     - Reconstruct a table from a recognition document
  GET  /templates   - List loaded zone templates
  GET  /health      - Health check endpoint
  GET  /metrics     - Prometheus metrics
  GET  /ws/extract  - WebSocket streaming extraction

Examples:
  tably serve
  tably serve --port 8080 --templates-dir ./templates
  tably serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	srvCfg := cfg.Server
	if cmd.Flags().Changed("host") {
		srvCfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		srvCfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("cors-origin") {
		srvCfg.CORSOrigin, _ = cmd.Flags().GetString("cors-origin")
	}
	if cmd.Flags().Changed("max-upload-size") {
		mb, _ := cmd.Flags().GetInt("max-upload-size")
		srvCfg.MaxUploadMB = int64(mb)
	}
	if cmd.Flags().Changed("timeout") {
		srvCfg.TimeoutSec, _ = cmd.Flags().GetInt("timeout")
	}
	if cmd.Flags().Changed("shutdown-timeout") {
		srvCfg.ShutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
	}
	if cmd.Flags().Changed("templates-dir") {
		srvCfg.TemplatesDir, _ = cmd.Flags().GetString("templates-dir")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	srv, err := server.NewServer(srvCfg, cfg.Extract)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", srvCfg.Host, srvCfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(srvCfg.TimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(srvCfg.TimeoutSec) * time.Second,
	}

	go func() {
		slog.Info("Starting table reconstruction server", "host", srvCfg.Host, "port", srvCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Context cancelled, initiating shutdown")
	}

	slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", srvCfg.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(srvCfg.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return err
	}
	slog.Info("Graceful shutdown completed")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("max-upload-size", 50, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().String("templates-dir", "templates", "directory of zone template YAML files")
}
