package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/idphoto/internal/config"
	"github.com/kozaktomas/idphoto/internal/web"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP export API",
	Long: `Start the idphoto HTTP server.
Clients list sizes under /api/v1/sizes and POST a cropped photo to
/api/v1/export/{size} to receive the print-ready file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to (overrides WEB_HOST)")
}

// applyServeFlags lets explicitly set flags win over the environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}
}

// shutdownTimeout bounds how long in-flight exports may run after a stop signal.
const shutdownTimeout = 30 * time.Second

// httpServer is the part of web.Server that serveUntilDone drives.
type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serveUntilDone runs srv until ctx is done, then drains in-flight requests
// for up to timeout. It returns only once the drain has finished.
func serveUntilDone(ctx context.Context, srv httpServer, timeout time.Duration, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", timeout).Msg("stop signal received, draining requests")
	// The parent ctx is already canceled; the drain gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return <-errCh
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyServeFlags(cmd, cfg)
	logger := newLogger(cfg)

	exp, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	server := web.NewServer(cfg, exp, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("format", cfg.Export.Format).
		Int("max_upload_mb", cfg.Export.MaxUploadMB).
		Msgf("idphoto API on http://%s:%d", cfg.Web.Host, cfg.Web.Port)

	if err := serveUntilDone(ctx, server, shutdownTimeout, logger); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
