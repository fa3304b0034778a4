package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kozaktomas/idphoto/internal/config"
	"github.com/kozaktomas/idphoto/internal/export"
	"github.com/kozaktomas/idphoto/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "idphoto",
	Short: "Lay out and export print-ready ID photos",
	Long: `idphoto turns an already cropped portrait into print-ready ID photo files.
It places one or more copies of the photo onto a 300 DPI canvas for a
catalog of passport, visa and sheet sizes and encodes the result as
JPEG, WebP or PNG.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Human-readable debug logging")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// newLogger builds the process logger from config and the --debug flag.
func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(debug || cfg.IsDevelopment())
}

// newExporter builds an exporter from the EXPORT_* settings.
func newExporter(cfg *config.Config, logger zerolog.Logger) (*export.Exporter, error) {
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, fmt.Errorf("EXPORT_FORMAT: %w", err)
	}
	opts := export.DefaultOptions()
	opts.Format = format
	opts.Quality = cfg.Export.Quality
	opts.FilenamePrefix = cfg.Export.FilenamePrefix
	return export.NewExporter(opts, logger), nil
}

// parseFormatFlag returns the --format value, or "" for the configured default.
func parseFormatFlag(cmd *cobra.Command) (export.Format, error) {
	raw := mustGetString(cmd, "format")
	if raw == "" {
		return "", nil
	}
	return export.ParseFormat(raw)
}
