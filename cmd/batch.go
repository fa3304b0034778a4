package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kozaktomas/idphoto/internal/config"
	"github.com/kozaktomas/idphoto/internal/export"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Export many photos for the same size",
	Long: `Export every given photo for one catalog size in parallel.

A file that cannot be read or decoded is reported and skipped; the
rest are still exported. Output files are named after their source.

Examples:
  idphoto batch --size sheet_1inch class/*.jpg
  idphoto batch --size us_passport --workers 8 --output-dir out/ a.jpg b.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("size", "", "Size id (required)")
	batchCmd.Flags().Int("workers", 0, "Parallel exports (default: EXPORT_WORKERS)")
	batchCmd.Flags().String("format", "", "jpeg, webp or png (default: EXPORT_FORMAT)")
	batchCmd.Flags().String("output-dir", "", "Output directory (default: EXPORT_OUTPUT_DIR)")
	batchCmd.MarkFlagRequired("size")
}

// batchOutputName prefixes the generated name with the source base name,
// since every file in one batch shares the same size label and timestamp.
func batchOutputName(source string, res *export.Result) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return export.SanitizeLabel(base) + "-" + res.Filename
}

func batchJobs(paths []string, cfg *config.Config) []export.Job {
	jobs := make([]export.Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, export.Job{
			Name: p,
			Load: func() (image.Image, error) { return loadSource(p, nil, cfg) },
		})
	}
	return jobs
}

func newBatchProgressBar(count int) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if slices.Contains(args, "-") {
		return fmt.Errorf("batch: %w", errNoStdin)
	}
	format, err := parseFormatFlag(cmd)
	if err != nil {
		return err
	}
	cfg := config.Load()
	logger := newLogger(cfg)
	exp, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}

	sizeID := mustGetString(cmd, "size")
	workers := mustGetInt(cmd, "workers")
	if workers <= 0 {
		workers = cfg.Export.Workers
	}
	dir := mustGetString(cmd, "output-dir")
	if dir == "" {
		dir = cfg.Export.OutputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := newBatchProgressBar(len(args))
	results := exp.Batch(ctx, batchJobs(args, cfg), sizeID, format, workers, func(export.JobResult) {
		bar.Add(1)
	})
	bar.Finish()
	fmt.Fprintln(cmd.ErrOrStderr())

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error().Err(r.Err).Str("file", r.Name).Msg("export failed")
			continue
		}
		path, err := writeResult(r.Result, filepath.Join(dir, batchOutputName(r.Name, r.Result)), dir)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("file", r.Name).Msg("write failed")
			continue
		}
		logger.Debug().Str("file", r.Name).Str("output", path).Msg("written")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d photos to %s\n", len(results)-failed, len(results), dir)
	if failed > 0 {
		return fmt.Errorf("%d photo(s) failed", failed)
	}
	return nil
}
