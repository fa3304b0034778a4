package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/kozaktomas/idphoto/internal/config"
	"github.com/kozaktomas/idphoto/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one photo for a size",
	Long: `Export a cropped photo as a print-ready file for one catalog size.

The input should already be cropped to the size's aspect ratio; it is
scaled to fit each placement without distortion. Use "-" to read stdin.

Examples:
  # 4x6 sheet with four 35x45mm photos
  idphoto export --size sheet_global --input face.jpg

  # Single US passport photo as PNG
  idphoto export --size us_passport --input face.jpg --format png --output passport.png

  # Re-encode the full-resolution source
  idphoto export --original --input face.jpg`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("size", "", "Size id (see 'idphoto sizes')")
	exportCmd.Flags().StringP("input", "i", "", "Source image path or - for stdin (required)")
	exportCmd.Flags().StringP("output", "o", "", "Output path (default: generated name in EXPORT_OUTPUT_DIR)")
	exportCmd.Flags().String("format", "", "jpeg, webp or png (default: EXPORT_FORMAT)")
	exportCmd.Flags().Bool("original", false, "Export the full-resolution source instead of a size")
	exportCmd.MarkFlagRequired("input")
	exportCmd.MarkFlagsMutuallyExclusive("size", "original")
}

// errNoStdin is returned for "-" where no standard input is available.
var errNoStdin = errors.New(`"-" (stdin) is not supported here`)

// openInput opens a path, treating "-" as stdin when one is given.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		if stdin == nil {
			return nil, errNoStdin
		}
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// loadSource decodes one source file within the configured upload limit.
func loadSource(path string, stdin io.Reader, cfg *config.Config) (image.Image, error) {
	r, err := openInput(path, stdin)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, err := export.DecodeSource(r, cfg.Export.MaxUploadBytes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// writeResult writes res to output, or to its generated name under dir.
func writeResult(res *export.Result, output, dir string) (string, error) {
	if output == "" {
		output = filepath.Join(dir, res.Filename)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(output, res.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	return output, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	sizeID := mustGetString(cmd, "size")
	original := mustGetBool(cmd, "original")
	if sizeID == "" && !original {
		return errors.New("either --size or --original is required")
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

	src, err := loadSource(mustGetString(cmd, "input"), cmd.InOrStdin(), cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var res *export.Result
	if original {
		res, err = exp.ExportOriginal(ctx, src, format)
	} else {
		res, err = exp.Export(ctx, src, sizeID, format)
	}
	if err != nil {
		if errors.Is(err, export.ErrUnknownSize) {
			return fmt.Errorf("%w (run 'idphoto sizes' for the list)", err)
		}
		return err
	}

	path, err := writeResult(res, mustGetString(cmd, "output"), cfg.Export.OutputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d cop%s, %d bytes)\n",
		path, res.Width, res.Height, res.Copies, plural(res.Copies, "y", "ies"), len(res.Data))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
