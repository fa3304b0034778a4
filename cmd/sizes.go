package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kozaktomas/idphoto/internal/catalog"
	"github.com/kozaktomas/idphoto/internal/layout"
	"github.com/spf13/cobra"
)

var sizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "List the supported output sizes",
	Long: `List every size in the catalog with its physical dimensions, the number
of copies per export and the pixel canvas at 300 DPI.

Examples:
  idphoto sizes
  idphoto sizes --kind sheet
  idphoto sizes --json`,
	RunE: runSizes,
}

func init() {
	rootCmd.AddCommand(sizesCmd)

	sizesCmd.Flags().String("kind", "", "Only list single or sheet sizes")
	sizesCmd.Flags().Bool("json", false, "Output as JSON")
}

// sizeRow is the JSON shape printed by --json.
type sizeRow struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Kind         string  `json:"kind"`
	WidthMM      float64 `json:"width_mm"`
	HeightMM     float64 `json:"height_mm"`
	Copies       int     `json:"copies"`
	CanvasWidth  int     `json:"canvas_width_px"`
	CanvasHeight int     `json:"canvas_height_px"`
}

func selectSizes(kind string) ([]catalog.SizeSpec, error) {
	switch k := catalog.Kind(kind); k {
	case "":
		return catalog.Specs(), nil
	case catalog.KindSingle, catalog.KindSheet:
		return catalog.ByKind(k), nil
	default:
		return nil, fmt.Errorf("invalid --kind %q (use single or sheet)", kind)
	}
}

func runSizes(cmd *cobra.Command, args []string) error {
	specs, err := selectSizes(mustGetString(cmd, "kind"))
	if err != nil {
		return err
	}

	rows := make([]sizeRow, 0, len(specs))
	for _, s := range specs {
		plan := layout.Compute(s)
		rows = append(rows, sizeRow{
			ID:           s.ID,
			Label:        s.Label,
			Kind:         string(s.Kind),
			WidthMM:      s.WidthMM,
			HeightMM:     s.HeightMM,
			Copies:       s.Copies(),
			CanvasWidth:  plan.CanvasWidth,
			CanvasHeight: plan.CanvasHeight,
		})
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	printSizes(cmd.OutOrStdout(), rows)
	return nil
}

func printSizes(out io.Writer, rows []sizeRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tSIZE\tKIND\tCOPIES\tCANVAS")
	fmt.Fprintln(w, "--\t-----\t----\t----\t------\t------")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%gx%gmm\t%s\t%d\t%dx%d\n",
			r.ID, r.Label, r.WidthMM, r.HeightMM, r.Kind, r.Copies, r.CanvasWidth, r.CanvasHeight)
	}
	w.Flush()
	fmt.Fprintf(out, "\nTotal: %d sizes\n", len(rows))
}
