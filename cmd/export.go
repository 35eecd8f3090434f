package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbarr/export"
)

var exportDir string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <id>...",
	Short: "Export series and their episodes as YAML files",
	Long: `Export writes <dir>/<id>/series.yaml and one file per episode under
<dir>/<id>/season-NN/. The directory defaults to export.dir from config.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Dir
	}

	exporter := export.NewExporter(afero.NewOsFs(), logger)

	var total int
	for _, id := range args {
		// Full record so Seasons does not need a second request
		series, err := tvdbClient.GetSeriesByID(ctx, id, true)
		if err != nil {
			return fmt.Errorf("failed to get series %s: %w", id, err)
		}

		written, err := exporter.ExportSeries(ctx, series, dir)
		if err != nil {
			return err
		}
		total += len(written)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d series (%d files) to %s\n", len(args), total, dir)
	return nil
}
