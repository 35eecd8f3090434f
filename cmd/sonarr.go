package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbarr/sonarr"
)

var mismatchesOnly bool

// sonarrCmd represents the sonarr command
var sonarrCmd = &cobra.Command{
	Use:   "sonarr",
	Short: "Compare a Sonarr library against TheTVDB",
	Long: `List every series in Sonarr next to its TheTVDB record and flag series
whose status differs between the two. Requires sonarr.url and sonarr.api_key.`,
	Args: cobra.NoArgs,
	RunE: runSonarr,
}

func init() {
	sonarrCmd.Flags().BoolVar(&mismatchesOnly, "mismatches", false, "only show series whose status differs")
}

func runSonarr(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !cfg.SonarrEnabled() {
		return errors.New("sonarr is not configured, set sonarr.url and sonarr.api_key")
	}

	client, err := sonarr.NewClient(cfg.Sonarr.URL, cfg.Sonarr.APIKey, tvdbClient, cfg.Sonarr.Concurrency, logger)
	if err != nil {
		return fmt.Errorf("failed to create Sonarr client: %w", err)
	}

	status, err := client.Status(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("version", status.Version).Str("url", cfg.Sonarr.URL).Msg("Connected to Sonarr")

	entries, err := client.Library(ctx)
	if err != nil {
		return err
	}
	if mismatchesOnly {
		entries = sonarr.Mismatches(entries)
	}

	return render(cmd, entries, func() string {
		return sonarr.NewConsoleFormatter().FormatLibrary(entries)
	})
}
