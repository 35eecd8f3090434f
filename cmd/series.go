package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/tvdbarr/filter"
	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

var (
	fullRecord bool
	episodes   bool
)

// seriesCmd represents the series command
var seriesCmd = &cobra.Command{
	Use:   "series <id>...",
	Short: "Show one or more series by TheTVDB id",
	Long: `Fetch series records by id. With --full the complete record, including
every episode, is downloaded in one request. With --episodes the episode
list is printed instead and can be narrowed with --filter or --preset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeries,
}

func init() {
	seriesCmd.Flags().BoolVar(&fullRecord, "full", false, "fetch the full record including episodes")
	seriesCmd.Flags().BoolVar(&episodes, "episodes", false, "list episodes instead of series details")
	seriesCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to series or episodes")
	seriesCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runSeries(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := resolveFilter(filterExpr, preset)
	if err != nil {
		return err
	}

	records := make([]*tvdb.Series, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)

	for i, id := range args {
		g.Go(func() error {
			series, err := tvdbClient.GetSeriesByID(gctx, id, fullRecord || episodes)
			if err != nil {
				return fmt.Errorf("failed to get series %s: %w", id, err)
			}
			records[i] = series
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if episodes {
		return renderEpisodes(cmd, records, f)
	}

	views := make([]output.SeriesView, 0, len(records))
	for _, series := range records {
		view, err := output.NewSeriesView(series)
		if err != nil {
			return err
		}
		views = append(views, view)
	}

	if f != nil {
		views, err = filter.Select(ctx, filter.NewEvaluator(), f, views, filter.SeriesRecord)
		if err != nil {
			return err
		}
	}

	if len(views) == 1 {
		return render(cmd, views[0], func() string {
			return formatter.FormatSeries(views[0])
		})
	}
	return render(cmd, views, func() string {
		return formatSeriesList(views)
	})
}

func renderEpisodes(cmd *cobra.Command, records []*tvdb.Series, f filter.CompiledFilter) error {
	ctx := cmd.Context()

	var all []*tvdb.Episode
	for _, series := range records {
		seasons, err := series.Seasons(ctx)
		if err != nil {
			return err
		}
		all = append(all, seasons.Episodes()...)
	}

	views, err := output.NewEpisodeViews(all)
	if err != nil {
		return err
	}

	if f != nil {
		views, err = filter.Select(ctx, filter.NewEvaluator(), f, views, filter.EpisodeRecord)
		if err != nil {
			return err
		}
	}

	return render(cmd, views, func() string {
		return formatter.FormatEpisodes(views)
	})
}
