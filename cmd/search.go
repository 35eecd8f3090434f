package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/tvdbarr/filter"
	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

const lookupConcurrency = 4

var (
	filterExpr string
	preset     string
	resolve    bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search TheTVDB for series by title",
	Long: `Search TheTVDB for series matching a title. Results can be narrowed
with a filter expression; --resolve fetches the full record of every hit
so that status, genre and actor fields can be filtered on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	searchCmd.Flags().BoolVar(&resolve, "resolve", false, "fetch the full series record for every result")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	title := strings.Join(args, " ")

	f, err := resolveFilter(filterExpr, preset)
	if err != nil {
		return err
	}

	logger.Info().Str("title", title).Msg("Searching series")

	results, err := tvdbClient.Search(ctx, title)
	if err != nil {
		return err
	}

	if resolve {
		return renderResolved(cmd, results, f)
	}

	views, err := output.NewSearchResultViews(results)
	if err != nil {
		return err
	}
	if f != nil {
		views, err = filter.Select(ctx, filter.NewEvaluator(), f, views, filter.SearchResultRecord)
		if err != nil {
			return err
		}
	}

	return render(cmd, views, func() string {
		return formatter.FormatSearchResults(views)
	})
}

// renderResolved fetches every hit's full record concurrently, preserving order
func renderResolved(cmd *cobra.Command, results []*tvdb.SearchResult, f filter.CompiledFilter) error {
	ctx := cmd.Context()
	views := make([]output.SeriesView, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)

	for i, result := range results {
		g.Go(func() error {
			series, err := result.Series(gctx, false)
			if err != nil {
				return fmt.Errorf("failed to resolve series %s: %w", result.ID, err)
			}
			views[i], err = output.NewSeriesView(series)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if f != nil {
		var err error
		views, err = filter.Select(ctx, filter.NewEvaluator(), f, views, filter.SeriesRecord)
		if err != nil {
			return err
		}
	}

	return render(cmd, views, func() string {
		return formatSeriesList(views)
	})
}

func formatSeriesList(views []output.SeriesView) string {
	if len(views) == 0 {
		return "No series found"
	}
	parts := make([]string, len(views))
	for i, v := range views {
		parts[i] = formatter.FormatSeries(v)
	}
	return strings.Join(parts, "\n")
}
