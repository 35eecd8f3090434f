package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

var (
	episodeSeries string
	episodeSeason int
	episodeNumber int
)

// episodeCmd represents the episode command
var episodeCmd = &cobra.Command{
	Use:   "episode [id]",
	Short: "Show an episode by id or by series, season and number",
	Example: `  tvdbarr episode 297989
  tvdbarr episode --series 78874 --season 1 --number 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEpisode,
}

func init() {
	episodeCmd.Flags().StringVar(&episodeSeries, "series", "", "series id")
	episodeCmd.Flags().IntVar(&episodeSeason, "season", 0, "season number")
	episodeCmd.Flags().IntVar(&episodeNumber, "number", 0, "episode number within the season")
	episodeCmd.MarkFlagsRequiredTogether("series", "number")
}

func runEpisode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		episode *tvdb.Episode
		err     error
	)
	switch {
	case len(args) == 1 && episodeSeries != "":
		return errors.New("pass either an episode id or --series, not both")
	case len(args) == 1:
		episode, err = tvdbClient.GetEpisodeByID(ctx, args[0])
	case episodeSeries != "":
		episode, err = tvdbClient.GetEpisode(ctx, episodeSeries, episodeSeason, episodeNumber)
	default:
		return errors.New("an episode id or --series with --number is required")
	}
	if err != nil {
		return err
	}

	view, err := output.NewEpisodeView(episode)
	if err != nil {
		return err
	}

	return render(cmd, view, func() string {
		return formatter.FormatEpisodes([]output.EpisodeView{view})
	})
}
