// Package output flattens tvdb entities into plain views and renders them
// as console trees, JSON or YAML.
package output

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/s0up4200/tvdbarr/tvdb"
)

// SearchResultView is a search hit with derived fields resolved.
type SearchResultView struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	IMDbID     string    `json:"imdb_id,omitempty" yaml:"imdb_id,omitempty"`
	Overview   string    `json:"overview,omitempty" yaml:"overview,omitempty"`
	Language   string    `json:"language,omitempty" yaml:"language,omitempty"`
	Network    string    `json:"network,omitempty" yaml:"network,omitempty"`
	FirstAired time.Time `json:"first_aired,omitzero" yaml:"first_aired,omitempty"`
	Banner     string    `json:"banner,omitempty" yaml:"banner,omitempty"`
}

// SeriesView is a full series, with seasons when they were loaded.
type SeriesView struct {
	SearchResultView `yaml:",inline"`

	Runtime string       `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	Status  string       `json:"status,omitempty" yaml:"status,omitempty"`
	Actors  []string     `json:"actors" yaml:"actors"`
	Genre   []string     `json:"genre" yaml:"genre"`
	Poster  string       `json:"poster,omitempty" yaml:"poster,omitempty"`
	Seasons []SeasonView `json:"seasons,omitempty" yaml:"seasons,omitempty"`
}

// SeasonView groups the episodes of one season in airing order.
type SeasonView struct {
	Number   int           `json:"number" yaml:"number"`
	Episodes []EpisodeView `json:"episodes" yaml:"episodes"`
}

// EpisodeView is one episode. Season and Number are zero when absent;
// Code is empty unless both are present.
type EpisodeView struct {
	ID         string    `json:"id" yaml:"id"`
	SeriesID   string    `json:"series_id" yaml:"series_id"`
	Season     int       `json:"season" yaml:"season"`
	Number     int       `json:"number" yaml:"number"`
	Code       string    `json:"code,omitempty" yaml:"code,omitempty"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	Overview   string    `json:"overview,omitempty" yaml:"overview,omitempty"`
	IMDbID     string    `json:"imdb_id,omitempty" yaml:"imdb_id,omitempty"`
	Director   string    `json:"director,omitempty" yaml:"director,omitempty"`
	Writer     string    `json:"writer,omitempty" yaml:"writer,omitempty"`
	Language   string    `json:"language,omitempty" yaml:"language,omitempty"`
	GuestStars []string  `json:"guest_stars" yaml:"guest_stars"`
	FirstAired time.Time `json:"first_aired,omitzero" yaml:"first_aired,omitempty"`
	Image      string    `json:"image,omitempty" yaml:"image,omitempty"`
}

func summaryView(s *tvdb.SeriesSummary) (SearchResultView, error) {
	aired, err := s.FirstAired()
	if err != nil {
		return SearchResultView{}, fmt.Errorf("series %s: first aired: %w", s.ID, err)
	}

	return SearchResultView{
		ID:         s.ID,
		Name:       s.Name.OrEmpty(),
		IMDbID:     s.IMDbID.OrEmpty(),
		Overview:   s.Overview.OrEmpty(),
		Language:   s.Language.OrEmpty(),
		Network:    s.Network.OrEmpty(),
		FirstAired: aired.OrEmpty(),
		Banner:     s.Banner().OrEmpty(),
	}, nil
}

// NewSearchResultView flattens a search result.
func NewSearchResultView(r *tvdb.SearchResult) (SearchResultView, error) {
	return summaryView(&r.SeriesSummary)
}

// NewSearchResultViews flattens every result, stopping at the first
// malformed air date.
func NewSearchResultViews(results []*tvdb.SearchResult) ([]SearchResultView, error) {
	views := make([]SearchResultView, 0, len(results))
	for _, r := range results {
		v, err := NewSearchResultView(r)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// NewSeriesView flattens a series. Seasons are included only when already
// loaded; this never triggers a fetch.
func NewSeriesView(s *tvdb.Series) (SeriesView, error) {
	summary, err := summaryView(&s.SeriesSummary)
	if err != nil {
		return SeriesView{}, err
	}

	view := SeriesView{
		SearchResultView: summary,
		Runtime:          s.Runtime.OrEmpty(),
		Status:           s.Status.OrEmpty(),
		Actors:           s.Actors,
		Genre:            s.Genre,
		Poster:           s.Poster().OrEmpty(),
	}

	if seasons, ok := s.LoadedSeasons(); ok {
		view.Seasons, err = NewSeasonViews(seasons)
		if err != nil {
			return SeriesView{}, err
		}
	}

	return view, nil
}

// NewSeasonViews flattens a seasons mapping in season and episode order.
func NewSeasonViews(seasons tvdb.Seasons) ([]SeasonView, error) {
	views := make([]SeasonView, 0, len(seasons))
	for _, number := range seasons.Numbers() {
		season := SeasonView{Number: number}
		episodeNumbers := lo.Keys(seasons[number])
		slices.Sort(episodeNumbers)
		for _, n := range episodeNumbers {
			ev, err := NewEpisodeView(seasons[number][n])
			if err != nil {
				return nil, err
			}
			season.Episodes = append(season.Episodes, ev)
		}
		views = append(views, season)
	}
	return views, nil
}

// NewEpisodeView flattens an episode.
func NewEpisodeView(e *tvdb.Episode) (EpisodeView, error) {
	aired, err := e.FirstAired()
	if err != nil {
		return EpisodeView{}, fmt.Errorf("episode %s: first aired: %w", e.ID, err)
	}

	return EpisodeView{
		ID:         e.ID,
		SeriesID:   e.SeriesID,
		Season:     e.Season.OrEmpty(),
		Number:     e.Number.OrEmpty(),
		Code:       e.Code(),
		Name:       e.Name.OrEmpty(),
		Overview:   e.Overview.OrEmpty(),
		IMDbID:     e.IMDbID.OrEmpty(),
		Director:   e.Director.OrEmpty(),
		Writer:     e.Writer.OrEmpty(),
		Language:   e.Language.OrEmpty(),
		GuestStars: e.GuestStars,
		FirstAired: aired.OrEmpty(),
		Image:      e.Image().OrEmpty(),
	}, nil
}

// NewEpisodeViews flattens a list of episodes.
func NewEpisodeViews(episodes []*tvdb.Episode) ([]EpisodeView, error) {
	views := make([]EpisodeView, 0, len(episodes))
	for _, e := range episodes {
		v, err := NewEpisodeView(e)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
