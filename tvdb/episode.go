package tvdb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/samber/mo"
	"gopkg.in/xmlpath.v2"
)

// Episode is one episode record.
type Episode struct {
	ID         string
	SeriesID   string
	IMDbID     mo.Option[string]
	Number     mo.Option[int]
	Season     mo.Option[int]
	Name       mo.Option[string]
	Overview   mo.Option[string]
	GuestStars []string
	Director   mo.Option[string]
	Writer     mo.Option[string]
	Language   mo.Option[string]

	firstAired mo.Option[string]
	image      mo.Option[string]

	// series is the owning series, bound during batch construction or on
	// first call to Series.
	series    mo.Option[*Series]
	resolver  Resolver
	imageBase *url.URL
}

func newEpisode(node *xmlpath.Node, env entityEnv) (*Episode, error) {
	number, err := elemInt(node, "EpisodeNumber")
	if err != nil {
		return nil, err
	}
	season, err := elemInt(node, "SeasonNumber")
	if err != nil {
		return nil, err
	}

	return &Episode{
		ID:         elemValue(node, "id").OrEmpty(),
		SeriesID:   elemValue(node, "seriesid").OrEmpty(),
		IMDbID:     elemValue(node, "IMDB_ID"),
		Number:     number,
		Season:     season,
		Name:       elemValue(node, "EpisodeName"),
		Overview:   elemValue(node, "Overview"),
		GuestStars: elemList(node, "GuestStars"),
		Director:   elemValue(node, "Director"),
		Writer:     elemValue(node, "Writer"),
		Language:   elemValue(node, "Language"),
		firstAired: elemValue(node, "FirstAired"),
		image:      elemValue(node, "filename"),
		series:     mo.None[*Series](),
		resolver:   env.resolver,
		imageBase:  env.imageBase,
	}, nil
}

// FirstAired parses the raw air date on every call.
func (e *Episode) FirstAired() (mo.Option[time.Time], error) {
	return parseAirDate(e.firstAired)
}

// Image returns the absolute episode image URL.
func (e *Episode) Image() mo.Option[string] {
	return resolveImage(e.imageBase, e.image)
}

// Series returns the owning series, fetching it by SeriesID the first time
// when no back-reference was bound.
func (e *Episode) Series(ctx context.Context) (*Series, error) {
	if s, ok := e.series.Get(); ok {
		return s, nil
	}
	if e.resolver == nil {
		return nil, ErrClientNotAvailable
	}
	if e.SeriesID == "" {
		return nil, fmt.Errorf("episode %s has no series id: %w", e.ID, ErrNotFound)
	}

	s, err := e.resolver.GetSeriesByID(ctx, e.SeriesID, false)
	if err != nil {
		return nil, err
	}
	e.series = mo.Some(s)
	return s, nil
}

// Code returns the SxxEyy label, or an empty string when either number is missing.
func (e *Episode) Code() string {
	season, okSeason := e.Season.Get()
	number, okNumber := e.Number.Get()
	if !okSeason || !okNumber {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", season, number)
}

// String returns a short label for the episode
func (e *Episode) String() string {
	return "Episode: " + e.Name.OrEmpty()
}
