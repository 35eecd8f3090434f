package tvdb

import (
	"context"
	"slices"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"gopkg.in/xmlpath.v2"
)

// Seasons maps season number to episode number to Episode.
type Seasons map[int]map[int]*Episode

// Numbers returns the season numbers in ascending order.
func (s Seasons) Numbers() []int {
	numbers := lo.Keys(s)
	slices.Sort(numbers)
	return numbers
}

// Episodes returns every episode ordered by season, then number.
func (s Seasons) Episodes() []*Episode {
	var episodes []*Episode
	for _, season := range s.Numbers() {
		numbers := lo.Keys(s[season])
		slices.Sort(numbers)
		for _, number := range numbers {
			episodes = append(episodes, s[season][number])
		}
	}
	return episodes
}

// Len returns the number of episodes across all seasons.
func (s Seasons) Len() int {
	n := 0
	for _, episodes := range s {
		n += len(episodes)
	}
	return n
}

// Series is a full series record.
type Series struct {
	SeriesSummary

	Runtime mo.Option[string]
	Status  mo.Option[string]
	Actors  []string
	Genre   []string

	poster  mo.Option[string]
	seasons mo.Option[Seasons]
}

func newSeries(node *xmlpath.Node, env entityEnv) *Series {
	return &Series{
		SeriesSummary: newSeriesSummary(node, env),
		Runtime:       elemValue(node, "Runtime"),
		Status:        elemValue(node, "Status"),
		Actors:        elemList(node, "Actors"),
		Genre:         elemList(node, "Genre"),
		poster:        elemValue(node, "poster"),
		seasons:       mo.None[Seasons](),
	}
}

// Poster returns the absolute poster URL.
func (s *Series) Poster() mo.Option[string] {
	return resolveImage(s.imageBase, s.poster)
}

// EpisodesLoaded reports whether the seasons mapping has been populated.
func (s *Series) EpisodesLoaded() bool {
	return s.seasons.IsPresent()
}

// Seasons returns every episode keyed by season and number. The first call
// fetches the full record; later calls return the same mapping.
func (s *Series) Seasons(ctx context.Context) (Seasons, error) {
	if seasons, ok := s.seasons.Get(); ok {
		return seasons, nil
	}
	if s.resolver == nil {
		return nil, ErrClientNotAvailable
	}

	episodes, err := s.resolver.GetSeriesEpisodes(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return s.attachEpisodes(episodes), nil
}

// Episode returns one episode. Once seasons are loaded this is a map lookup
// and a missing episode is (nil, nil); otherwise it is a targeted fetch.
func (s *Series) Episode(ctx context.Context, season, number int) (*Episode, error) {
	if seasons, ok := s.seasons.Get(); ok {
		return seasons[season][number], nil
	}
	if s.resolver == nil {
		return nil, ErrClientNotAvailable
	}
	return s.resolver.GetEpisode(ctx, s.ID, season, number)
}

// attachEpisodes builds the seasons mapping and binds each episode to s.
// Episodes without a season or episode number cannot be keyed and are skipped.
func (s *Series) attachEpisodes(episodes []*Episode) Seasons {
	seasons := make(Seasons)
	for _, e := range episodes {
		season, hasSeason := e.Season.Get()
		number, hasNumber := e.Number.Get()
		if !hasSeason || !hasNumber {
			continue
		}
		e.series = mo.Some(s)
		if seasons[season] == nil {
			seasons[season] = make(map[int]*Episode)
		}
		seasons[season][number] = e
	}
	s.seasons = mo.Some(seasons)
	return seasons
}

// LoadedSeasons returns the seasons mapping without fetching it.
func (s *Series) LoadedSeasons() (Seasons, bool) {
	return s.seasons.Get()
}
