package tvdb

import (
	"net/url"
	"time"

	"github.com/samber/mo"
	"gopkg.in/xmlpath.v2"
)

// airDateLayout is the date format used by FirstAired fields.
const airDateLayout = "2006-01-02"

// entityEnv is what every entity receives from whoever parsed it.
type entityEnv struct {
	resolver  Resolver
	imageBase *url.URL
}

// SeriesSummary holds the fields shared by Series and SearchResult.
type SeriesSummary struct {
	ID       string
	IMDbID   mo.Option[string]
	Name     mo.Option[string]
	Overview mo.Option[string]
	Language mo.Option[string]
	Network  mo.Option[string]

	firstAired mo.Option[string]
	banner     mo.Option[string]

	resolver  Resolver
	imageBase *url.URL
}

func newSeriesSummary(node *xmlpath.Node, env entityEnv) SeriesSummary {
	return SeriesSummary{
		ID:         elemValue(node, "id").OrEmpty(),
		IMDbID:     elemValue(node, "IMDB_ID"),
		Name:       elemValue(node, "SeriesName"),
		Overview:   elemValue(node, "Overview"),
		Language:   elemValue(node, "language"),
		Network:    elemValue(node, "Network"),
		firstAired: elemValue(node, "FirstAired"),
		banner:     elemValue(node, "banner"),
		resolver:   env.resolver,
		imageBase:  env.imageBase,
	}
}

// FirstAired parses the raw air date on every call. A malformed value
// returns the *time.ParseError.
func (s *SeriesSummary) FirstAired() (mo.Option[time.Time], error) {
	return parseAirDate(s.firstAired)
}

// Banner returns the absolute banner URL.
func (s *SeriesSummary) Banner() mo.Option[string] {
	return resolveImage(s.imageBase, s.banner)
}

// String returns a short label for the series
func (s *SeriesSummary) String() string {
	return "Series: " + s.Name.OrEmpty()
}

func parseAirDate(raw mo.Option[string]) (mo.Option[time.Time], error) {
	value, ok := raw.Get()
	if !ok {
		return mo.None[time.Time](), nil
	}
	t, err := time.Parse(airDateLayout, value)
	if err != nil {
		return mo.None[time.Time](), err
	}
	return mo.Some(t), nil
}

// resolveImage joins a relative artwork path onto the image base URL.
// Paths that do not parse as URL references are treated as absent.
func resolveImage(base *url.URL, rel mo.Option[string]) mo.Option[string] {
	value, ok := rel.Get()
	if !ok {
		return mo.None[string]()
	}
	ref, err := url.Parse(value)
	if err != nil {
		return mo.None[string]()
	}
	if base == nil {
		base = defaultImageBase
	}
	return mo.Some(base.ResolveReference(ref).String())
}
