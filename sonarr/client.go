// Package sonarr cross-checks a Sonarr library against TheTVDB.
package sonarr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golift.io/starr"
	"golift.io/starr/sonarr"
)

// DefaultConcurrency bounds parallel TVDB lookups
const DefaultConcurrency = 4

// ErrNoTVDBID indicates a Sonarr series without a TVDB id
var ErrNoTVDBID = errors.New("series has no TVDB id")

// Client wraps the starr Sonarr client and a TVDB client
type Client struct {
	api         SonarrAPI
	tvdb        SeriesFetcher
	concurrency int
	logger      zerolog.Logger
}

// NewClient creates a new Sonarr client
func NewClient(url, apiKey string, tvdbClient SeriesFetcher, concurrency int, logger zerolog.Logger) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("sonarr URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("sonarr API key is required")
	}

	config := starr.New(apiKey, url, 30*time.Second)
	return newClient(sonarr.New(config), tvdbClient, concurrency, logger), nil
}

func newClient(api SonarrAPI, tvdbClient SeriesFetcher, concurrency int, logger zerolog.Logger) *Client {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Client{
		api:         api,
		tvdb:        tvdbClient,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "sonarr").Logger(),
	}
}

// Status returns the Sonarr system status, which doubles as a connection test
func (c *Client) Status(ctx context.Context) (*sonarr.SystemStatus, error) {
	status, err := c.api.GetSystemStatusContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Sonarr: %w", err)
	}
	return status, nil
}

// LibraryEntry is one Sonarr series alongside its TVDB record
type LibraryEntry struct {
	SonarrID     int64     `json:"sonarr_id" yaml:"sonarr_id"`
	Title        string    `json:"title" yaml:"title"`
	TVDBID       int64     `json:"tvdb_id" yaml:"tvdb_id"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Monitored    bool      `json:"monitored" yaml:"monitored"`
	SonarrStatus string    `json:"sonarr_status" yaml:"sonarr_status"`
	EpisodeFiles int       `json:"episode_files" yaml:"episode_files"`
	TVDBName     string    `json:"tvdb_name,omitempty" yaml:"tvdb_name,omitempty"`
	TVDBStatus   string    `json:"tvdb_status,omitempty" yaml:"tvdb_status,omitempty"`
	TVDBNetwork  string    `json:"tvdb_network,omitempty" yaml:"tvdb_network,omitempty"`
	FirstAired   time.Time `json:"first_aired,omitzero" yaml:"first_aired,omitempty"`
	// StatusMismatch is set when both sides report a status and they differ
	StatusMismatch bool   `json:"status_mismatch" yaml:"status_mismatch"`
	Error          string `json:"error,omitempty" yaml:"error,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// Library lists every Sonarr series and fetches its TVDB record. Lookup
// failures are recorded on the entry; only Sonarr failures and
// cancellation abort the call. Entries are sorted by title.
func (c *Client) Library(ctx context.Context) ([]LibraryEntry, error) {
	series, err := c.api.GetAllSeriesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	tags, err := c.api.GetTagsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	tagNames := lo.SliceToMap(tags, func(t *starr.Tag) (int, string) {
		return t.ID, t.Label
	})

	c.logger.Debug().Int("series", len(series)).Int("tags", len(tags)).Msg("Retrieved Sonarr library")

	entries := make([]LibraryEntry, len(series))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, s := range series {
		entries[i] = newLibraryEntry(s, tagNames)

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.lookup(gctx, &entries[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b LibraryEntry) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})

	return entries, nil
}

func newLibraryEntry(s *sonarr.Series, tagNames map[int]string) LibraryEntry {
	entry := LibraryEntry{
		SonarrID:     s.ID,
		Title:        s.Title,
		TVDBID:       s.TvdbID,
		Monitored:    s.Monitored,
		SonarrStatus: s.Status,
		Tags: lo.FilterMap(s.Tags, func(id int, _ int) (string, bool) {
			name, ok := tagNames[id]
			return name, ok
		}),
	}
	if s.Statistics != nil {
		entry.EpisodeFiles = s.Statistics.EpisodeFileCount
	}
	return entry
}

// lookup fills the TVDB side of entry
func (c *Client) lookup(ctx context.Context, entry *LibraryEntry) {
	if entry.TVDBID == 0 {
		entry.setError(ErrNoTVDBID)
		return
	}

	record, err := c.tvdb.GetSeriesByID(ctx, strconv.FormatInt(entry.TVDBID, 10), false)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Int64("tvdb_id", entry.TVDBID).
			Str("series", entry.Title).
			Msg("Failed to get TVDB record")
		entry.setError(err)
		return
	}

	entry.TVDBName = record.Name.OrEmpty()
	entry.TVDBStatus = record.Status.OrEmpty()
	entry.TVDBNetwork = record.Network.OrEmpty()

	aired, err := record.FirstAired()
	if err != nil {
		entry.setError(fmt.Errorf("first aired: %w", err))
	}
	entry.FirstAired = aired.OrEmpty()

	entry.StatusMismatch = entry.SonarrStatus != "" && entry.TVDBStatus != "" &&
		!strings.EqualFold(entry.SonarrStatus, entry.TVDBStatus)
}

func (e *LibraryEntry) setError(err error) {
	e.Err = err
	e.Error = err.Error()
}

// Mismatches returns the entries whose statuses disagree
func Mismatches(entries []LibraryEntry) []LibraryEntry {
	return lo.Filter(entries, func(e LibraryEntry, _ int) bool {
		return e.StatusMismatch
	})
}
