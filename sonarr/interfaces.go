package sonarr

import (
	"context"

	"golift.io/starr"
	"golift.io/starr/sonarr"

	"github.com/s0up4200/tvdbarr/tvdb"
)

// SonarrAPI defines the Sonarr API operations the library check uses
type SonarrAPI interface {
	GetAllSeriesContext(ctx context.Context) ([]*sonarr.Series, error)
	GetTagsContext(ctx context.Context) ([]*starr.Tag, error)
	GetSystemStatusContext(ctx context.Context) (*sonarr.SystemStatus, error)
}

// SeriesFetcher looks up series records on TheTVDB
type SeriesFetcher interface {
	GetSeriesByID(ctx context.Context, id string, fullRecord bool) (*tvdb.Series, error)
}

var (
	_ SonarrAPI     = (*sonarr.Sonarr)(nil)
	_ SeriesFetcher = (*tvdb.Client)(nil)
)
