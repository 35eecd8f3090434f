package tvdb

import (
	"context"
)

// Resolver is the lookup capability entities call back into for lazy
// resolution. *Client implements it.
type Resolver interface {
	// GetSeriesByID fetches a series, optionally with all its episodes
	GetSeriesByID(ctx context.Context, id string, fullRecord bool) (*Series, error)

	// GetEpisode fetches one episode by its position in a series
	GetEpisode(ctx context.Context, seriesID string, season, number int) (*Episode, error)

	// GetSeriesEpisodes fetches every episode of a series
	GetSeriesEpisodes(ctx context.Context, seriesID string) ([]*Episode, error)
}

// API is the full client surface, used by consumers that want to swap the client out
type API interface {
	Resolver

	Search(ctx context.Context, title string) ([]*SearchResult, error)
	GetEpisodeByID(ctx context.Context, id string) (*Episode, error)
	IsConfigured() bool
}

var _ API = (*Client)(nil)
