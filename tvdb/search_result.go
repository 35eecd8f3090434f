package tvdb

import (
	"context"

	"gopkg.in/xmlpath.v2"
)

// SearchResult is a series stub returned by a title search.
type SearchResult struct {
	SeriesSummary
}

func newSearchResult(node *xmlpath.Node, env entityEnv) *SearchResult {
	return &SearchResult{SeriesSummary: newSeriesSummary(node, env)}
}

// Series fetches the full record for this result, including every
// episode when fullRecord is set.
func (r *SearchResult) Series(ctx context.Context, fullRecord bool) (*Series, error) {
	if r.resolver == nil {
		return nil, ErrClientNotAvailable
	}
	return r.resolver.GetSeriesByID(ctx, r.ID, fullRecord)
}
