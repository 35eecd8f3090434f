package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/s0up4200/tvdbarr/filter"
	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

// Catalog is the subset of the TVDB client the gateway serves.
type Catalog interface {
	Search(ctx context.Context, title string) ([]*tvdb.SearchResult, error)
	GetSeriesByID(ctx context.Context, id string, fullRecord bool) (*tvdb.Series, error)
	GetEpisode(ctx context.Context, seriesID string, season, number int) (*tvdb.Episode, error)
	GetEpisodeByID(ctx context.Context, id string) (*tvdb.Episode, error)
}

// Handlers provides HTTP handlers for catalog lookups.
type Handlers struct {
	catalog   Catalog
	filters   *filter.Manager
	evaluator *filter.Evaluator
}

// NewHandlers creates new catalog handlers. filters may be nil.
func NewHandlers(catalog Catalog, filters *filter.Manager) *Handlers {
	if filters == nil {
		filters = filter.NewManager()
	}
	return &Handlers{
		catalog:   catalog,
		filters:   filters,
		evaluator: filter.NewEvaluator(),
	}
}

// RegisterRoutes registers the catalog routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/series/:id", h.GetSeries)
	g.GET("/series/:id/episodes", h.ListEpisodes)
	g.GET("/series/:id/episodes/:season/:number", h.GetSeriesEpisode)
	g.GET("/episodes/:id", h.GetEpisode)
}

// Search finds series by title.
// GET /api/search?q=...&filter=...&preset=...
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}

	f, err := h.resolveFilter(c)
	if err != nil {
		return err
	}

	results, err := h.catalog.Search(c.Request().Context(), query)
	if err != nil {
		return catalogError(err, "series not found")
	}

	views, err := output.NewSearchResultViews(results)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	if f != nil {
		views, err = filter.Select(c.Request().Context(), h.evaluator, f, views, filter.SearchResultRecord)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, views)
}

// GetSeries gets a series by id, with every episode when full=true.
// GET /api/series/:id?full=true
func (h *Handlers) GetSeries(c echo.Context) error {
	full, err := parseBool(c.QueryParam("full"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid full parameter")
	}

	series, err := h.catalog.GetSeriesByID(c.Request().Context(), c.Param("id"), full)
	if err != nil {
		return catalogError(err, "series not found")
	}

	view, err := output.NewSeriesView(series)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, view)
}

// ListEpisodes lists every episode of a series, optionally filtered.
// GET /api/series/:id/episodes?filter=...&preset=...
func (h *Handlers) ListEpisodes(c echo.Context) error {
	f, err := h.resolveFilter(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	series, err := h.catalog.GetSeriesByID(ctx, c.Param("id"), true)
	if err != nil {
		return catalogError(err, "series not found")
	}

	seasons, err := series.Seasons(ctx)
	if err != nil {
		return catalogError(err, "series not found")
	}

	views, err := output.NewEpisodeViews(seasons.Episodes())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	if f != nil {
		views, err = filter.Select(ctx, h.evaluator, f, views, filter.EpisodeRecord)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, views)
}

// GetSeriesEpisode gets one episode by its position in a series.
// GET /api/series/:id/episodes/:season/:number
func (h *Handlers) GetSeriesEpisode(c echo.Context) error {
	season, err := strconv.Atoi(c.Param("season"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid season")
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid episode number")
	}

	episode, err := h.catalog.GetEpisode(c.Request().Context(), c.Param("id"), season, number)
	if err != nil {
		return catalogError(err, "episode not found")
	}

	return h.episodeJSON(c, episode)
}

// GetEpisode gets an episode by its own id.
// GET /api/episodes/:id
func (h *Handlers) GetEpisode(c echo.Context) error {
	episode, err := h.catalog.GetEpisodeByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return catalogError(err, "episode not found")
	}

	return h.episodeJSON(c, episode)
}

func (h *Handlers) episodeJSON(c echo.Context, episode *tvdb.Episode) error {
	view, err := output.NewEpisodeView(episode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handlers) resolveFilter(c echo.Context) (filter.CompiledFilter, error) {
	f, err := h.filters.Resolve(c.QueryParam("filter"), c.QueryParam("preset"), "")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return f, nil
}

// catalogError maps client errors onto HTTP statuses.
func catalogError(err error, notFound string) error {
	var respErr *tvdb.ResponseError
	switch {
	case errors.Is(err, tvdb.ErrAPIKeyRequired):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "TVDB API key not configured")
	case errors.Is(err, tvdb.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.As(err, &respErr) && respErr.IsNotFound():
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(499, "request canceled")
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error()).SetInternal(err)
	}
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
