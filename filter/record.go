package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/tvdbarr/output"
)

// Record is the variable environment one evaluation runs against.
type Record struct {
	label string
	vars  map[string]any
}

// Label names the record in evaluation errors.
func (r Record) Label() string {
	return r.label
}

// EpisodeRecord exposes an episode to filter expressions.
func EpisodeRecord(e output.EpisodeView) Record {
	vars := map[string]any{
		"Episode":    e,
		"ID":         e.ID,
		"SeriesID":   e.SeriesID,
		"Season":     e.Season,
		"Number":     e.Number,
		"Code":       e.Code,
		"Name":       e.Name,
		"Overview":   e.Overview,
		"IMDbID":     e.IMDbID,
		"Director":   e.Director,
		"Writer":     e.Writer,
		"Language":   e.Language,
		"GuestStars": e.GuestStars,
		"FirstAired": e.FirstAired,
		"Image":      e.Image,

		"hasGuestStar": createHasNameFunc(e.GuestStars),
	}
	addAiredFuncs(vars, e.FirstAired)

	label := e.Code
	if label == "" {
		label = e.ID
	}
	return Record{label: label + " " + e.Name, vars: vars}
}

// SearchResultRecord exposes a search hit to filter expressions.
func SearchResultRecord(s output.SearchResultView) Record {
	vars := map[string]any{
		"Series":     s,
		"ID":         s.ID,
		"Name":       s.Name,
		"IMDbID":     s.IMDbID,
		"Overview":   s.Overview,
		"Language":   s.Language,
		"Network":    s.Network,
		"FirstAired": s.FirstAired,
		"Banner":     s.Banner,
	}
	addAiredFuncs(vars, s.FirstAired)
	return Record{label: s.Name, vars: vars}
}

// SeriesRecord exposes a full series, including genre and cast helpers.
func SeriesRecord(s output.SeriesView) Record {
	r := SearchResultRecord(s.SearchResultView)
	r.vars["Series"] = s
	r.vars["Runtime"] = s.Runtime
	r.vars["Status"] = s.Status
	r.vars["Actors"] = s.Actors
	r.vars["Genre"] = s.Genre
	r.vars["Poster"] = s.Poster
	r.vars["hasGenre"] = createHasNameFunc(s.Genre)
	r.vars["hasActor"] = createHasNameFunc(s.Actors)
	return r
}

func addAiredFuncs(vars map[string]any, aired time.Time) {
	vars["hasAired"] = func() bool {
		return !aired.IsZero() && !aired.After(time.Now())
	}
	vars["airedBefore"] = func(t time.Time) bool {
		return !aired.IsZero() && aired.Before(t)
	}
	vars["airedAfter"] = func(t time.Time) bool {
		return !aired.IsZero() && aired.After(t)
	}
}

func createHasNameFunc(names []string) func(string) bool {
	// Pre-convert to lowercase for case-insensitive comparison
	lowerNames := make([]string, len(names))
	for i, name := range names {
		lowerNames[i] = strings.ToLower(name)
	}
	return func(name string) bool {
		return slices.Contains(lowerNames, strings.ToLower(name))
	}
}
