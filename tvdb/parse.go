package tvdb

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"gopkg.in/xmlpath.v2"
)

// Selectors for the top-level records of a response document.
var (
	seriesSelector  = xmlpath.MustCompile("/Data/Series")
	episodeSelector = xmlpath.MustCompile("/Data/Episode")
	rootSelector    = xmlpath.MustCompile("/*")
)

// errNoRootElement is returned for bodies that hold no XML element, such as
// an empty body or a plain text error page.
var errNoRootElement = errors.New("no root element")

// listSeparator delimits actors, genres and guest stars, e.g. "|Drama|Comedy|".
const listSeparator = "|"

// fieldPaths holds compiled child paths for every tag the entities read.
var fieldPaths = compileFieldPaths(
	"id", "IMDB_ID", "SeriesName", "Overview", "language", "Language",
	"FirstAired", "Network", "banner", "Runtime", "Status", "poster",
	"Actors", "Genre", "seriesid", "EpisodeNumber", "SeasonNumber",
	"EpisodeName", "GuestStars", "Director", "Writer", "filename",
)

func compileFieldPaths(tags ...string) map[string]*xmlpath.Path {
	paths := make(map[string]*xmlpath.Path, len(tags))
	for _, tag := range tags {
		paths[tag] = xmlpath.MustCompile(tag)
	}
	return paths
}

func fieldPath(tag string) *xmlpath.Path {
	if p, ok := fieldPaths[tag]; ok {
		return p
	}
	return xmlpath.MustCompile(tag)
}

// parseDocument reads an XML document into a tree.
func parseDocument(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	if !rootSelector.Exists(root) {
		return nil, fmt.Errorf("failed to parse XML: %w", errNoRootElement)
	}
	return root, nil
}

// selectNodes returns every node matching selector in document order.
func selectNodes(root *xmlpath.Node, selector *xmlpath.Path) []*xmlpath.Node {
	var nodes []*xmlpath.Node
	iter := selector.Iter(root)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes
}

// elemValue returns the trimmed text of the named child. Absent and empty
// children are both None.
func elemValue(node *xmlpath.Node, tag string) mo.Option[string] {
	value, ok := fieldPath(tag).String(node)
	if !ok {
		return mo.None[string]()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return mo.None[string]()
	}
	return mo.Some(value)
}

// elemInt casts the named child to an integer.
func elemInt(node *xmlpath.Node, tag string) (mo.Option[int], error) {
	raw, ok := elemValue(node, tag).Get()
	if !ok {
		return mo.None[int](), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return mo.None[int](), fmt.Errorf("invalid %s %q: %w", tag, raw, err)
	}
	return mo.Some(n), nil
}

// elemList splits the named child on the list separator. Never nil.
func elemList(node *xmlpath.Node, tag string) []string {
	raw, ok := elemValue(node, tag).Get()
	if !ok {
		return []string{}
	}
	items := lo.Map(strings.Split(raw, listSeparator), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	return lo.Compact(items)
}
