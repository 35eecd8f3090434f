package tvdb

import (
	"fmt"
	"io"

	"gopkg.in/xmlpath.v2"
)

// offlineEnv is used for entities parsed without a client; lazy
// resolution on them fails with ErrClientNotAvailable.
var offlineEnv = entityEnv{imageBase: defaultImageBase}

func parseSearchResults(root *xmlpath.Node, env entityEnv) []*SearchResult {
	nodes := selectNodes(root, seriesSelector)
	results := make([]*SearchResult, 0, len(nodes))
	for _, node := range nodes {
		results = append(results, newSearchResult(node, env))
	}
	return results
}

// parseSeries builds the first Series in the document.
func parseSeries(root *xmlpath.Node, env entityEnv) (*Series, error) {
	iter := seriesSelector.Iter(root)
	if !iter.Next() {
		return nil, ErrNotFound
	}
	return newSeries(iter.Node(), env), nil
}

// parseEpisode builds the first Episode in the document.
func parseEpisode(root *xmlpath.Node, env entityEnv) (*Episode, error) {
	iter := episodeSelector.Iter(root)
	if !iter.Next() {
		return nil, ErrNotFound
	}
	return newEpisode(iter.Node(), env)
}

func parseEpisodes(root *xmlpath.Node, env entityEnv) ([]*Episode, error) {
	nodes := selectNodes(root, episodeSelector)
	episodes := make([]*Episode, 0, len(nodes))
	for i, node := range nodes {
		episode, err := newEpisode(node, env)
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", i, err)
		}
		episodes = append(episodes, episode)
	}
	return episodes, nil
}

// parseFullRecord builds the Series of a full-record document and attaches
// every Episode element beside it.
func parseFullRecord(root *xmlpath.Node, env entityEnv) (*Series, error) {
	series, err := parseSeries(root, env)
	if err != nil {
		return nil, err
	}
	episodes, err := parseEpisodes(root, env)
	if err != nil {
		return nil, err
	}
	series.attachEpisodes(episodes)
	return series, nil
}

// ParseSearchResults decodes a search response without a client.
func ParseSearchResults(r io.Reader) ([]*SearchResult, error) {
	root, err := parseDocument(r)
	if err != nil {
		return nil, err
	}
	return parseSearchResults(root, offlineEnv), nil
}

// ParseSeries decodes the first series of a document without a client.
func ParseSeries(r io.Reader) (*Series, error) {
	root, err := parseDocument(r)
	if err != nil {
		return nil, err
	}
	return parseSeries(root, offlineEnv)
}

// ParseEpisodes decodes every episode of a document without a client.
func ParseEpisodes(r io.Reader) ([]*Episode, error) {
	root, err := parseDocument(r)
	if err != nil {
		return nil, err
	}
	return parseEpisodes(root, offlineEnv)
}

// ParseFullRecord decodes an unpacked full-record document (the en.xml
// member of the zip) into a Series with its seasons loaded.
func ParseFullRecord(r io.Reader) (*Series, error) {
	root, err := parseDocument(r)
	if err != nil {
		return nil, err
	}
	return parseFullRecord(root, offlineEnv)
}
