package tvdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"gopkg.in/xmlpath.v2"
)

const (
	// DefaultBaseURL is the root of the XML API.
	DefaultBaseURL = "http://thetvdb.com/api/"
	// DefaultImageBaseURL is the root artwork paths resolve against.
	DefaultImageBaseURL = "http://thetvdb.com/banners/"

	// language is the record language requested and the zip member name.
	language = "en"
)

var defaultImageBase, _ = url.Parse(DefaultImageBaseURL)

// Client is a TheTVDB XML API client. It is safe for concurrent use; the
// entities it returns are not.
type Client struct {
	baseURL    *url.URL
	imageBase  *url.URL
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new TheTVDB client. An empty apiKey is allowed;
// only Search works without one.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	baseURL, err := parseBaseURL(options.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL: %v", ErrInvalidConfig, err)
	}
	imageBase, err := parseBaseURL(options.imageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: image base URL: %v", ErrInvalidConfig, err)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		imageBase:  imageBase,
		apiKey:     apiKey,
		userAgent:  options.userAgent,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "tvdb").Logger(),
	}, nil
}

// parseBaseURL requires an absolute URL and ensures a trailing slash so
// relative paths resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// ImageBaseURL returns the URL artwork paths resolve against.
func (c *Client) ImageBaseURL() string {
	return c.imageBase.String()
}

func (c *Client) env() entityEnv {
	return entityEnv{resolver: c, imageBase: c.imageBase}
}

// Search finds series by title. The result is never nil.
func (c *Client) Search(ctx context.Context, title string) ([]*SearchResult, error) {
	params := url.Values{}
	params.Set("seriesname", title)

	root, _, err := c.getXML(ctx, "GetSeries.php", params)
	if err != nil {
		return nil, err
	}

	results := parseSearchResults(root, c.env())

	c.logger.Debug().
		Str("title", title).
		Int("results", len(results)).
		Msg("Series search completed")

	return results, nil
}

// GetSeriesByID fetches a series. With fullRecord the zip-packaged record
// is used and every episode is attached.
func (c *Client) GetSeriesByID(ctx context.Context, id string, fullRecord bool) (*Series, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyRequired
	}

	if fullRecord {
		root, reqURL, err := c.getSeriesFullData(ctx, id)
		if err != nil {
			return nil, err
		}
		series, err := parseFullRecord(root, c.env())
		return series, c.wrapParseError(reqURL, err)
	}

	root, reqURL, err := c.getXML(ctx, c.keyPath("series", id, language+".xml"), nil)
	if err != nil {
		return nil, err
	}
	series, err := parseSeries(root, c.env())
	return series, c.wrapParseError(reqURL, err)
}

// GetEpisodeByID fetches one episode by its own id.
func (c *Client) GetEpisodeByID(ctx context.Context, id string) (*Episode, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyRequired
	}

	root, reqURL, err := c.getXML(ctx, c.keyPath("episodes", id, language+".xml"), nil)
	if err != nil {
		return nil, err
	}
	episode, err := parseEpisode(root, c.env())
	return episode, c.wrapParseError(reqURL, err)
}

// GetEpisode fetches one episode by series id, season and episode number.
func (c *Client) GetEpisode(ctx context.Context, seriesID string, season, number int) (*Episode, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyRequired
	}

	path := c.keyPath("series", seriesID, "default", strconv.Itoa(season), strconv.Itoa(number), language+".xml")
	root, reqURL, err := c.getXML(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	episode, err := parseEpisode(root, c.env())
	return episode, c.wrapParseError(reqURL, err)
}

// GetSeriesEpisodes fetches every episode of a series from the full record.
func (c *Client) GetSeriesEpisodes(ctx context.Context, seriesID string) ([]*Episode, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyRequired
	}

	root, reqURL, err := c.getSeriesFullData(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	episodes, err := parseEpisodes(root, c.env())
	if err != nil {
		return nil, c.wrapParseError(reqURL, err)
	}

	c.logger.Debug().
		Str("series_id", seriesID).
		Int("episodes", len(episodes)).
		Msg("Loaded series episodes")

	return episodes, nil
}

// keyPath builds a request path with the API key as its first segment.
func (c *Client) keyPath(segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, url.PathEscape(c.apiKey))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/")
}

// resolve joins an escaped relative path and query onto the base URL.
func (c *Client) resolve(path string, params url.Values) string {
	ref, err := url.Parse("./" + path)
	if err != nil {
		ref = &url.URL{Path: path}
	}
	if len(params) > 0 {
		ref.RawQuery = params.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

// wrapParseError turns a record-level parse failure into a response error.
// ErrNotFound passes through unchanged.
func (c *Client) wrapParseError(reqURL string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return &ResponseError{URL: c.redact(reqURL), Err: err}
}

// getSeriesFullData downloads the zip-packaged full record and parses its XML member.
func (c *Client) getSeriesFullData(ctx context.Context, seriesID string) (*xmlpath.Node, string, error) {
	reqURL := c.resolve(c.keyPath("series", seriesID, "all", language+".zip"), nil)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, reqURL, err
	}

	member, err := readZipMember(body, language+".xml")
	if err != nil {
		return nil, reqURL, &ResponseError{URL: c.redact(reqURL), Err: err}
	}

	root, err := parseDocument(bytes.NewReader(member))
	if err != nil {
		return nil, reqURL, &ResponseError{URL: c.redact(reqURL), Err: err}
	}
	return root, reqURL, nil
}

// getXML performs a GET expecting an XML document.
func (c *Client) getXML(ctx context.Context, path string, params url.Values) (*xmlpath.Node, string, error) {
	reqURL := c.resolve(path, params)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, reqURL, err
	}

	root, err := parseDocument(bytes.NewReader(body))
	if err != nil {
		return nil, reqURL, &ResponseError{URL: c.redact(reqURL), Err: err}
	}
	return root, reqURL, nil
}

// doRequest performs a GET and returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ResponseError{URL: c.redact(reqURL), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.redact(urlErr.URL)
		}
		c.logger.Error().Err(err).Str("url", c.redact(reqURL)).Msg("HTTP request failed")
		return nil, &ResponseError{URL: c.redact(reqURL), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ResponseError{URL: c.redact(reqURL), StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug().
		Str("url", c.redact(reqURL)).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("TVDB API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{
			URL:        c.redact(reqURL),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", http.StatusText(resp.StatusCode)),
		}
	}

	return body, nil
}

// redact hides the API key path segment in URLs that end up in logs and errors.
func (c *Client) redact(reqURL string) string {
	if c.apiKey == "" {
		return reqURL
	}
	return strings.ReplaceAll(reqURL, "/"+url.PathEscape(c.apiKey)+"/", "/<api-key>/")
}

// readZipMember extracts one named file from a zip archive held in memory.
func readZipMember(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("zip archive has no %s member", name)
}
