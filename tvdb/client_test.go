package tvdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedResponse struct {
	status int
	body   []byte
}

// newTestServer serves canned bodies keyed by request path and counts hits.
func newTestServer(t *testing.T, routes map[string]cannedResponse) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		resp, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if resp.status != 0 {
			w.WriteHeader(resp.status)
		}
		w.Write(resp.body)
	}))
	t.Cleanup(server.Close)
	return server, hits
}

func newTestClient(t *testing.T, server *httptest.Server, apiKey string) *Client {
	t.Helper()

	client, err := NewClient(apiKey, zerolog.Nop(), WithBaseURL(server.URL+"/api"))
	require.NoError(t, err)
	return client
}

func xmlResponse(doc string) cannedResponse {
	return cannedResponse{body: []byte(doc)}
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
		wantURL string
	}{
		{
			name:    "defaults",
			wantURL: DefaultBaseURL,
		},
		{
			name:    "base URL without trailing slash",
			opts:    []Option{WithBaseURL("https://mirror.example.com/api")},
			wantURL: "https://mirror.example.com/api/",
		},
		{
			name:    "relative base URL",
			opts:    []Option{WithBaseURL("api/")},
			wantErr: true,
		},
		{
			name:    "relative image base URL",
			opts:    []Option{WithImageBaseURL("/banners")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(testAPIKey, logger, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, client.baseURL.String())
			assert.Equal(t, DefaultImageBaseURL, client.ImageBaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	httpClient := &http.Client{}
	client, err := NewClient("", zerolog.Nop(),
		WithHTTPClient(httpClient),
		WithImageBaseURL("https://images.example.com/art"),
		WithUserAgent("tvdbarr-test"),
	)
	require.NoError(t, err)

	assert.Same(t, httpClient, client.httpClient)
	assert.Equal(t, "https://images.example.com/art/", client.ImageBaseURL())
	assert.Equal(t, "tvdbarr-test", client.userAgent)
	assert.False(t, client.IsConfigured())
}

func TestSearch(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/GetSeries.php", r.URL.Path)
		gotQuery = r.URL.Query().Get("seriesname")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(searchXML))
	}))
	defer server.Close()

	// Search works without an API key.
	client := newTestClient(t, server, "")

	results, err := client.Search(context.Background(), "big bang & theory")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "big bang & theory", gotQuery)
	assert.Equal(t, "tvdbarr", gotAgent)

	first := results[0]
	assert.Equal(t, "80379", first.ID)
	assert.Equal(t, "The Big Bang Theory", first.Name.OrEmpty())
	assert.Equal(t, "tt0898266", first.IMDbID.OrEmpty())
	assert.Equal(t, "CBS", first.Network.OrEmpty())
	assert.Equal(t, "en", first.Language.OrEmpty())
	assert.Equal(t, "http://thetvdb.com/banners/graphical/80379-g13.jpg", first.Banner().OrEmpty())

	second := results[1]
	assert.Equal(t, "Arrow", second.Name.OrEmpty())
	assert.True(t, second.Network.IsAbsent())
	assert.True(t, second.Banner().IsAbsent())
}

func TestSearchNoResults(t *testing.T) {
	server, _ := newTestServer(t, map[string]cannedResponse{
		"/api/GetSeries.php": xmlResponse(`<?xml version="1.0" encoding="UTF-8" ?><Data></Data>`),
	})
	client := newTestClient(t, server, "")

	results, err := client.Search(context.Background(), "no such show")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchRejectsNonXMLBody(t *testing.T) {
	for _, body := range []string{"", "Service temporarily unavailable"} {
		t.Run(fmt.Sprintf("%q", body), func(t *testing.T) {
			server, _ := newTestServer(t, map[string]cannedResponse{
				"/api/GetSeries.php": xmlResponse(body),
			})
			client := newTestClient(t, server, "")

			results, err := client.Search(context.Background(), "lost")
			require.Error(t, err)
			assert.Nil(t, results)
			assert.ErrorIs(t, err, ErrAPIResponse)
			assert.ErrorIs(t, err, errNoRootElement)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestKeyGatedOperationsRequireAPIKey(t *testing.T) {
	server, hits := newTestServer(t, nil)
	client := newTestClient(t, server, "")
	ctx := context.Background()

	calls := map[string]func() error{
		"GetSeriesByID": func() error {
			_, err := client.GetSeriesByID(ctx, "80379", false)
			return err
		},
		"GetSeriesByID full": func() error {
			_, err := client.GetSeriesByID(ctx, "80379", true)
			return err
		},
		"GetEpisodeByID": func() error {
			_, err := client.GetEpisodeByID(ctx, "332484")
			return err
		},
		"GetEpisode": func() error {
			_, err := client.GetEpisode(ctx, "80379", 1, 1)
			return err
		},
		"GetSeriesEpisodes": func() error {
			_, err := client.GetSeriesEpisodes(ctx, "80379")
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrAPIKeyRequired)
		})
	}
	assert.Zero(t, hits.Load())
}

func TestGetSeriesByID(t *testing.T) {
	server, hits := newTestServer(t, map[string]cannedResponse{
		"/api/" + testAPIKey + "/series/80379/en.xml": xmlResponse(seriesXML),
	})
	client := newTestClient(t, server, testAPIKey)

	series, err := client.GetSeriesByID(context.Background(), "80379", false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	assert.Equal(t, "80379", series.ID)
	assert.Equal(t, "The Big Bang Theory", series.Name.OrEmpty())
	assert.Equal(t, "25", series.Runtime.OrEmpty())
	assert.Equal(t, "Continuing", series.Status.OrEmpty())
	assert.Equal(t, []string{"Johnny Galecki", "Jim Parsons", "Kaley Cuoco"}, series.Actors)
	assert.Equal(t, []string{"Comedy"}, series.Genre)
	assert.Equal(t, "http://thetvdb.com/banners/posters/80379-22.jpg", series.Poster().OrEmpty())
	assert.False(t, series.EpisodesLoaded())
}

func TestGetSeriesByIDFullRecord(t *testing.T) {
	server, hits := newTestServer(t, map[string]cannedResponse{
		"/api/" + testAPIKey + "/series/80379/all/en.zip": {body: zipped(t, "en.xml", fullRecordXML)},
	})
	client := newTestClient(t, server, testAPIKey)
	ctx := context.Background()

	series, err := client.GetSeriesByID(ctx, "80379", true)
	require.NoError(t, err)
	require.True(t, series.EpisodesLoaded())

	seasons, err := series.Seasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seasons.Numbers())
	assert.Equal(t, 4, seasons.Len())
	assert.Equal(t, "The Big Bran Hypothesis", seasons[1][2].Name.OrEmpty())

	owner, err := seasons[2][1].Series(ctx)
	require.NoError(t, err)
	assert.Same(t, series, owner)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetEpisodeByID(t *testing.T) {
	server, _ := newTestServer(t, map[string]cannedResponse{
		"/api/" + testAPIKey + "/episodes/332484/en.xml": xmlResponse(episodeXML),
	})
	client := newTestClient(t, server, testAPIKey)

	episode, err := client.GetEpisodeByID(context.Background(), "332484")
	require.NoError(t, err)

	assert.Equal(t, "332484", episode.ID)
	assert.Equal(t, "80379", episode.SeriesID)
	assert.Equal(t, "Pilot", episode.Name.OrEmpty())
	assert.Equal(t, 1, episode.Season.OrEmpty())
	assert.Equal(t, 1, episode.Number.OrEmpty())
	assert.Equal(t, "S01E01", episode.Code())
	assert.Equal(t, []string{"Vernee Watson-Johnson"}, episode.GuestStars)
	assert.Equal(t, "|Chuck Lorre|Bill Prady|", episode.Writer.OrEmpty())
	assert.True(t, episode.IMDbID.IsAbsent())
	assert.Equal(t, "http://thetvdb.com/banners/episodes/80379/332484.jpg", episode.Image().OrEmpty())
}

func TestGetEpisode(t *testing.T) {
	server, _ := newTestServer(t, map[string]cannedResponse{
		"/api/" + testAPIKey + "/series/80379/default/1/1/en.xml": xmlResponse(episodeXML),
	})
	client := newTestClient(t, server, testAPIKey)

	episode, err := client.GetEpisode(context.Background(), "80379", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "332484", episode.ID)
}

func TestGetSeriesEpisodes(t *testing.T) {
	server, _ := newTestServer(t, map[string]cannedResponse{
		"/api/" + testAPIKey + "/series/80379/all/en.zip": {body: zipped(t, "en.xml", fullRecordXML)},
	})
	client := newTestClient(t, server, testAPIKey)

	episodes, err := client.GetSeriesEpisodes(context.Background(), "80379")
	require.NoError(t, err)
	require.Len(t, episodes, 4)
	assert.Equal(t, "332484", episodes[0].ID)
	assert.Equal(t, "1287201", episodes[3].ID)
}

func TestResponseErrors(t *testing.T) {
	seriesPath := "/api/" + testAPIKey + "/series/80379/en.xml"
	zipPath := "/api/" + testAPIKey + "/series/80379/all/en.zip"

	tests := []struct {
		name       string
		routes     map[string]cannedResponse
		fullRecord bool
		wantStatus int
		wantNotRE  error
	}{
		{
			name:       "not found status",
			routes:     map[string]cannedResponse{},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			routes:     map[string]cannedResponse{seriesPath: {status: http.StatusInternalServerError}},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "malformed XML",
			routes: map[string]cannedResponse{seriesPath: xmlResponse("<Data><Series>")},
		},
		{
			name:       "zip without en.xml",
			routes:     map[string]cannedResponse{zipPath: {body: zipped(t, "de.xml", fullRecordXML)}},
			fullRecord: true,
		},
		{
			name:       "body is not a zip",
			routes:     map[string]cannedResponse{zipPath: xmlResponse(fullRecordXML)},
			fullRecord: true,
		},
		{
			name: "bad episode number",
			routes: map[string]cannedResponse{zipPath: {body: zipped(t, "en.xml",
				`<Data><Series><id>80379</id></Series><Episode><id>1</id><EpisodeNumber>one</EpisodeNumber></Episode></Data>`)}},
			fullRecord: true,
		},
		{
			name:   "empty body",
			routes: map[string]cannedResponse{seriesPath: xmlResponse("")},
		},
		{
			name:   "plain text body",
			routes: map[string]cannedResponse{seriesPath: xmlResponse("Service temporarily unavailable")},
		},
		{
			name:       "plain text in zip",
			routes:     map[string]cannedResponse{zipPath: {body: zipped(t, "en.xml", "maintenance")}},
			fullRecord: true,
		},
		{
			name:      "empty document",
			routes:    map[string]cannedResponse{seriesPath: xmlResponse("<Data></Data>")},
			wantNotRE: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.routes)
			client := newTestClient(t, server, testAPIKey)

			_, err := client.GetSeriesByID(context.Background(), "80379", tt.fullRecord)
			require.Error(t, err)

			if tt.wantNotRE != nil {
				assert.ErrorIs(t, err, tt.wantNotRE)
				assert.NotErrorIs(t, err, ErrAPIResponse)
				return
			}

			assert.ErrorIs(t, err, ErrAPIResponse)
			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, tt.wantStatus, respErr.StatusCode)
			assert.Equal(t, tt.wantStatus == http.StatusNotFound, respErr.IsNotFound())
			assert.NotContains(t, respErr.Error(), testAPIKey)
			assert.Contains(t, respErr.URL, "<api-key>")
		})
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newTestClient(t, server, testAPIKey)
	server.Close()

	_, err := client.GetEpisodeByID(context.Background(), "332484")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIResponse)
}

func TestContextCanceled(t *testing.T) {
	server, _ := newTestServer(t, map[string]cannedResponse{
		"/api/GetSeries.php": xmlResponse(searchXML),
	})
	client := newTestClient(t, server, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransportErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newTestClient(t, server, testAPIKey)
	server.Close()

	_, err := client.GetSeriesByID(context.Background(), "80379", false)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
}
