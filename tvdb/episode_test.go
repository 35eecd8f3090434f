package tvdb

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeSeriesResolvesOnce(t *testing.T) {
	resolver := &fakeResolver{}
	resolver.series = boundSeries(t, seriesXML, resolver)
	episode := boundEpisodes(t, episodeXML, resolver)[0]
	ctx := context.Background()

	first, err := episode.Series(ctx)
	require.NoError(t, err)
	second, err := episode.Series(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, resolver.seriesCalls)
	// A directly fetched episode does not become part of the series mapping.
	assert.False(t, first.EpisodesLoaded())
}

func TestEpisodeSeriesWithoutSeriesID(t *testing.T) {
	resolver := &fakeResolver{}
	doc := `<Data><Episode><id>332484</id><SeasonNumber>1</SeasonNumber><EpisodeNumber>1</EpisodeNumber></Episode></Data>`
	episode := boundEpisodes(t, doc, resolver)[0]
	require.Empty(t, episode.SeriesID)

	_, err := episode.Series(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, resolver.seriesCalls)
}

func TestEpisodeWithoutResolver(t *testing.T) {
	episodes, err := ParseEpisodes(strings.NewReader(episodeXML))
	require.NoError(t, err)
	require.Len(t, episodes, 1)

	_, err = episodes[0].Series(context.Background())
	assert.ErrorIs(t, err, ErrClientNotAvailable)
}

func TestFirstAired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		absent  bool
		wantErr bool
	}{
		{
			name:  "valid date",
			value: "<FirstAired>2011-09-20</FirstAired>",
			want:  time.Date(2011, time.September, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "missing element",
			value:  "",
			absent: true,
		},
		{
			name:   "empty element",
			value:  "<FirstAired></FirstAired>",
			absent: true,
		},
		{
			name:    "malformed date",
			value:   "<FirstAired>not-a-date</FirstAired>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "<Data><Episode><id>1</id>" + tt.value + "</Episode></Data>"
			episodes, err := ParseEpisodes(strings.NewReader(doc))
			require.NoError(t, err)

			aired, err := episodes[0].FirstAired()
			if tt.wantErr {
				var parseErr *time.ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			if tt.absent {
				assert.True(t, aired.IsAbsent())
				return
			}
			assert.Equal(t, tt.want, aired.MustGet())
		})
	}
}

func TestEpisodeCode(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "both numbers",
			doc:  "<SeasonNumber>3</SeasonNumber><EpisodeNumber>12</EpisodeNumber>",
			want: "S03E12",
		},
		{
			name: "missing season",
			doc:  "<EpisodeNumber>12</EpisodeNumber>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			episodes, err := ParseEpisodes(strings.NewReader("<Data><Episode>" + tt.doc + "</Episode></Data>"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, episodes[0].Code())
		})
	}
}

func TestInvalidSeasonNumber(t *testing.T) {
	_, err := ParseEpisodes(strings.NewReader("<Data><Episode><SeasonNumber>x</SeasonNumber></Episode></Data>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SeasonNumber")
}
