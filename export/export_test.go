package export

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

const fullRecord = `<Data>
<Series><id>80379</id><SeriesName>The Big Bang Theory</SeriesName><Status>Ended</Status></Series>
<Episode><id>332484</id><seriesid>80379</seriesid><SeasonNumber>1</SeasonNumber><EpisodeNumber>1</EpisodeNumber><EpisodeName>Pilot</EpisodeName><FirstAired>2007-09-24</FirstAired></Episode>
<Episode><id>332487</id><seriesid>80379</seriesid><SeasonNumber>1</SeasonNumber><EpisodeNumber>2</EpisodeNumber><EpisodeName>The Big Bran Hypothesis</EpisodeName></Episode>
<Episode><id>383721</id><seriesid>80379</seriesid><SeasonNumber>2</SeasonNumber><EpisodeNumber>1</EpisodeNumber><EpisodeName>The Bad Fish Paradigm</EpisodeName></Episode>
</Data>`

func TestExportSeries(t *testing.T) {
	series, err := tvdb.ParseFullRecord(strings.NewReader(fullRecord))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	exporter := NewExporter(fs, zerolog.Nop())

	written, err := exporter.ExportSeries(context.Background(), series, "out")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("out", "80379", "series.yaml"),
		filepath.Join("out", "80379", "season-01", "episode-01.yaml"),
		filepath.Join("out", "80379", "season-01", "episode-02.yaml"),
		filepath.Join("out", "80379", "season-02", "episode-01.yaml"),
	}, written)

	data, err := afero.ReadFile(fs, written[0])
	require.NoError(t, err)
	var seriesView output.SeriesView
	require.NoError(t, yaml.Unmarshal(data, &seriesView))
	assert.Equal(t, "The Big Bang Theory", seriesView.Name)
	assert.Equal(t, "Ended", seriesView.Status)
	assert.Empty(t, seriesView.Seasons)

	data, err = afero.ReadFile(fs, written[1])
	require.NoError(t, err)
	var episodeView output.EpisodeView
	require.NoError(t, yaml.Unmarshal(data, &episodeView))
	assert.Equal(t, "Pilot", episodeView.Name)
	assert.Equal(t, "S01E01", episodeView.Code)
	assert.Equal(t, 2007, episodeView.FirstAired.Year())
}

func TestExportSeriesWithoutClient(t *testing.T) {
	series, err := tvdb.ParseSeries(strings.NewReader(fullRecord))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	_, err = NewExporter(fs, zerolog.Nop()).ExportSeries(context.Background(), series, "out")
	assert.ErrorIs(t, err, tvdb.ErrClientNotAvailable)

	exists, err := afero.DirExists(fs, "out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExportReadOnlyFs(t *testing.T) {
	series, err := tvdb.ParseFullRecord(strings.NewReader(fullRecord))
	require.NoError(t, err)

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err = NewExporter(fs, zerolog.Nop()).ExportSeries(context.Background(), series, "out")
	assert.Error(t, err)
}

func TestExportRejectsUnsafeSeriesID(t *testing.T) {
	episode := `<Episode><id>1</id><seriesid>1</seriesid><SeasonNumber>1</SeasonNumber><EpisodeNumber>1</EpisodeNumber></Episode>`

	tests := []struct {
		name   string
		series string
	}{
		{name: "parent traversal", series: `<Series><id>../../etc</id></Series>`},
		{name: "dot dot", series: `<Series><id>..</id></Series>`},
		{name: "dot", series: `<Series><id>.</id></Series>`},
		{name: "nested path", series: `<Series><id>80379/extra</id></Series>`},
		{name: "backslash", series: `<Series><id>..\evil</id></Series>`},
		{name: "empty id", series: `<Series><SeriesName>No id</SeriesName></Series>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := tvdb.ParseFullRecord(strings.NewReader("<Data>" + tt.series + episode + "</Data>"))
			require.NoError(t, err)

			fs := afero.NewMemMapFs()
			written, err := NewExporter(fs, zerolog.Nop()).ExportSeries(context.Background(), series, "/out/dir")
			assert.ErrorIs(t, err, ErrInvalidSeriesID)
			assert.Empty(t, written)

			for _, dir := range []string{"/out", "/etc", "/evil"} {
				exists, err := afero.DirExists(fs, dir)
				require.NoError(t, err)
				assert.False(t, exists, dir)
			}
		})
	}
}
