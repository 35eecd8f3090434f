// Package export writes series records to a directory tree of YAML files.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

const (
	seriesFile = "series.yaml"
	dirPerm    = 0o755
	filePerm   = 0o644
)

// ErrInvalidSeriesID indicates a series id that is not a single path element
var ErrInvalidSeriesID = errors.New("invalid series id for export")

// Exporter writes series and their episodes onto a filesystem
type Exporter struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewExporter creates an exporter over fs. Pass afero.NewOsFs() for disk.
func NewExporter(fs afero.Fs, logger zerolog.Logger) *Exporter {
	return &Exporter{
		fs:     fs,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// ExportSeries writes <dir>/<id>/series.yaml and one
// <dir>/<id>/season-NN/episode-NN.yaml per episode, loading the seasons
// when they are not loaded yet. It returns the written paths in order.
func (e *Exporter) ExportSeries(ctx context.Context, series *tvdb.Series, dir string) ([]string, error) {
	if err := validateSeriesID(series.ID); err != nil {
		return nil, err
	}

	seasons, err := series.Seasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes for series %s: %w", series.ID, err)
	}

	view, err := output.NewSeriesView(series)
	if err != nil {
		return nil, err
	}
	// Episodes live in their own files
	view.Seasons = nil

	root := filepath.Join(dir, series.ID)
	written := make([]string, 0, seasons.Len()+1)

	path := filepath.Join(root, seriesFile)
	if err := e.writeYAML(path, view); err != nil {
		return nil, err
	}
	written = append(written, path)

	for _, episode := range seasons.Episodes() {
		ev, err := output.NewEpisodeView(episode)
		if err != nil {
			return written, err
		}
		path := filepath.Join(root, fmt.Sprintf("season-%02d", ev.Season), fmt.Sprintf("episode-%02d.yaml", ev.Number))
		if err := e.writeYAML(path, ev); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	e.logger.Info().
		Str("series_id", series.ID).
		Str("dir", root).
		Int("files", len(written)).
		Msg("Series exported")

	return written, nil
}

func (e *Exporter) writeYAML(path string, v any) error {
	if err := e.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := afero.WriteFile(e.fs, path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	e.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Wrote file")
	return nil
}

// validateSeriesID rejects ids that would escape or collapse into dir
func validateSeriesID(id string) error {
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSeriesID, id)
	}
	return nil
}
