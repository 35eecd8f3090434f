package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tvdbarr/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf, false)

	l.Info().Msg("hidden")
	l.Warn().Str("component", "tvdb").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"component":"tvdb"`)
}

func TestConsoleWithoutTTYHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true}, &buf, false)

	l.Info().Msg("plain")
	assert.Contains(t, buf.String(), "plain")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvdbarr.log")
	var buf bytes.Buffer
	l := newLogger(config.LoggingConfig{Level: "info", Format: "console", File: path, MaxSizeMB: 1}, &buf, false)

	l.Info().Msg("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
	assert.Contains(t, buf.String(), "to file")
}
