package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s, err := ParseSettings("")
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), *s)
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings(`
[echelon]
bind = "127.0.0.1:9000"
cutoff = 128
maxRows = 100
cacheSize = 0

[metrics]
bind = ""

[log]
level = "debug"
`)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", s.Echelon.Bind)
	require.Equal(t, 128, s.Echelon.Cutoff)
	require.Equal(t, 100, s.Echelon.MaxRows)
	require.Equal(t, DefaultMaxCols, s.Echelon.MaxCols)
	require.Equal(t, 0, s.Echelon.CacheSize)
	require.Equal(t, "", s.Metrics.Bind)
	require.Equal(t, DefaultMetricsPath, s.Metrics.Path)
	require.Equal(t, "debug", s.Log.Level)
}

func TestParseSettingsRejects(t *testing.T) {
	for _, doc := range []string{
		"[echelon]\ncutoff = -1",
		"[echelon]\nmaxRows = 0",
		"[echelon]\ncacheSize = -3",
		"[echelon]\nmaxFrameSize = 0",
		"[echelon]\nworkers = 4",
		"[echelon\n",
	} {
		_, err := ParseSettings(doc)
		require.Error(t, err, doc)
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echelond.toml")
	require.NoError(t, os.WriteFile(path, []byte("[echelon]\nmaxCols = 7\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, 7, s.Echelon.MaxCols)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
