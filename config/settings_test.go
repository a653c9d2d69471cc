package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yml"))
	require.NoError(t, err)

	data := settings.Data()
	assert.Equal(t, []string{"homes", "suumo"}, data.Survey.Sites)
	assert.Equal(t, 50, data.Survey.MaxListings)
	assert.InDelta(t, 10.0, data.Survey.AreaTolerance, 1e-9)
	assert.Equal(t, "csv", data.Output.Format)
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	content := `
survey:
  sites: [suumo]
  max_listings: 20
  area_tolerance: 5.0
output:
  format: jsonl
  dir: exports
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	data := settings.Data()
	assert.Equal(t, []string{"suumo"}, data.Survey.Sites)
	assert.Equal(t, 20, data.Survey.MaxListings)
	assert.InDelta(t, 5.0, data.Survey.AreaTolerance, 1e-9)
	assert.Equal(t, "jsonl", data.Output.Format)
	assert.Equal(t, "exports", data.Output.Dir)
}

func TestSettingsReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("survey:\n  max_listings: 20\n"), 0644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 20, settings.Data().Survey.MaxListings)

	// The object only observes file changes on an explicit Reload.
	require.NoError(t, os.WriteFile(path, []byte("survey:\n  max_listings: 30\n"), 0644))
	assert.Equal(t, 20, settings.Data().Survey.MaxListings)

	require.NoError(t, settings.Reload())
	assert.Equal(t, 30, settings.Data().Survey.MaxListings)
}

func TestSettingsReloadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("survey:\n  max_listings: 20\n"), 0644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("survey: [unclosed"), 0644))
	assert.Error(t, settings.Reload())
	// Previous values survive a failed reload.
	assert.Equal(t, 20, settings.Data().Survey.MaxListings)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.HTTP.UserAgent)
	assert.Positive(t, cfg.HTTP.RequestInterval)
	assert.Positive(t, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "database/rentsurvey.db", cfg.Storage.DBPath)
	assert.Equal(t, 5260, cfg.Server.Port)
}
