package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// Settings are the survey defaults read from a YAML file. Unlike a
// process-wide cached singleton, a Settings value is constructed explicitly
// by the caller and reloaded only through Reload.
type Settings struct {
	path string
	mu   sync.RWMutex

	data SettingsData
}

// SettingsData is the on-disk shape of the settings file.
type SettingsData struct {
	Survey struct {
		// Default site order; order decides dedup survivor selection
		Sites []string `yaml:"sites"`

		// Per-site listing cap
		MaxListings int `yaml:"max_listings"`

		// Default ± tolerance for area filtering, in square meters
		AreaTolerance float64 `yaml:"area_tolerance"`
	} `yaml:"survey"`

	Output struct {
		Format string `yaml:"format"`
		Dir    string `yaml:"dir"`
	} `yaml:"output"`
}

// LoadSettings reads the settings file at path. A missing file yields the
// built-in defaults, so the file stays optional.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{path: path, data: defaultSettingsData()}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the settings file from disk.
func (s *Settings) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	data := defaultSettingsData()
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Data returns a copy of the current settings values.
func (s *Settings) Data() SettingsData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func defaultSettingsData() SettingsData {
	var data SettingsData
	data.Survey.Sites = []string{"homes", "suumo"}
	data.Survey.MaxListings = 50
	data.Survey.AreaTolerance = 10.0
	data.Output.Format = "csv"
	data.Output.Dir = "outputs"
	return data
}
