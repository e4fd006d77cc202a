package main

import (
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// config holds the default histogram geometry, overridable per-invocation
// by the record command's flags. It is loaded from a YAML file so the
// same geometry can be reused across invocations without re-typing flags
// every time.
type config struct {
	LowestTrackableValue  int64 `yaml:"lowestTrackableValue"`
	HighestTrackableValue int64 `yaml:"highestTrackableValue"`
	SignificantFigures    int   `yaml:"significantFigures"`
}

func defaultConfig() config {
	return config{
		LowestTrackableValue:  1,
		HighestTrackableValue: 3_600_000_000,
		SignificantFigures:    3,
	}
}

// loadConfig reads a YAML config file through the afero filesystem
// abstraction, falling back to defaultConfig when path is empty.
func loadConfig(fs afero.Fs, path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
