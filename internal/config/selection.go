package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quakemetrics/gmpe-select/internal/selection"
)

// LoadSelection reads and validates the selection configuration (tectonic
// regions and geographic override layers) from a YAML file. Decoding is
// strict: an unrecognized key anywhere in the document is a configuration
// error, raised before any probability computation can run.
func LoadSelection(path string) (selection.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return selection.Config{}, fmt.Errorf("read selection config: %w", err)
	}
	return ParseSelection(data)
}

// ParseSelection decodes and validates a selection configuration document.
func ParseSelection(data []byte) (selection.Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg selection.Config
	if err := dec.Decode(&cfg); err != nil {
		return selection.Config{}, fmt.Errorf("%w: %v", selection.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return selection.Config{}, err
	}
	return cfg, nil
}
