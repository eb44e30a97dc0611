package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile reads a settings file, picking the decoder from the
// extension (.yaml, .yml, or .json).
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML decodes YAML settings.
func FromYAML(data []byte) (Config, error) {
	return decode(data, yaml.Unmarshal, "yaml")
}

// FromJSON decodes JSON settings.
func FromJSON(data []byte) (Config, error) {
	return decode(data, json.Unmarshal, "json")
}

func decode(data []byte, unmarshal func([]byte, any) error, format string) (Config, error) {
	var m map[string]any
	if err := unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", format, err)
	}
	return New(m), nil
}
