// internal/config/config.go
package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

const (
	DefaultTemplatePath = "./template.html"
	DefaultOutputPath   = "./core2300.html"
)

type Config struct {
	CollectionPath string `yaml:"collection_path"`
	DeckID         string `yaml:"deck_id"`
	DeckName       string `yaml:"deck_name"`
	TemplatePath   string `yaml:"template_path"`
	OutputPath     string `yaml:"output_path"`
	AnkiConnect    bool   `yaml:"anki_connect"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.TemplatePath == "" {
		cfg.TemplatePath = DefaultTemplatePath
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}

	return &cfg, nil
}

// Default is the configuration of a run without a config file. The
// collection path and deck id still have to arrive via flags.
func Default() *Config {
	return &Config{
		TemplatePath: DefaultTemplatePath,
		OutputPath:   DefaultOutputPath,
	}
}
