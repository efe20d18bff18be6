// Package config carries command-line configuration for tabparse.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input   string `yaml:"input"`   // source file
	Output  string `yaml:"output"`  // destination file (conversion mode)
	Format  string `yaml:"format"`  // format tag (parse mode)
	Verbose bool   `yaml:"verbose"` // debug logging
}

// ParseFlags builds the configuration from command-line flags, optionally
// seeded from a YAML file given with -config. Flags set explicitly on the
// command line override file values.
func ParseFlags() (*Config, error) {
	cfg := &Config{}
	var configPath string

	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.StringVar(&cfg.Input, "in", "", "source file")
	flag.StringVar(&cfg.Output, "out", "", "destination file (conversion mode)")
	flag.StringVar(&cfg.Format, "format", "", "format tag: csv, psv, excel, csv_to_excel")
	flag.BoolVar(&cfg.Verbose, "v", false, "enable debug logging")

	flag.Parse()

	if configPath != "" {
		fileCfg, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["in"] {
			cfg.Input = fileCfg.Input
		}
		if !set["out"] {
			cfg.Output = fileCfg.Output
		}
		if !set["format"] {
			cfg.Format = fileCfg.Format
		}
		if !set["v"] {
			cfg.Verbose = fileCfg.Verbose
		}
	}

	if cfg.Input == "" {
		return nil, fmt.Errorf("source file must be supplied with -in")
	}
	if cfg.Format == "" && cfg.Output == "" {
		return nil, fmt.Errorf("either -format (parse mode) or -out (conversion mode) must be supplied")
	}

	cfg.Input = filepath.Clean(cfg.Input)
	if cfg.Output != "" {
		cfg.Output = filepath.Clean(cfg.Output)
	}

	return cfg, nil
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
