package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the browser configuration. Flags take their defaults from the
// zero value; a config file fills only the fields the flags left empty, so
// explicit flags win over the file.
type Config struct {
	ConfigFile     string
	Interface      string
	Domain         string
	ResolveTimeout time.Duration
	TraceFile      string
	LogLevel       string
	BrowseType     string
	Interactive    bool
}

// fileConfig is the YAML shape of a configuration file.
type fileConfig struct {
	Interface      string `yaml:"interface"`
	Domain         string `yaml:"domain"`
	ResolveTimeout string `yaml:"resolve_timeout"`
	TraceFile      string `yaml:"trace_file"`
	LogLevel       string `yaml:"log_level"`
	Browse         string `yaml:"browse"`
}

// loadConfigFile reads path and merges it into cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Interface == "" {
		cfg.Interface = fc.Interface
	}
	if cfg.Domain == "" {
		cfg.Domain = fc.Domain
	}
	if cfg.ResolveTimeout == 0 && fc.ResolveTimeout != "" {
		d, err := time.ParseDuration(fc.ResolveTimeout)
		if err != nil {
			return fmt.Errorf("invalid resolve_timeout %q: %w", fc.ResolveTimeout, err)
		}
		cfg.ResolveTimeout = d
	}
	if cfg.TraceFile == "" {
		cfg.TraceFile = fc.TraceFile
	}
	if cfg.LogLevel == "" || cfg.LogLevel == "info" {
		if fc.LogLevel != "" {
			cfg.LogLevel = fc.LogLevel
		}
	}
	if cfg.BrowseType == "" {
		cfg.BrowseType = fc.Browse
	}
	return nil
}
