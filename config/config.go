// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads experiment configuration from YAML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emer/dacolumn/column"
	"github.com/emer/dacolumn/stim"
	"gopkg.in/yaml.v3"
)

// Config contains all settings of a training experiment
type Config struct {
	// Seed seeds the network of a single run; the seeds command runs
	// Seed, Seed+1, ...
	Seed uint64 `yaml:"seed"`

	Column column.Config      `yaml:"column"`
	Train  column.TrainParams `yaml:"train"`
	Data   DataConfig         `yaml:"data"`

	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
}

// DataConfig gives the training samples, either listed or generated
type DataConfig struct {
	// Samples are patterns of 0 / 1 characters with their labels.
	Samples []SampleConfig `yaml:"samples"`

	// NSamples and Dim size the balanced two-prototype set used when
	// Samples is empty.
	NSamples int `yaml:"n_samples"`
	Dim      int `yaml:"dim"`
}

// SampleConfig is one labeled pattern, e.g. {pattern: "0110", label: 1}
type SampleConfig struct {
	Pattern string `yaml:"pattern"`
	Label   int    `yaml:"label"`
}

// LoggingConfig configures the run log
type LoggingConfig struct {
	// Level is "info" (default), "debug" or "trace" (every trial).
	Level string `yaml:"level"`

	// Trace, if set, is a file receiving a JSON line per trial and outcome.
	Trace string `yaml:"trace"`
}

// StoreConfig selects where outcomes are saved
type StoreConfig struct {
	// Driver is "memory" (default) or "sqlite".
	Driver string `yaml:"driver"`

	// Path is the sqlite database file.
	Path string `yaml:"path"`
}

// Default returns a Config with the default column, training schedule and
// a 16-sample, 8-bit balanced data set
func Default() *Config {
	cf := &Config{Seed: 1}
	cf.Column.Defaults()
	cf.Column.NScale = 0.1
	cf.Train.Defaults()
	cf.Data.NSamples = 16
	cf.Data.Dim = 8
	cf.Logging.Level = "info"
	cf.Store.Driver = "memory"
	return cf
}

// Load returns the defaults, overridden by the YAML file at path (if path
// is not empty) and then by environment variables
func Load(path string) (*Config, error) {
	cf := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cf); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := applyEnvOverrides(cf); err != nil {
		return nil, err
	}
	return cf, nil
}

// applyEnvOverrides applies DACOL_SEED, DACOL_LOG_LEVEL and DACOL_DB
// (a sqlite path, selecting the sqlite driver)
func applyEnvOverrides(cf *Config) error {
	if v := os.Getenv("DACOL_SEED"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DACOL_SEED: %w", err)
		}
		cf.Seed = s
	}
	if v := os.Getenv("DACOL_LOG_LEVEL"); v != "" {
		cf.Logging.Level = v
	}
	if v := os.Getenv("DACOL_DB"); v != "" {
		cf.Store.Driver = "sqlite"
		cf.Store.Path = v
	}
	return nil
}

// Validate checks that the configuration is usable
func (cf *Config) Validate() error {
	if err := cf.Column.Validate(); err != nil {
		return err
	}
	if err := cf.Train.Validate(); err != nil {
		return err
	}
	if len(cf.Data.Samples) == 0 && (cf.Data.NSamples < 1 || cf.Data.Dim < 1) {
		return fmt.Errorf("data: no samples, and n_samples %d / dim %d cannot generate any", cf.Data.NSamples, cf.Data.Dim)
	}
	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[strings.ToLower(cf.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", cf.Logging.Level)
	}
	switch cf.Store.Driver {
	case "", "memory":
	case "sqlite":
		if cf.Store.Path == "" {
			return fmt.Errorf("store: sqlite driver needs a path")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (valid: memory, sqlite)", cf.Store.Driver)
	}
	return nil
}

// Samples returns the configured samples, or the generated balanced set
func (cf *Config) Samples() ([]stim.Sample, error) {
	if len(cf.Data.Samples) == 0 {
		return stim.Balanced(cf.Data.NSamples, cf.Data.Dim), nil
	}
	sms := make([]stim.Sample, len(cf.Data.Samples))
	for i, sc := range cf.Data.Samples {
		sm, err := stim.ParseSample(sc.Pattern, sc.Label)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		sms[i] = sm
	}
	if _, err := stim.Dim(sms); err != nil {
		return nil, err
	}
	return sms, nil
}

// Anatomy returns the layer 2/3 anatomy scaled by Column.NScale
func (cf *Config) Anatomy() (*column.Anatomy, error) {
	return column.Layer23(column.FullColumn(), cf.Column.NScale)
}
