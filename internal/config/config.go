// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

// Package config loads the configuration of the pollwatch command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/olandr/pollwatch"
)

// Config is the YAML configuration of the pollwatch command.
type Config struct {
	Root       string        `yaml:"root" validate:"required"`
	Depth      string        `yaml:"depth" validate:"oneof=shallow recursive"`
	Delay      time.Duration `yaml:"delay" validate:"min=1ms"`
	CreateBase bool          `yaml:"create_base"`
	Logger     Logger        `yaml:"logger"`
	Metrics    Metrics       `yaml:"metrics"`
}

type Logger struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json logfmt"`
}

type Metrics struct {
	// Addr is the listen address of the /metrics and /healthz endpoints.
	// Empty disables the server.
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used for every field missing from the
// file.
func Default() *Config {
	return &Config{
		Depth: pollwatch.Shallow.String(),
		Delay: pollwatch.DefaultDelay,
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of Default and applies the
// POLLWATCH_ROOT and POLLWATCH_DELAY environment overrides. An empty path
// skips the file. The result is not validated, so that command line flags
// can still be applied; call Validate afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if root := os.Getenv("POLLWATCH_ROOT"); root != "" {
		cfg.Root = root
	}
	if s := os.Getenv("POLLWATCH_DELAY"); s != "" {
		delay, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("POLLWATCH_DELAY: %w", err)
		}
		cfg.Delay = delay
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Options translates the configuration into watcher options.
func (c *Config) Options() pollwatch.Options {
	options := pollwatch.DefaultOptions()
	options.CreateBase = c.CreateBase
	options.Delay = c.Delay
	if c.Depth == pollwatch.Recursive.String() {
		options.Depth = pollwatch.Recursive
	}
	return options
}
