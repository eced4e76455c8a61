package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"impractical.co/recinject"
)

const defaultConfigPath = "recinject.yaml"

// Config is the CLI configuration, read from a YAML file and overridden by
// flags.
type Config struct {
	Addr           string        `yaml:"addr"`
	Root           string        `yaml:"root"`
	TemplatePath   string        `yaml:"template_path"`
	BaseURL        string        `yaml:"base_url"`
	MenuCloseDelay time.Duration `yaml:"menu_close_delay"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	LogLevel       string        `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return Config{
		Addr:           ":" + port,
		Root:           ".",
		TemplatePath:   recinject.DefaultTemplatePath,
		MenuCloseDelay: recinject.DefaultMenuCloseDelay,
		ProbeTimeout:   10 * time.Second,
		LogLevel:       os.Getenv("RECINJECT_LOGLEVEL"),
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// unless the path was asked for explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// site builds the recinject.Site the commands assemble pages with.
func (c Config) site() *recinject.StaticSite {
	return &recinject.StaticSite{
		Template:   c.TemplatePath,
		Client:     newHTTPClient(c.ProbeTimeout),
		CloseDelay: c.MenuCloseDelay,
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(
		slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{
				Level: lvl,
			},
		),
	)
}
