// Package config loads the optional folio.yaml site configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const FileName = "folio.yaml"

// Config represents folio.yaml.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Render  RenderConfig  `yaml:"render"`
	Server  ServerConfig  `yaml:"server"`
}

type SiteConfig struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	// Home is the slug "/" redirects to. Defaults to the first page.
	Home string `yaml:"home,omitempty"`
}

type ContentConfig struct {
	Dir    string `yaml:"dir,omitempty"`
	Drafts bool   `yaml:"drafts,omitempty"`
}

type RenderConfig struct {
	HighlightStyle string `yaml:"highlight_style,omitempty"`
	MaxDepth       int    `yaml:"max_depth,omitempty"`
	// Props are ambient props every page renders with.
	Props map[string]any `yaml:"props,omitempty"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr,omitempty"`
	RenderTimeout string `yaml:"render_timeout,omitempty"`
}

func Default() *Config {
	return &Config{
		Site:    SiteConfig{Title: "Documentation"},
		Content: ContentConfig{Dir: "content"},
		Render:  RenderConfig{HighlightStyle: "github"},
		Server:  ServerConfig{Addr: ":8080", RenderTimeout: "10s"},
	}
}

// LoadOptional reads path if present; a missing file yields Default.
// Relative content dirs are resolved against the config file's directory.
func LoadOptional(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	if !filepath.IsAbs(cfg.Content.Dir) {
		cfg.Content.Dir = filepath.Join(filepath.Dir(path), cfg.Content.Dir)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.Content.Dir = strings.TrimSpace(c.Content.Dir)
	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir cannot be empty")
	}
	if c.Render.MaxDepth < 0 {
		return fmt.Errorf("render.max_depth cannot be negative")
	}
	return nil
}
