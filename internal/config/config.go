package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"

	"mermaid-live/internal/render"
)

// DefaultPath is where the editor looks for its config file.
const DefaultPath = ".mermaid-live.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: MERMAID_LIVE_EDITOR__DEBOUNCE_MS -> editor.debounce_ms.
const EnvPrefix = "MERMAID_LIVE_"

// Config is the top-level editor configuration.
type Config struct {
	Renderer    RendererConfig `yaml:"renderer" koanf:"renderer"`
	Editor      EditorConfig   `yaml:"editor" koanf:"editor"`
	Export      ExportConfig   `yaml:"export" koanf:"export"`
	PreviewFile string         `yaml:"preview_file" koanf:"preview_file"`
	Log         LogConfig      `yaml:"log" koanf:"log"`
}

// RendererConfig selects the external diagram renderer.
type RendererConfig struct {
	Backend    string `yaml:"backend" koanf:"backend"` // "cli" | "http"
	Command    string `yaml:"command" koanf:"command"`
	URL        string `yaml:"url" koanf:"url"`
	Theme      string `yaml:"theme" koanf:"theme"`
	Background string `yaml:"background" koanf:"background"`
	ConfigFile string `yaml:"config_file" koanf:"config_file"`
	TimeoutMS  int    `yaml:"timeout_ms" koanf:"timeout_ms"`
}

// EditorConfig holds the edit-loop timings.
type EditorConfig struct {
	DebounceMS  int `yaml:"debounce_ms" koanf:"debounce_ms"`
	StatusTTLMS int `yaml:"status_ttl_ms" koanf:"status_ttl_ms"`
}

// ExportConfig controls where exports land.
type ExportConfig struct {
	Dir   string  `yaml:"dir" koanf:"dir"`
	Scale float64 `yaml:"scale" koanf:"scale"`
}

// LogConfig controls the log file. The TUI owns the terminal, so logs never
// go to stdout while editing.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
}

// Load reads configuration from the given YAML file, then overlays
// MERMAID_LIVE_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[string]bool{
	render.BackendCLI:  true,
	render.BackendHTTP: true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if !validBackends[c.Renderer.Backend] {
		return fmt.Errorf("invalid renderer.backend %q: must be one of cli, http", c.Renderer.Backend)
	}
	if c.Renderer.Backend == render.BackendCLI && c.Renderer.Command == "" {
		return fmt.Errorf("renderer.command is required for the cli backend")
	}
	if c.Renderer.TimeoutMS < 0 {
		return fmt.Errorf("renderer.timeout_ms must be non-negative")
	}
	if c.Editor.DebounceMS <= 0 {
		return fmt.Errorf("editor.debounce_ms must be positive")
	}
	if c.Editor.StatusTTLMS <= 0 {
		return fmt.Errorf("editor.status_ttl_ms must be positive")
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("export.scale must be positive")
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log.level: %w", err)
		}
	}
	return nil
}

// RenderOptions converts the renderer section for render.New.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Backend:    c.Renderer.Backend,
		Command:    c.Renderer.Command,
		URL:        c.Renderer.URL,
		Theme:      c.Renderer.Theme,
		Background: c.Renderer.Background,
		ConfigFile: c.Renderer.ConfigFile,
		Timeout:    ms(c.Renderer.TimeoutMS),
	}
}

func (c *Config) Debounce() time.Duration  { return ms(c.Editor.DebounceMS) }
func (c *Config) StatusTTL() time.Duration { return ms(c.Editor.StatusTTLMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
