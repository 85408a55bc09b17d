package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/streamview/pkg/settings"
)

// FileName is the config file name looked up under the user config dir.
const FileName = "config.yaml"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded default config. It is the single source of
// default settings and colors.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		embeddedConfig, embeddedConfigErr = Decode(embeddedDefaultConfig)
		if embeddedConfigErr != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", embeddedConfigErr)
		}
	})
	return clone(embeddedConfig), embeddedConfigErr
}

// Decode parses YAML config. Unknown keys are rejected. An empty document
// yields a zero Config.
func Decode(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load merges the config file at path over the embedded defaults. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	fileCfg, err := Decode(data)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.Merge(fileCfg), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/streamview/config.yaml, falling back
// to ~/.config/streamview/config.yaml. It returns "" when neither base
// directory is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, settings.CliBinaryName, FileName)
}

// Resolve picks the config file to load: an explicit path always wins, and
// the default path is used only when it exists as a regular file.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	p := DefaultPath()
	if p == "" {
		return ""
	}
	if st, err := os.Stat(p); err == nil && !st.IsDir() {
		return p
	}
	return ""
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clone(c Config) Config {
	out := Config{Theme: c.Theme}
	return out.Merge(Config{Display: DisplayConfig{
		MaxWidth:          copyPtr(c.Display.MaxWidth),
		Border:            copyPtr(c.Display.Border),
		NoColor:           copyPtr(c.Display.NoColor),
		AllowUnknownTypes: copyPtr(c.Display.AllowUnknownTypes),
		Output:            copyPtr(c.Display.Output),
	}})
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
