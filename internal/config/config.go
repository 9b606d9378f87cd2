package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flocksim/internal/constellation"
	"github.com/san-kum/flocksim/internal/flock"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "flocksim://config.schema.json"

type Config struct {
	// Width and Height of zero are filled in from the display at startup.
	Width   float64      `yaml:"width" toml:"width" json:"width"`
	Height  float64      `yaml:"height" toml:"height" json:"height"`
	Agents  int          `yaml:"agents" toml:"agents" json:"agents"`
	Seed    int64        `yaml:"seed" toml:"seed" json:"seed"`
	Mode    string       `yaml:"mode" toml:"mode" json:"mode"`
	Workers int          `yaml:"workers" toml:"workers" json:"workers"`
	Attract bool         `yaml:"attract" toml:"attract" json:"attract"`
	Targets string       `yaml:"targets,omitempty" toml:"targets,omitempty" json:"targets,omitempty"`
	Layout  LayoutConfig `yaml:"layout" toml:"layout" json:"layout"`
	Params  flock.Params `yaml:"params" toml:"params" json:"params"`
}

type LayoutConfig struct {
	Fill    float64 `yaml:"fill" toml:"fill" json:"fill"`
	Density int     `yaml:"density" toml:"density" json:"density"`
}

func DefaultConfig() *Config {
	lay := constellation.DefaultLayout()
	return &Config{
		Agents: flock.DefaultN,
		Mode:   flock.Snapshot.String(),
		Layout: LayoutConfig{Fill: lay.Fill, Density: lay.Density},
		Params: flock.DefaultParams(),
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks the semantic rules the schema cannot express.
func (c *Config) Validate() error {
	if c.Agents <= 0 {
		return fmt.Errorf("config: agents must be positive, got %d", c.Agents)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("config: world size must not be negative, got %gx%g", c.Width, c.Height)
	}
	if _, err := flock.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FlockConfig resolves the world for a display of the given size. Explicit
// Width and Height take precedence.
func (c *Config) FlockConfig(width, height float64) (flock.Config, error) {
	mode, err := flock.ParseMode(c.Mode)
	if err != nil {
		return flock.Config{}, err
	}
	if c.Width > 0 {
		width = c.Width
	}
	if c.Height > 0 {
		height = c.Height
	}
	return flock.Config{
		Width:   width,
		Height:  height,
		N:       c.Agents,
		Params:  c.Params,
		Mode:    mode,
		Workers: c.Workers,
	}, nil
}

// Constellation loads the target bitmap, falling back to the built-in one.
func (c *Config) Constellation() (*constellation.Bitmap, constellation.Layout, error) {
	lay := constellation.Layout{Fill: c.Layout.Fill, Density: c.Layout.Density}
	if c.Targets == "" {
		return constellation.Default(), lay, nil
	}
	b, err := constellation.Load(c.Targets)
	return b, lay, err
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML file over the defaults, checks it against the
// embedded schema, then validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, isTOML(path))
}

// Parse decodes a config document. TOML is used when asTOML is set,
// YAML otherwise.
func Parse(data []byte, asTOML bool) (*Config, error) {
	var doc map[string]any
	if asTOML {
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if asTOML {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateSchema round-trips doc through JSON so numbers reach the
// validator as float64, the form it expects.
func validateSchema(doc map[string]any) error {
	sch, err := jsonschema.CompileString(schemaURL, schemaJSON)
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config: schema: %w", err)
	}
	return nil
}

// Save writes cfg as TOML when path ends in .toml, YAML otherwise.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg, isTOML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Marshal(cfg *Config, asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(cfg)
}
