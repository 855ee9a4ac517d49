// Package config loads the sheetwm TOML configuration and converts it into
// window manager settings, rules and layout registers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration.
type Config struct {
	Border int    `toml:"border"`
	Gap    int    `toml:"gap"`
	Step   int    `toml:"step"`
	Theme  string `toml:"theme"`

	// Indicator box size in cells.
	IndicatorWidth  int `toml:"indicator_width"`
	IndicatorHeight int `toml:"indicator_height"`

	Colors map[string]string `toml:"colors"`

	// Views holds placement rules keyed by application id.
	Views map[string]ViewRule `toml:"views"`

	// Layouts maps a single-character register to a split tree.
	Layouts map[string]any `toml:"layouts"`

	Outputs []OutputConfig `toml:"outputs"`

	Keybindings map[string][]string `toml:"keybindings"`
}

// ViewRule configures views of one application.
type ViewRule struct {
	Group string `toml:"group,omitempty"`
	// Sheet is a sheet number; nil places views on the current sheet.
	Sheet *int   `toml:"sheet,omitempty"`
	Mark  string `toml:"mark,omitempty"`
	// Position is "auto", an anchor like "bottom-right", or "x,y".
	Position  string `toml:"position,omitempty"`
	Focus     *bool  `toml:"focus,omitempty"`
	Invisible bool   `toml:"invisible,omitempty"`
	Floating  bool   `toml:"floating,omitempty"`
	Public    bool   `toml:"public,omitempty"`
}

// OutputConfig describes one output in global coordinates.
type OutputConfig struct {
	Name   string `toml:"name"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const header = `# sheetwm configuration
#
# border, gap and step are in cells. [views.<app_id>] tables are placement
# rules, [layouts] maps a register character to a split tree and
# [keybindings] maps actions to key lists.
#
# [colors] overrides the theme per role: clear, foreground, border_active,
# border_inactive, indicator_selected, indicator_grouped, indicator_first,
# indicator_conflict, indicator_insert.

`

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Border:          1,
		Gap:             1,
		Step:            4,
		IndicatorWidth:  24,
		IndicatorHeight: 4,
		Colors:          map[string]string{},
		Views:           map[string]ViewRule{},
		Layouts: map[string]any{
			"s": map[string]any{
				"split": "vertical",
				"scale": 0.5,
				"left":  "single",
				"right": "horizontal",
			},
			"f": "full",
			"g": "grid",
			"v": "vertical",
			"h": "horizontal",
		},
		Outputs: []OutputConfig{
			{Name: "main", Width: 120, Height: 36},
		},
		Keybindings: DefaultKeybindings(),
	}
}

// GetConfigPath returns the path of the user configuration file.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("sheetwm", "config.toml"))
}

// LoadUserConfig loads the user configuration, writing the defaults first
// when the file does not exist.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
// Tables present in data replace the default tables as a whole.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, ok := raw["layouts"]; ok {
		cfg.Layouts = nil
	}
	if _, ok := raw["outputs"]; ok {
		cfg.Outputs = nil
	}
	if _, ok := raw["keybindings"]; ok {
		cfg.Keybindings = nil
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML with a comment header.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.Write(data)
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// Validate checks value ranges and that rules and layouts convert.
func (c *Config) Validate() error {
	if c.Border < 0 || c.Gap < 0 || c.Step <= 0 {
		return fmt.Errorf("%w: border and gap must be >= 0 and step > 0", ErrInvalidConfig)
	}
	if c.IndicatorWidth <= 0 || c.IndicatorHeight <= 0 {
		return fmt.Errorf("%w: indicator size must be positive", ErrInvalidConfig)
	}
	seen := map[string]bool{}
	for _, o := range c.Outputs {
		if o.Name == "" || o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("%w: output %q needs a name and a positive size", ErrInvalidConfig, o.Name)
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: duplicate output %q", ErrInvalidConfig, o.Name)
		}
		seen[o.Name] = true
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	if _, err := c.LayoutRegisters(); err != nil {
		return err
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	normalizer := NewKeyNormalizer()
	for action, keys := range c.Keybindings {
		for _, key := range keys {
			if ok, msg := normalizer.ValidateKey(key); !ok {
				return fmt.Errorf("%w: keybinding %s: %s", ErrInvalidConfig, action, msg)
			}
		}
	}
	return nil
}
