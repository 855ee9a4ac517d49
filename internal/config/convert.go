package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Gaurav-Gosain/sheetwm/internal/canvas"
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/theme"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

// Settings returns the window manager settings.
func (c *Config) Settings() wm.Settings {
	return wm.Settings{
		Border:          c.Border,
		Gap:             c.Gap,
		Step:            c.Step,
		IndicatorWidth:  c.IndicatorWidth,
		IndicatorHeight: c.IndicatorHeight,
	}
}

// Rules converts the [views] tables into placement rules.
func (c *Config) Rules() (map[string]wm.Rule, error) {
	rules := make(map[string]wm.Rule, len(c.Views))
	for app, vr := range c.Views {
		r, err := vr.rule()
		if err != nil {
			return nil, fmt.Errorf("%w: views.%s: %v", ErrInvalidConfig, app, err)
		}
		rules[app] = r
	}
	return rules, nil
}

func (vr ViewRule) rule() (wm.Rule, error) {
	r := wm.DefaultRule()
	r.Group = vr.Group
	r.Invisible = vr.Invisible
	r.Floating = vr.Floating
	r.Public = vr.Public
	if vr.Focus != nil {
		r.Focus = *vr.Focus
	}

	if vr.Sheet != nil {
		if *vr.Sheet < 0 || *vr.Sheet >= wm.SheetCount {
			return r, fmt.Errorf("sheet %d out of range", *vr.Sheet)
		}
		r.Sheet = *vr.Sheet
	}

	if vr.Mark != "" {
		m, size := utf8.DecodeRuneInString(vr.Mark)
		if size != len(vr.Mark) || m < 'a' || m > 'z' {
			return r, fmt.Errorf("mark %q must be a single letter a-z", vr.Mark)
		}
		r.Mark = m
	}

	pos, err := parsePosition(vr.Position)
	if err != nil {
		return r, err
	}
	r.Position = pos
	return r, nil
}

func parsePosition(s string) (wm.Position, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return wm.Position{Kind: wm.PositionAuto}, nil
	}
	if xs, ys, ok := strings.Cut(s, ","); ok {
		x, errX := strconv.Atoi(strings.TrimSpace(xs))
		y, errY := strconv.Atoi(strings.TrimSpace(ys))
		if errX != nil || errY != nil {
			return wm.Position{}, fmt.Errorf("position %q: want x,y", s)
		}
		return wm.Position{Kind: wm.PositionAbsolute, X: x, Y: y}, nil
	}
	a, err := geometry.ParseAnchor(s)
	if err != nil {
		return wm.Position{}, err
	}
	return wm.Position{Kind: wm.PositionRelative, Anchor: a}, nil
}

// LayoutRegisters converts the [layouts] table into layout registers.
func (c *Config) LayoutRegisters() (map[rune]*wm.LayoutSpec, error) {
	out := make(map[rune]*wm.LayoutSpec, len(c.Layouts))
	for key, node := range c.Layouts {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("%w: layout register %q must be a single character", ErrInvalidConfig, key)
		}
		spec, err := ParseLayout(node)
		if err != nil {
			return nil, fmt.Errorf("%w: layouts.%s: %v", ErrInvalidConfig, key, err)
		}
		out[r] = spec
	}
	return out, nil
}

// ParseLayout builds a split tree from a decoded TOML value: an algorithm
// name, a { layout, max } container table or a { split, scale, left, right }
// split table.
func ParseLayout(node any) (*wm.LayoutSpec, error) {
	switch n := node.(type) {
	case string:
		a, err := wm.ParseAlgorithm(n)
		if err != nil {
			return nil, err
		}
		return wm.Leaf(a, 0), nil

	case map[string]any:
		if orientation, ok := n["split"]; ok {
			return parseSplit(orientation, n)
		}
		if name, ok := n["layout"].(string); ok {
			a, err := wm.ParseAlgorithm(name)
			if err != nil {
				return nil, err
			}
			limit, err := toInt(n["max"])
			if err != nil {
				return nil, fmt.Errorf("max: %v", err)
			}
			return wm.Leaf(a, limit), nil
		}
		return nil, fmt.Errorf("table needs a split or layout key")
	}
	return nil, fmt.Errorf("unexpected layout value %v", node)
}

func parseSplit(orientation any, n map[string]any) (*wm.LayoutSpec, error) {
	var o wm.Orientation
	switch orientation {
	case "vertical":
		o = wm.SplitVertical
	case "horizontal":
		o = wm.SplitHorizontal
	default:
		return nil, fmt.Errorf("unknown split %v", orientation)
	}

	scale := 0.5
	switch v := n["scale"].(type) {
	case nil:
	case float64:
		scale = v
	case int64:
		scale = float64(v)
	default:
		return nil, fmt.Errorf("scale must be a number")
	}

	left, err := ParseLayout(n["left"])
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	right, err := ParseLayout(n["right"])
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}
	spec := wm.NewSplit(o, scale, left, right)
	return spec, spec.Validate()
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("must not be negative")
		}
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("must be an integer")
}

// Palette resolves the colors: stock defaults, then the theme, then the
// [colors] table.
func (c *Config) Palette() (canvas.Palette, error) {
	if err := theme.Initialize(c.Theme); err != nil {
		return nil, err
	}
	colors := theme.Colors()
	for role, hex := range c.Colors {
		colors[role] = hex
	}
	return canvas.ParsePalette(colors)
}

// ServerOptions returns the options configuring a server from c.
func (c *Config) ServerOptions() ([]wm.Option, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	layouts, err := c.LayoutRegisters()
	if err != nil {
		return nil, err
	}
	return []wm.Option{
		wm.WithSettings(c.Settings()),
		wm.WithRules(rules),
		wm.WithLayouts(layouts),
	}, nil
}

// Apply pushes settings, rules and layouts into a running server. Outputs
// are left alone.
func (c *Config) Apply(s *wm.Server) error {
	rules, err := c.Rules()
	if err != nil {
		return err
	}
	layouts, err := c.LayoutRegisters()
	if err != nil {
		return err
	}
	s.SetSettings(c.Settings())
	s.SetRules(rules)
	s.SetLayouts(layouts)
	for _, o := range s.Outputs() {
		o.DamageWhole()
	}
	return nil
}

// AddOutputs creates the configured outputs on s.
func (c *Config) AddOutputs(s *wm.Server) []*wm.Output {
	outputs := make([]*wm.Output, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		outputs = append(outputs, s.AddOutput(o.Name, geometry.NewBox(o.X, o.Y, o.Width, o.Height)))
	}
	return outputs
}
