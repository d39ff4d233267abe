package config

import (
	"errors"
	"fmt"
	"time"

	"rubik-viewer/internal/scramble"
)

// Threshold is a positional heuristic: coordinate on Axis greater than Value.
type Threshold struct {
	Axis  string  `yaml:"axis"`
	Value float32 `yaml:"value"`
}

// SelectorSpec describes a cubie selector in YAML. Exactly one field must be set.
type SelectorSpec struct {
	NamePrefix   string         `yaml:"name_prefix,omitempty"`
	NameContains string         `yaml:"name_contains,omitempty"`
	WorldAbove   *Threshold     `yaml:"world_above,omitempty"`
	BoundsAbove  *Threshold     `yaml:"bounds_above,omitempty"`
	Any          []SelectorSpec `yaml:"any,omitempty"`
}

// PhaseSpec describes one phase of the scramble.
type PhaseSpec struct {
	Name   string       `yaml:"name"`
	Axis   string       `yaml:"axis"`
	Sign   float32      `yaml:"sign"`
	Select SelectorSpec `yaml:"select"`
}

var errNoSelector = errors.New("selector must set exactly one of name_prefix, name_contains, world_above, bounds_above, any")

// Build converts s into a scramble selector.
func (s SelectorSpec) Build() (scramble.Selector, error) {
	set := 0
	var sel scramble.Selector
	if s.NamePrefix != "" {
		set++
		sel = scramble.NamePrefix(s.NamePrefix)
	}
	if s.NameContains != "" {
		set++
		sel = scramble.NameContains(s.NameContains)
	}
	if s.WorldAbove != nil {
		set++
		axis, err := parseAxis(s.WorldAbove.Axis)
		if err != nil {
			return nil, fmt.Errorf("world_above: %w", err)
		}
		sel = scramble.WorldAbove(axis, s.WorldAbove.Value)
	}
	if s.BoundsAbove != nil {
		set++
		axis, err := parseAxis(s.BoundsAbove.Axis)
		if err != nil {
			return nil, fmt.Errorf("bounds_above: %w", err)
		}
		sel = scramble.BoundsAbove(axis, s.BoundsAbove.Value)
	}
	if len(s.Any) > 0 {
		set++
		parts := make([]scramble.Selector, 0, len(s.Any))
		for i, sub := range s.Any {
			p, err := sub.Build()
			if err != nil {
				return nil, fmt.Errorf("any[%d]: %w", i, err)
			}
			parts = append(parts, p)
		}
		sel = scramble.AnyOf(parts...)
	}
	if set != 1 {
		return nil, errNoSelector
	}
	return sel, nil
}

// Build converts p into a scramble phase.
func (p PhaseSpec) Build() (scramble.Phase, error) {
	axis, err := parseAxis(p.Axis)
	if err != nil {
		return scramble.Phase{}, err
	}
	if p.Sign != 1 && p.Sign != -1 {
		return scramble.Phase{}, fmt.Errorf("sign must be 1 or -1, got %v", p.Sign)
	}
	sel, err := p.Select.Build()
	if err != nil {
		return scramble.Phase{}, err
	}
	return scramble.Phase{Name: p.Name, Select: sel, Axis: axis, Sign: p.Sign}, nil
}

// Scramble returns the animator configuration for p. p must have passed Validate.
func (p Preset) Scramble() (scramble.Config, error) {
	cfg := scramble.Config{Duration: p.Timing.ScrambleDuration, SpinRate: p.Spin.Scramble}
	for i, ph := range p.Phases {
		built, err := ph.Build()
		if err != nil {
			return scramble.Config{}, fmt.Errorf("config: phase %d: %w", i, err)
		}
		cfg.Phases = append(cfg.Phases, built)
	}
	return cfg, nil
}

// PhaseDuration is the length of one phase, or the full window for a preset without phases.
func (p Preset) PhaseDuration() time.Duration {
	if len(p.Phases) == 0 {
		return p.Timing.ScrambleDuration
	}
	return p.Timing.ScrambleDuration / time.Duration(len(p.Phases))
}
