// Package config holds the viewer's tuning presets and user preferences.
//
// A Preset carries everything that differed between the historical variants of the viewer:
// camera start, cube scale, light intensities, the per-phase cubie selectors and axes, and
// the timing constants. Presets ship embedded as YAML; a user file may override any field.
package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rubik-viewer/internal/controls"
	"rubik-viewer/internal/lighting"
	"rubik-viewer/internal/loading"
	"rubik-viewer/internal/scenegraph"
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = "phased"

//go:embed presets/*.yaml
var presetFS embed.FS

// Camera is the start pose and projection.
type Camera struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	Fovy     float32    `yaml:"fovy"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

// Cube places the loaded model.
type Cube struct {
	Scale    float32    `yaml:"scale"`
	Position [3]float32 `yaml:"position"`
}

// Timing holds the fixed durations of the intro.
type Timing struct {
	PostLoadDelay    time.Duration `yaml:"post_load_delay"`
	ScrambleDuration time.Duration `yaml:"scramble_duration"`
	HideDelay        time.Duration `yaml:"hide_delay"`
}

// Spin holds per-tick yaw increments in radians. They are frame-count driven.
type Spin struct {
	Idle     float32 `yaml:"idle"`
	Scramble float32 `yaml:"scramble"`
}

// Loading configures the overlay.
type Loading struct {
	ID          string  `yaml:"id"`
	FadeOpacity float32 `yaml:"fade_opacity"`
}

// Preset is one complete tuning of the viewer.
type Preset struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Model       string            `yaml:"model"`
	Background  string            `yaml:"background"`
	Camera      Camera            `yaml:"camera"`
	Cube        Cube              `yaml:"cube"`
	Lights      lighting.Rig      `yaml:"lights"`
	Controls    controls.Settings `yaml:"controls"`
	Timing      Timing            `yaml:"timing"`
	Spin        Spin              `yaml:"spin"`
	Loading     Loading           `yaml:"loading"`
	Phases      []PhaseSpec       `yaml:"phases"`
}

// ErrUnknownPreset is returned for names with no embedded preset.
var ErrUnknownPreset = errors.New("unknown preset")

// Names returns the embedded preset names, sorted.
func Names() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(out)
	return out
}

// Builtin returns the embedded preset with the given name.
func Builtin(name string) (Preset, error) {
	if name == "" {
		name = DefaultPreset
	}
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return Preset{}, fmt.Errorf("config: %w %q (have %s)", ErrUnknownPreset, name, strings.Join(Names(), ", "))
	}
	p := Preset{Name: name}
	if err := decode(data, &p); err != nil {
		return Preset{}, fmt.Errorf("config: preset %q: %w", name, err)
	}
	return p, p.Validate()
}

// Load returns the named preset with the YAML file at overridePath (if non-empty) applied on
// top. Fields absent from the file keep the preset's values; a phases list replaces the
// preset's phases entirely.
func Load(name, overridePath string) (Preset, error) {
	p, err := Builtin(name)
	if err != nil {
		return Preset{}, err
	}
	if overridePath == "" {
		return p, nil
	}
	data, err := os.ReadFile(overridePath)
	if err != nil {
		return Preset{}, fmt.Errorf("config: %w", err)
	}
	if err := decode(data, &p); err != nil {
		return Preset{}, fmt.Errorf("config: %s: %w", overridePath, err)
	}
	return p, p.Validate()
}

func decode(data []byte, p *Preset) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return err
	}
	return nil
}

// Validate reports the first inconsistency in p.
func (p Preset) Validate() error {
	if p.Cube.Scale <= 0 {
		return fmt.Errorf("config: preset %q: cube scale must be positive", p.Name)
	}
	if p.Timing.ScrambleDuration <= 0 {
		return fmt.Errorf("config: preset %q: scramble_duration must be positive", p.Name)
	}
	if p.Timing.PostLoadDelay < 0 || p.Timing.HideDelay < 0 {
		return fmt.Errorf("config: preset %q: delays must not be negative", p.Name)
	}
	if p.Camera.Fovy <= 0 || p.Camera.Near <= 0 || p.Camera.Far <= p.Camera.Near {
		return fmt.Errorf("config: preset %q: invalid camera projection", p.Name)
	}
	if _, err := p.BackgroundRGBA(); err != nil {
		return fmt.Errorf("config: preset %q: %w", p.Name, err)
	}
	if len(p.Lights.Directional) > lighting.MaxDirectional {
		return fmt.Errorf("config: preset %q: at most %d directional lights", p.Name, lighting.MaxDirectional)
	}
	for i, ph := range p.Phases {
		if _, err := ph.Build(); err != nil {
			return fmt.Errorf("config: preset %q: phase %d: %w", p.Name, i, err)
		}
	}
	return nil
}

// LoadingOptions converts the overlay settings.
func (p Preset) LoadingOptions() loading.Options {
	return loading.Options{ID: p.Loading.ID, FadeOpacity: p.Loading.FadeOpacity, HideDelay: p.Timing.HideDelay}
}

// BackgroundRGBA parses Background as "#rrggbb" or "#rrggbbaa". Empty means white.
func (p Preset) BackgroundRGBA() ([4]uint8, error) {
	s := strings.TrimPrefix(strings.TrimSpace(p.Background), "#")
	if s == "" {
		return [4]uint8{255, 255, 255, 255}, nil
	}
	if len(s) != 6 && len(s) != 8 {
		return [4]uint8{}, fmt.Errorf("background %q: want #rrggbb or #rrggbbaa", p.Background)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [4]uint8{}, fmt.Errorf("background %q: %w", p.Background, err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return [4]uint8{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// parseAxis accepts "x", "y" or "z" in any case.
func parseAxis(s string) (scenegraph.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return scenegraph.AxisX, nil
	case "y":
		return scenegraph.AxisY, nil
	case "z":
		return scenegraph.AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}
