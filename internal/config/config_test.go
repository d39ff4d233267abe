package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"rubik-viewer/internal/scenegraph"
)

func TestNames(t *testing.T) {
	want := []string{"front", "front-union", "phased", "substring"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestBuiltinPresetsValidate(t *testing.T) {
	for _, name := range Names() {
		p, err := Builtin(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name != name {
			t.Errorf("%s: Name = %q", name, p.Name)
		}
		if p.Timing.ScrambleDuration != 3000*time.Millisecond {
			t.Errorf("%s: scramble duration = %v", name, p.Timing.ScrambleDuration)
		}
		if p.Timing.PostLoadDelay != 500*time.Millisecond || p.Timing.HideDelay != 500*time.Millisecond {
			t.Errorf("%s: delays = %v / %v", name, p.Timing.PostLoadDelay, p.Timing.HideDelay)
		}
		if len(p.Lights.Directional) != 6 || p.Lights.Ambient != 2.0 {
			t.Errorf("%s: lights = %+v", name, p.Lights)
		}
		if p.Loading.ID != "loading-screen" {
			t.Errorf("%s: loading id = %q", name, p.Loading.ID)
		}
	}
}

func TestBuiltinDefault(t *testing.T) {
	p, err := Builtin("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != DefaultPreset {
		t.Fatalf("Name = %q", p.Name)
	}
	if p.Camera.Position != [3]float32{5, 5, 10} || p.Cube.Scale != 0.7 {
		t.Fatalf("camera %v scale %v", p.Camera.Position, p.Cube.Scale)
	}
	if !p.Controls.StaticMoving || p.Controls.RotateSpeed != 2.2 {
		t.Fatalf("controls = %+v", p.Controls)
	}
	cfg, err := p.Scramble()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Phases) != 2 {
		t.Fatalf("phases = %d", len(cfg.Phases))
	}
	if cfg.Phases[0].Axis != scenegraph.AxisX || cfg.Phases[0].Sign != 1 {
		t.Errorf("phase 0 = %+v", cfg.Phases[0])
	}
	if cfg.Phases[1].Axis != scenegraph.AxisX || cfg.Phases[1].Sign != -1 {
		t.Errorf("phase 1 = %+v", cfg.Phases[1])
	}
	if !cfg.Phases[0].Select.Match(scenegraph.NewNode("Cube_B_edge")) {
		t.Error("name prefix should be case-insensitive")
	}
	if cfg.Phases[1].Select.Match(scenegraph.NewNode("cube_b")) {
		t.Error("phase 1 should not match cube_b")
	}
	if cfg.SpinRate != 0 {
		t.Errorf("spin = %v", cfg.SpinRate)
	}
	if got := p.PhaseDuration(); got != 1500*time.Millisecond {
		t.Errorf("PhaseDuration = %v", got)
	}
}

func TestFrontPreset(t *testing.T) {
	p, err := Builtin("front")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := p.Scramble()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Phases) != 1 || cfg.Phases[0].Axis != scenegraph.AxisZ {
		t.Fatalf("phases = %+v", cfg.Phases)
	}
	if cfg.SpinRate != 0.002 {
		t.Fatalf("spin = %v", cfg.SpinRate)
	}
	front := scenegraph.NewNode("a")
	front.Translation = [3]float32{0, 0, 1}
	back := scenegraph.NewNode("b")
	back.Translation = [3]float32{0, 0, -1}
	if !cfg.Phases[0].Select.Match(front) || cfg.Phases[0].Select.Match(back) {
		t.Fatal("world Z selector mismatch")
	}
	if p.Controls.StaticMoving {
		t.Fatal("front preset uses inertia")
	}
	if p.PhaseDuration() != 3000*time.Millisecond {
		t.Fatalf("PhaseDuration = %v", p.PhaseDuration())
	}
}

func TestFrontUnionPreset(t *testing.T) {
	p, err := Builtin("front-union")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := p.Scramble()
	if err != nil {
		t.Fatal(err)
	}
	named := scenegraph.NewNode("cube_fr")
	named.Translation = [3]float32{0, 0, -1}
	if !cfg.Phases[0].Select.Match(named) {
		t.Fatal("union should match on name")
	}
}

func TestUnknownPreset(t *testing.T) {
	_, err := Builtin("nope")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "cube:\n  scale: 1.25\n" +
		"timing:\n  scramble_duration: 2s\n" +
		"phases:\n  - name: U\n    axis: y\n    sign: 1\n    select:\n      bounds_above: {axis: y, value: 0.3}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load("phased", path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Cube.Scale != 1.25 {
		t.Errorf("scale = %v", p.Cube.Scale)
	}
	if p.Timing.ScrambleDuration != 2*time.Second {
		t.Errorf("duration = %v", p.Timing.ScrambleDuration)
	}
	if p.Timing.PostLoadDelay != 500*time.Millisecond {
		t.Errorf("untouched field changed: %v", p.Timing.PostLoadDelay)
	}
	if p.Camera.Position != [3]float32{5, 5, 10} {
		t.Errorf("camera = %v", p.Camera.Position)
	}
	if len(p.Phases) != 1 || p.Phases[0].Name != "U" {
		t.Errorf("phases = %+v", p.Phases)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "cube:\n  colour: red\n"},
		{"bad axis", "phases:\n  - {name: x, axis: w, sign: 1, select: {name_prefix: a}}\n"},
		{"bad sign", "phases:\n  - {name: x, axis: x, sign: 2, select: {name_prefix: a}}\n"},
		{"no selector", "phases:\n  - {name: x, axis: x, sign: 1}\n"},
		{"two selectors", "phases:\n  - {name: x, axis: x, sign: 1, select: {name_prefix: a, name_contains: b}}\n"},
		{"zero scale", "cube:\n  scale: 0\n"},
		{"bad projection", "camera:\n  near: 10\n  far: 1\n"},
	}
	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, filepath.Base(t.Name())+string(rune('a'+i))+".yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load("phased", path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingOverride(t *testing.T) {
	if _, err := Load("phased", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadingOptions(t *testing.T) {
	p, err := Builtin("phased")
	if err != nil {
		t.Fatal(err)
	}
	o := p.LoadingOptions()
	if o.ID != "loading-screen" || o.FadeOpacity != 0.3 || o.HideDelay != 500*time.Millisecond {
		t.Fatalf("options = %+v", o)
	}
}

func TestPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "viewer.json")
	if got := LoadPrefs(path); got != DefaultPrefs() {
		t.Fatalf("missing file: %+v", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("LoadPrefs must not create the file")
	}
	want := Prefs{ShowFPS: true, ShowState: true, ShowLog: true, Preset: "front"}
	if err := SavePrefs(path, want); err != nil {
		t.Fatal(err)
	}
	if got := LoadPrefs(path); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if err := os.WriteFile(path, []byte(`{"show_log": true}`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := LoadPrefs(path); !got.ShowLog || got.Preset != DefaultPreset {
		t.Fatalf("partial file: %+v", got)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := LoadPrefs(path); got != DefaultPrefs() {
		t.Fatalf("invalid file: %+v", got)
	}
}

func TestBackgroundRGBA(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]uint8
		wantErr bool
	}{
		{"", [4]uint8{255, 255, 255, 255}, false},
		{"#ffffff", [4]uint8{255, 255, 255, 255}, false},
		{"#10203040", [4]uint8{0x10, 0x20, 0x30, 0x40}, false},
		{"102030", [4]uint8{0x10, 0x20, 0x30, 0xff}, false},
		{"#fff", [4]uint8{}, true},
		{"#gggggg", [4]uint8{}, true},
	}
	for _, tt := range tests {
		got, err := Preset{Background: tt.in}.BackgroundRGBA()
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("%q: got %v, %v", tt.in, got, err)
		}
	}
}
