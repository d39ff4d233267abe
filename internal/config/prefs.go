package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the path to the viewer preferences file, relative to the process working directory.
const PrefsPath = "config/viewer.json"

// Prefs holds viewer-only preferences (debug overlays, last preset). Persisted across runs.
// Tuning lives in presets, not here.
type Prefs struct {
	ShowFPS      bool   `json:"show_fps"`
	ShowMemAlloc bool   `json:"show_memalloc"`
	ShowState    bool   `json:"show_state"`
	ShowLog      bool   `json:"show_log"`
	Preset       string `json:"preset,omitempty"`
}

// DefaultPrefs returns default preferences (overlays off, default preset).
func DefaultPrefs() Prefs {
	return Prefs{Preset: DefaultPreset}
}

// LoadPrefs reads preferences from path. If the file is missing or invalid,
// returns DefaultPrefs() and does not create a file.
func LoadPrefs(path string) Prefs {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPrefs()
	}
	p := DefaultPrefs()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPrefs()
	}
	return p
}

// SavePrefs writes preferences to path, creating the directory if needed.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
