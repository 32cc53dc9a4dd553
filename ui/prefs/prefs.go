// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "preferences.json"

const (
	keyLastDirectory = "lastDirectory"
	keyLastProject   = "lastProject"
	keyDefaultLabel  = "defaultLabel"
	keyPromoteOnEdit = "promoteOnEdit"
	keyZoom          = "zoom"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/roi-annotator/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	dir := filepath.Join(configDir, "roi-annotator")
	p.path = filepath.Join(dir, prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// LastDirectory returns the directory of the last opened file, or "".
func (p *Prefs) LastDirectory() string { return p.str(keyLastDirectory) }

// SetLastDirectory remembers the directory of the last opened file.
func (p *Prefs) SetLastDirectory(dir string) { p.set(keyLastDirectory, dir) }

// LastProject returns the path of the last opened project, or "".
func (p *Prefs) LastProject() string { return p.str(keyLastProject) }

// SetLastProject remembers the last opened project path.
func (p *Prefs) SetLastProject(path string) { p.set(keyLastProject, path) }

// DefaultLabel returns the label assigned to hand-drawn boxes, or "".
func (p *Prefs) DefaultLabel() string { return p.str(keyDefaultLabel) }

// SetDefaultLabel stores the label for hand-drawn boxes.
func (p *Prefs) SetDefaultLabel(label string) { p.set(keyDefaultLabel, label) }

// PromoteOnEdit reports whether geometry edits promote a detection's
// status. Defaults to true.
func (p *Prefs) PromoteOnEdit() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[keyPromoteOnEdit].(bool); ok {
		return v
	}
	return true
}

// SetPromoteOnEdit stores the promotion preference.
func (p *Prefs) SetPromoteOnEdit(v bool) { p.set(keyPromoteOnEdit, v) }

// Zoom returns the last zoom level, or fallback if none was stored.
func (p *Prefs) Zoom(fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[keyZoom].(float64); ok && v > 0 {
		return v
	}
	return fallback
}

// SetZoom stores the zoom level.
func (p *Prefs) SetZoom(zoom float64) { p.set(keyZoom, zoom) }

func (p *Prefs) str(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.values[key].(string); ok {
		return s
	}
	return ""
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}
