// Package project provides project file handling and persistence of
// detections.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// File represents an annotation project file (.roiproj).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// UploadID identifies the image across sessions.
	UploadID string `json:"upload_id"`

	// Image path (relative to project file)
	ImagePath string `json:"image,omitempty"`

	// Detections file path (relative to project file)
	DetectionsPath string `json:"detections,omitempty"`

	// User settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds user preferences for the project.
type Settings struct {
	DefaultLabel   string `json:"default_label,omitempty"`
	ShowConfidence bool   `json:"show_confidence"`
	PromoteOnEdit  bool   `json:"promote_on_edit"`
	OverlayOpacity int    `json:"overlay_opacity,omitempty"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		UploadID: uuid.New().String(),
		Settings: Settings{
			DefaultLabel:   "larva",
			ShowConfidence: true,
			PromoteOnEdit:  true,
		},
	}
}

// Load loads a project from a .roiproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the image path (relative to project).
func (p *File) SetImage(projectPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		p.ImagePath = imagePath
	} else {
		p.ImagePath = rel
	}
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path to the image.
func (p *File) GetImagePath(projectPath string) string {
	if p.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(p.ImagePath) {
		return p.ImagePath
	}
	return filepath.Join(filepath.Dir(projectPath), p.ImagePath)
}

// GetDetectionsPath returns the absolute path to the detections file.
func (p *File) GetDetectionsPath(projectPath string) string {
	if p.DetectionsPath == "" {
		// Default: project_name_detections.json
		base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
		return base + "_detections.json"
	}
	if filepath.IsAbs(p.DetectionsPath) {
		return p.DetectionsPath
	}
	return filepath.Join(filepath.Dir(projectPath), p.DetectionsPath)
}
