package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"roi-annotator/internal/annotation"
)

// detectionsFile is the JSON structure of a detections file.
type detectionsFile struct {
	Version    int                     `json:"version"`
	UploadID   string                  `json:"upload_id"`
	SavedAt    time.Time               `json:"saved_at"`
	Detections []*annotation.Detection `json:"detections"`
}

// DetectionStore reads and writes the detection list for one project. It
// implements the session Loader and Saver contracts. Soft-deleted
// detections are dropped at save time; until then they only carry the
// deleted status in memory.
type DetectionStore struct {
	path string
}

// NewDetectionStore creates a store backed by the given JSON file path.
func NewDetectionStore(path string) *DetectionStore {
	return &DetectionStore{path: path}
}

// LoadDetections returns the saved detections for the upload. A missing
// file is an empty list, not an error. An empty uploadID accepts any file,
// for callers that address the file directly rather than through a project.
func (s *DetectionStore) LoadDetections(ctx context.Context, uploadID string) ([]*annotation.Detection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read detections file: %w", err)
	}

	var file detectionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse detections file: %w", err)
	}
	if uploadID != "" && file.UploadID != "" && file.UploadID != uploadID {
		return nil, fmt.Errorf("detections file belongs to upload %s, not %s", file.UploadID, uploadID)
	}
	return file.Detections, nil
}

// SaveDetections writes the current list, physically removing soft-deleted
// entries.
func (s *DetectionStore) SaveDetections(ctx context.Context, uploadID string, detections []*annotation.Detection) error {
	kept := make([]*annotation.Detection, 0, len(detections))
	for _, d := range detections {
		if d.Deleted() {
			continue
		}
		kept = append(kept, d)
	}

	data, err := json.MarshalIndent(detectionsFile{
		Version:    1,
		UploadID:   uploadID,
		SavedAt:    time.Now(),
		Detections: kept,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode detections: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}
