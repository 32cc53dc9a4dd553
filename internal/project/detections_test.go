package project

import (
	"context"
	"path/filepath"
	"testing"

	"roi-annotator/internal/annotation"
)

func TestDetectionStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	store := NewDetectionStore(path)
	ctx := context.Background()

	kept := annotation.NewUserDetection("u1", annotation.Box{XMin: 10, YMin: 20, XMax: 110, YMax: 220}, annotation.LabelAdult, "tester")
	if err := store.SaveDetections(ctx, "u1", []*annotation.Detection{kept}); err != nil {
		t.Fatalf("SaveDetections() error: %v", err)
	}

	loaded, err := store.LoadDetections(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadDetections() error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d detections, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != kept.ID || got.Label != kept.Label || got.Status != kept.Status {
		t.Errorf("loaded detection differs: %+v", got)
	}
	if got.XMin != 10 || got.YMax != 220 {
		t.Errorf("loaded box differs: %+v", got.Box())
	}
}

func TestSaveDropsSoftDeleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	store := NewDetectionStore(path)
	ctx := context.Background()

	kept := annotation.NewUserDetection("u1", annotation.Box{XMin: 0, YMin: 0, XMax: 50, YMax: 50}, annotation.LabelLarva, "tester")
	deleted := annotation.NewUserDetection("u1", annotation.Box{XMin: 60, YMin: 60, XMax: 100, YMax: 100}, annotation.LabelEgg, "tester")
	deleted.Status = annotation.StatusDeleted

	if err := store.SaveDetections(ctx, "u1", []*annotation.Detection{kept, deleted}); err != nil {
		t.Fatalf("SaveDetections() error: %v", err)
	}

	loaded, err := store.LoadDetections(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadDetections() error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d detections, want 1 (deleted entry must not persist)", len(loaded))
	}
	if loaded[0].ID != kept.ID {
		t.Errorf("wrong detection survived: %s", loaded[0].ID)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := NewDetectionStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.LoadDetections(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadDetections() on missing file: %v", err)
	}
	if loaded != nil {
		t.Errorf("missing file should load as empty, got %d detections", len(loaded))
	}
}

func TestLoadRejectsForeignUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	store := NewDetectionStore(path)
	ctx := context.Background()

	d := annotation.NewUserDetection("u1", annotation.Box{XMin: 0, YMin: 0, XMax: 50, YMax: 50}, annotation.LabelLarva, "tester")
	if err := store.SaveDetections(ctx, "u1", []*annotation.Detection{d}); err != nil {
		t.Fatalf("SaveDetections() error: %v", err)
	}

	if _, err := store.LoadDetections(ctx, "other-upload"); err == nil {
		t.Error("LoadDetections() should reject a mismatched upload id")
	}
}

func TestLoadWithoutUploadIDAcceptsAny(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	store := NewDetectionStore(path)
	ctx := context.Background()

	d := annotation.NewUserDetection("u1", annotation.Box{XMin: 0, YMin: 0, XMax: 50, YMax: 50}, annotation.LabelLarva, "tester")
	if err := store.SaveDetections(ctx, "u1", []*annotation.Detection{d}); err != nil {
		t.Fatalf("SaveDetections() error: %v", err)
	}

	loaded, err := store.LoadDetections(ctx, "")
	if err != nil {
		t.Fatalf("LoadDetections() with empty upload id: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != d.ID {
		t.Errorf("loaded %d detections, want the saved one", len(loaded))
	}
}

func TestProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.roiproj")

	p := New("sample")
	p.SetImage(path, filepath.Join(dir, "images", "plate.png"))
	if err := p.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Name != "sample" || loaded.UploadID != p.UploadID {
		t.Errorf("loaded project differs: %+v", loaded)
	}
	if got := loaded.GetImagePath(path); got != filepath.Join(dir, "images", "plate.png") {
		t.Errorf("GetImagePath() = %q", got)
	}
	if got := loaded.GetDetectionsPath(path); got != filepath.Join(dir, "sample_detections.json") {
		t.Errorf("GetDetectionsPath() = %q", got)
	}
}
