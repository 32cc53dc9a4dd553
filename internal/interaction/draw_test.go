package interaction

import (
	"testing"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

func testStore() *annotation.Store {
	s := annotation.NewStore(annotation.PromoteOnEdit, nil)
	s.SetAll("upload-1", nil)
	return s
}

func identityViewport() viewport.Viewport {
	return viewport.Viewport{
		Scale:    1,
		Rendered: geometry.NewRect(0, 0, 1000, 1000),
		Natural:  geometry.NewSize(1000, 1000),
	}
}

func TestDrawUsesConfiguredLabel(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	c.SetViewport(identityViewport())
	c.SetDefaultLabel(annotation.LabelEgg)

	c.Start(geometry.NewPoint2D(100, 100))
	c.End(geometry.NewPoint2D(300, 300))

	dets := store.Detections()
	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}
	if dets[0].Label != annotation.LabelEgg {
		t.Errorf("Label = %q, want %q", dets[0].Label, annotation.LabelEgg)
	}

	c.SetDefaultLabel(annotation.Label("weevil"))
	if got := c.DefaultLabel(); got != annotation.LabelEgg {
		t.Errorf("unknown label was accepted: %q", got)
	}
}

func TestDrawCommitsDetection(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(100, 100))
	c.Move(geometry.NewPoint2D(200, 250))
	if _, live := c.PreviewRect(); !live {
		t.Error("PreviewRect() should report a live gesture mid-drag")
	}
	c.End(geometry.NewPoint2D(300, 300))

	dets := store.Detections()
	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}
	d := dets[0]
	if d.XMin != 100 || d.YMin != 100 || d.XMax != 300 || d.YMax != 300 {
		t.Errorf("box = %+v, want 100,100,300,300", d.Box())
	}
	if d.Status != annotation.StatusUserConfirmed {
		t.Errorf("status = %q, want %q", d.Status, annotation.StatusUserConfirmed)
	}
	if d.Label != annotation.DefaultLabel {
		t.Errorf("label = %q, want %q", d.Label, annotation.DefaultLabel)
	}
	if d.Confidence != nil {
		t.Error("hand-drawn detection should carry no confidence")
	}
	if store.SelectedID() != d.ID {
		t.Error("new detection should be selected")
	}
	if !c.JustFinished() {
		t.Error("JustFinished() should hold inside the suppression window")
	}
}

func TestDrawZoomedViewport(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	// 1000px image rendered at 500px, zoomed 2x, offset (50,50):
	// one screen pixel is one image pixel, shifted by 100.
	c.SetViewport(viewport.Viewport{
		Scale:    2,
		Rendered: geometry.NewRect(50, 50, 500, 500),
		Natural:  geometry.NewSize(1000, 1000),
	})

	c.Start(geometry.NewPoint2D(200, 200))
	c.End(geometry.NewPoint2D(400, 400))

	dets := store.Detections()
	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}
	d := dets[0]
	if d.XMin != 100 || d.YMin != 100 || d.XMax != 300 || d.YMax != 300 {
		t.Errorf("box = %+v, want 100,100,300,300", d.Box())
	}
}

func TestDrawRejectsTinyGesture(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(100, 100))
	c.End(geometry.NewPoint2D(110, 110))

	if got := len(store.Detections()); got != 0 {
		t.Errorf("10px gesture should be rejected, got %d detections", got)
	}
	if c.JustFinished() {
		t.Error("rejected gesture should not arm click suppression")
	}
}

func TestDrawInactiveIsNoop(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(100, 100))
	if c.State() != DrawIdle {
		t.Error("Start() while inactive should not begin a gesture")
	}
}

func TestDrawInvalidViewportIsNoop(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)

	c.Start(geometry.NewPoint2D(100, 100))
	if c.State() != DrawIdle {
		t.Error("Start() without rendering metadata should not begin a gesture")
	}
}

func TestDrawNormalizesReversedGesture(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	c.SetViewport(identityViewport())

	// Bottom-right to top-left.
	c.Start(geometry.NewPoint2D(300, 300))
	c.End(geometry.NewPoint2D(100, 100))

	dets := store.Detections()
	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}
	d := dets[0]
	if d.XMin != 100 || d.XMax != 300 {
		t.Errorf("reversed gesture not normalized: %+v", d.Box())
	}
}

func TestDrawClampsToImage(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(950, 950))
	c.End(geometry.NewPoint2D(1100, 1100))

	dets := store.Detections()
	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}
	d := dets[0]
	if d.XMax != 1000 || d.YMax != 1000 {
		t.Errorf("box should clamp to image bounds, got %+v", d.Box())
	}
}

func TestDrawAbandonedOnDeactivate(t *testing.T) {
	store := testStore()
	c := NewDrawController(store, nil)
	c.SetActive(true)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(100, 100))
	c.SetActive(false)
	c.End(geometry.NewPoint2D(400, 400))

	if got := len(store.Detections()); got != 0 {
		t.Errorf("abandoned gesture committed %d detections", got)
	}
}
