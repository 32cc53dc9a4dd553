package interaction

import (
	"testing"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

// viewportAt renders a 1000px image at 500px with the given zoom, so a
// screen delta of n maps to n*2/zoom image pixels.
func viewportAt(zoom float64) viewport.Viewport {
	return viewport.Viewport{
		Scale:    zoom,
		Rendered: geometry.NewRect(50, 50, 500, 500),
		Natural:  geometry.NewSize(1000, 1000),
	}
}

func addDetection(store *annotation.Store, box annotation.Box) *annotation.Detection {
	d := annotation.NewUserDetection(store.UploadID(), box, annotation.LabelLarva, "tester")
	store.Add(d)
	return d
}

func TestDragTranslates(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 200, YMax: 200})

	c := NewDragController(store, nil)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(150, 150), d)
	c.Move(geometry.NewPoint2D(180, 130))
	c.End()

	got := store.Get(d.ID)
	want := annotation.Box{XMin: 130, YMin: 80, XMax: 230, YMax: 180}
	if got.Box() != want {
		t.Errorf("box = %+v, want %+v", got.Box(), want)
	}
}

func TestDragSlidesAlongBoundary(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 200, YMax: 200})

	c := NewDragController(store, nil)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(150, 150), d)
	// Far past the right edge; the box should pin to it at full size.
	c.Move(geometry.NewPoint2D(2000, 150))
	c.End()

	got := store.Get(d.ID).Box()
	if got.XMin != 900 || got.XMax != 1000 {
		t.Errorf("box should slide to the right edge, got %+v", got)
	}
	if got.Width() != 100 || got.Height() != 100 {
		t.Errorf("drag must preserve dimensions, got %vx%v", got.Width(), got.Height())
	}
}

func TestDragDeltaScalesWithZoom(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 200, YMax: 200})

	c := NewDragController(store, nil)
	// At 2x zoom over a half-size render, screen deltas map 1:1 to image px.
	c.SetViewport(viewportAt(2))

	c.Start(geometry.NewPoint2D(300, 300), d)
	c.Move(geometry.NewPoint2D(340, 300))
	c.End()

	got := store.Get(d.ID).Box()
	if got.XMin != 140 {
		t.Errorf("xMin = %v, want 140", got.XMin)
	}
}

func TestDragRequiresSelection(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 200, YMax: 200})
	store.ClearSelection()

	c := NewDragController(store, nil)
	c.SetViewport(identityViewport())

	c.Start(geometry.NewPoint2D(150, 150), d)
	if c.State() != DragIdle {
		t.Error("Start() on an unselected detection should not begin a gesture")
	}
}

func TestDragMoveOutsideGestureIsNoop(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 200, YMax: 200})

	c := NewDragController(store, nil)
	c.SetViewport(identityViewport())

	c.Move(geometry.NewPoint2D(500, 500))
	if got := store.Get(d.ID).Box(); got.XMin != 100 {
		t.Errorf("Move() without Start() mutated the box: %+v", got)
	}
}
