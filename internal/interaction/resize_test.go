package interaction

import (
	"testing"

	"roi-annotator/internal/annotation"
	"roi-annotator/pkg/geometry"
)

func startResize(t *testing.T, h Handle) (*annotation.Store, *ResizeController, *annotation.Detection) {
	t.Helper()
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 300, YMax: 300})

	c := NewResizeController(store, nil)
	c.SetViewport(identityViewport())
	c.Start(h, geometry.NewPoint2D(0, 0), d)
	if c.State() != Resizing {
		t.Fatal("resize gesture did not start")
	}
	return store, c, d
}

func TestResizeCornerMovesTwoEdges(t *testing.T) {
	store, c, d := startResize(t, HandleTL)

	c.Move(geometry.NewPoint2D(50, 80))
	c.End()

	got := store.Get(d.ID).Box()
	want := annotation.Box{XMin: 50, YMin: 80, XMax: 300, YMax: 300}
	if got != want {
		t.Errorf("box = %+v, want %+v", got, want)
	}
}

func TestResizeEdgeMovesOneEdge(t *testing.T) {
	store, c, d := startResize(t, HandleR)

	c.Move(geometry.NewPoint2D(450, 999))
	c.End()

	got := store.Get(d.ID).Box()
	want := annotation.Box{XMin: 100, YMin: 100, XMax: 450, YMax: 300}
	if got != want {
		t.Errorf("box = %+v, want %+v (edge handle must not move y)", got, want)
	}
}

func TestResizeFlipAcrossOpposite(t *testing.T) {
	// Drag right edge left past the left edge; xMin/xMax swap so the box
	// never has negative width.
	store, c, d := startResize(t, HandleR)

	c.Move(geometry.NewPoint2D(40, 200))
	c.End()

	got := store.Get(d.ID).Box()
	if got.XMin != 40 || got.XMax != 100 {
		t.Errorf("flipped box = %+v, want xMin=40 xMax=100", got)
	}
	if got.Width() <= 0 {
		t.Error("box must never have negative or zero width")
	}
}

func TestResizeMinimumSizeBand(t *testing.T) {
	// Pointer inside the +-min band around the opposite edge snaps the box
	// to the minimum width instead of collapsing it.
	store, c, d := startResize(t, HandleR)

	c.Move(geometry.NewPoint2D(105, 200))

	got := store.Get(d.ID).Box()
	if got.Width() != MinGestureSizePx {
		t.Errorf("width = %v, want %v", got.Width(), float64(MinGestureSizePx))
	}
}

func TestResizeEndRevertsBelowMinimum(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 300, YMax: 300})

	c := NewResizeController(store, nil)
	c.SetViewport(identityViewport())
	c.Start(HandleR, geometry.NewPoint2D(300, 200), d)

	// Force a sub-minimum box directly, then end; the controller restores
	// the starting rectangle.
	store.UpdateBox(d.ID, annotation.Box{XMin: 100, YMin: 100, XMax: 105, YMax: 300})
	c.End()

	got := store.Get(d.ID).Box()
	if got.XMax != 300 {
		t.Errorf("gesture below minimum should revert, got %+v", got)
	}
}

func TestResizeClampsToImage(t *testing.T) {
	store, c, d := startResize(t, HandleBR)

	c.Move(geometry.NewPoint2D(1200, 1200))
	c.End()

	got := store.Get(d.ID).Box()
	if got.XMax != 1000 || got.YMax != 1000 {
		t.Errorf("box should clamp to image bounds, got %+v", got)
	}
}

func TestResizeScalesMinimumWithZoom(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 300, YMax: 300})

	c := NewResizeController(store, nil)
	// At 4x zoom over a half-size render, 20 screen px is 10 image px.
	c.SetViewport(viewportAt(4))
	c.Start(HandleR, geometry.NewPoint2D(0, 0), d)

	// Screen position mapping to image x=105, inside the 10px band.
	p, ok := viewportAt(4).ImageToScreen(geometry.NewPoint2D(105, 200))
	if !ok {
		t.Fatal("ImageToScreen refused")
	}
	c.Move(p)

	got := store.Get(d.ID).Box()
	if got.Width() != 10 {
		t.Errorf("width = %v, want 10 (minimum in image px at 4x zoom)", got.Width())
	}
}

func TestResizePromotesStatus(t *testing.T) {
	store := testStore()
	d := annotation.NewUserDetection(store.UploadID(), annotation.Box{XMin: 100, YMin: 100, XMax: 300, YMax: 300}, annotation.LabelLarva, "tester")
	d.Status = annotation.StatusModelGenerated
	store.Add(d)

	c := NewResizeController(store, nil)
	c.SetViewport(identityViewport())
	c.Start(HandleR, geometry.NewPoint2D(300, 200), d)
	c.Move(geometry.NewPoint2D(400, 200))
	c.End()

	if got := store.Get(d.ID).Status; got != annotation.StatusUserEditedConfirmed {
		t.Errorf("status = %q, want %q", got, annotation.StatusUserEditedConfirmed)
	}
}

func TestResizeRequiresSelection(t *testing.T) {
	store := testStore()
	d := addDetection(store, annotation.Box{XMin: 100, YMin: 100, XMax: 300, YMax: 300})
	store.ClearSelection()

	c := NewResizeController(store, nil)
	c.SetViewport(identityViewport())
	c.Start(HandleR, geometry.NewPoint2D(300, 200), d)
	if c.State() != ResizeIdle {
		t.Error("Start() on an unselected detection should not begin a gesture")
	}
}

func TestParseHandle(t *testing.T) {
	for _, h := range []Handle{HandleTL, HandleT, HandleTR, HandleR, HandleBR, HandleB, HandleBL, HandleL} {
		got, ok := ParseHandle(h.String())
		if !ok || got != h {
			t.Errorf("ParseHandle(%q) = %v, %v", h.String(), got, ok)
		}
	}
	if _, ok := ParseHandle("center"); ok {
		t.Error("ParseHandle should reject unknown names")
	}
}
