package canvas

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/interaction"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

// annotationContent wraps the raster to receive mouse events and turn them
// into controller gestures.
type annotationContent struct {
	widget.BaseWidget
	canvas *AnnotationCanvas
	raster *fynecanvas.Raster
}

func newAnnotationContent(ac *AnnotationCanvas, raster *fynecanvas.Raster) *annotationContent {
	c := &annotationContent{canvas: ac, raster: raster}
	c.ExtendBaseWidget(c)
	return c
}

func (c *annotationContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

func (c *annotationContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// eventPos converts an event position to content coordinates; the event is
// viewport-relative, so the scroll offset comes back in.
func (c *annotationContent) eventPos(pos fyne.Position) geometry.Point2D {
	offset := c.canvas.scroll.Offset()
	return geometry.NewPoint2D(
		float64(pos.X+offset.X),
		float64(pos.Y+offset.Y),
	)
}

// Dragged begins a gesture on the first event and feeds the owning
// controller on the rest. Drawing wins while draw mode is on; otherwise a
// handle grab resizes and a grab inside the selected box moves it.
func (c *annotationContent) Dragged(ev *fyne.DragEvent) {
	ac := c.canvas
	pos := c.eventPos(ev.Position)
	ac.lastDragPos = pos

	if ac.gesture == gestureNone {
		c.beginGesture(pos, ev)
	}

	switch ac.gesture {
	case gestureDraw:
		ac.drawCtrl.Move(pos)
	case gestureDrag:
		ac.dragCtrl.Move(pos)
	case gestureResize:
		ac.resizeCtrl.Move(pos)
	default:
		return
	}
	ac.Refresh()
}

func (c *annotationContent) beginGesture(pos geometry.Point2D, ev *fyne.DragEvent) {
	ac := c.canvas
	vp := ac.Viewport()
	ac.drawCtrl.SetViewport(vp)
	ac.dragCtrl.SetViewport(vp)
	ac.resizeCtrl.SetViewport(vp)

	// The first Dragged event arrives after the pointer already moved;
	// anchor the gesture at the press position.
	start := geometry.NewPoint2D(pos.X-float64(ev.Dragged.DX), pos.Y-float64(ev.Dragged.DY))

	if ac.drawCtrl.Active() {
		ac.drawCtrl.Start(start)
		ac.gesture = gestureDraw
		return
	}

	selected := ac.store.Selected()
	if selected == nil {
		return
	}
	if h := ac.handleAt(vp, selected, start); h != interaction.HandleNone {
		ac.resizeCtrl.Start(h, start, selected)
		ac.gesture = gestureResize
		return
	}
	if ac.detectionContains(vp, selected, start) {
		ac.dragCtrl.Start(start, selected)
		ac.gesture = gestureDrag
	}
}

// DragEnd finishes whichever gesture is in flight.
func (c *annotationContent) DragEnd() {
	ac := c.canvas
	switch ac.gesture {
	case gestureDraw:
		ac.drawCtrl.End(ac.lastDragPos)
	case gestureDrag:
		ac.dragCtrl.End()
	case gestureResize:
		ac.resizeCtrl.End()
	}
	ac.gesture = gestureNone
	ac.Refresh()
}

func (c *annotationContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		c.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		c.canvas.ZoomOut()
	}
}

// Tapped selects the topmost detection under the click, or clears the
// selection on empty space. The click fired by a finished draw gesture is
// swallowed so it cannot immediately deselect the new box.
func (c *annotationContent) Tapped(ev *fyne.PointEvent) {
	ac := c.canvas
	if ac.drawCtrl.JustFinished() {
		return
	}

	size := c.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	pos := c.eventPos(ev.Position)
	vp := ac.Viewport()

	visible := ac.store.Visible()
	for i := len(visible) - 1; i >= 0; i-- {
		if ac.detectionContains(vp, visible[i], pos) {
			ac.store.Select(visible[i].ID)
			return
		}
	}
	ac.store.ClearSelection()
}

// detectionContains reports whether the screen position falls inside the
// detection's on-screen rectangle.
func (ac *AnnotationCanvas) detectionContains(vp viewport.Viewport, d *annotation.Detection, pos geometry.Point2D) bool {
	img, ok := vp.ScreenToImage(pos)
	if !ok {
		return false
	}
	return d.Box().Contains(img)
}
