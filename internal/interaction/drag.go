package interaction

import (
	"log/slog"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

// DragState enumerates the drag controller's states.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
)

func (s DragState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// DragController translates the selected detection. The translated box is
// slid along the image boundary rather than shrunk when it would leave the
// image.
type DragController struct {
	state DragState
	vp    viewport.Viewport

	targetID     string
	startPointer geometry.Point2D // client coordinates
	startBox     annotation.Box

	store  *annotation.Store
	logger *slog.Logger
}

// NewDragController constructs a drag controller bound to the store.
func NewDragController(store *annotation.Store, logger *slog.Logger) *DragController {
	return &DragController{store: store, logger: logger}
}

// State returns the current machine state.
func (c *DragController) State() DragState { return c.state }

// SetViewport updates the rendering metadata used for conversions.
func (c *DragController) SetViewport(v viewport.Viewport) { c.vp = v }

// Start begins dragging the given detection from the given client
// position. No-op unless the detection is the current selection and the
// viewport is usable.
func (c *DragController) Start(p geometry.Point2D, d *annotation.Detection) {
	if d == nil || c.state != DragIdle || !c.vp.Valid() {
		return
	}
	if c.store.SelectedID() != d.ID {
		return
	}
	c.targetID = d.ID
	c.startPointer = p
	c.startBox = d.Box()
	c.state = Dragging
}

// Move translates the detection by the pointer delta converted to image
// pixels, keeping its dimensions inside the image bounds.
func (c *DragController) Move(p geometry.Point2D) {
	if c.state != Dragging {
		return
	}
	delta, ok := c.vp.ScreenDeltaToImage(p.Sub(c.startPointer))
	if !ok {
		return
	}
	box := c.startBox.TranslateWithin(delta.X, delta.Y, c.vp.Natural)
	c.store.UpdateBox(c.targetID, box)
}

// End finalizes the gesture. The last committed geometry stands; dirty
// state falls out of the snapshot diff.
func (c *DragController) End() {
	if c.state != Dragging {
		return
	}
	if c.logger != nil {
		c.logger.Debug("drag finished", "id", c.targetID)
	}
	c.state = DragIdle
	c.targetID = ""
}
