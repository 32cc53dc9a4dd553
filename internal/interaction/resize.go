package interaction

import (
	"log/slog"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

// ResizeState enumerates the resize controller's states.
type ResizeState int

const (
	ResizeIdle ResizeState = iota
	Resizing
)

func (s ResizeState) String() string {
	switch s {
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// ResizeController resizes the selected detection through one of the eight
// handles. The handle's owned edges follow the pointer; dragging an edge
// across its opposite flips the rectangle continuously instead of clamping,
// and normalization after every move keeps min < max without the controller
// re-deriving which handle the user is now conceptually holding.
type ResizeController struct {
	state  ResizeState
	vp     viewport.Viewport
	handle Handle

	targetID string
	startBox annotation.Box

	store  *annotation.Store
	logger *slog.Logger
}

// NewResizeController constructs a resize controller bound to the store.
func NewResizeController(store *annotation.Store, logger *slog.Logger) *ResizeController {
	return &ResizeController{store: store, logger: logger}
}

// State returns the current machine state.
func (c *ResizeController) State() ResizeState { return c.state }

// SetViewport updates the rendering metadata used for conversions.
func (c *ResizeController) SetViewport(v viewport.Viewport) { c.vp = v }

// Start begins resizing the given detection by the given handle. No-op
// unless the detection is the current selection and the viewport is usable.
func (c *ResizeController) Start(h Handle, p geometry.Point2D, d *annotation.Detection) {
	if d == nil || h == HandleNone || c.state != ResizeIdle || !c.vp.Valid() {
		return
	}
	if c.store.SelectedID() != d.ID {
		return
	}
	c.handle = h
	c.targetID = d.ID
	c.startBox = d.Box()
	c.state = Resizing
}

// Move recomputes the owned edges from the pointer position in image
// space, enforcing the minimum size and the image bounds, and commits the
// normalized result.
func (c *ResizeController) Move(p geometry.Point2D) {
	if c.state != Resizing {
		return
	}
	img, ok := c.vp.ScreenToImage(p)
	if !ok {
		return
	}
	minSize := c.vp.MinSizeInImage(MinGestureSizePx)

	// Edges are resolved against the starting rectangle, not the last
	// committed one, so the fixed edge stays fixed across a flip.
	box := c.startBox
	if c.handle.movesLeft() {
		box.XMin, box.XMax = resolveEdge(img.X, c.startBox.XMax, minSize)
	} else if c.handle.movesRight() {
		box.XMin, box.XMax = resolveEdgeFlipped(img.X, c.startBox.XMin, minSize)
	}
	if c.handle.movesTop() {
		box.YMin, box.YMax = resolveEdge(img.Y, c.startBox.YMax, minSize)
	} else if c.handle.movesBottom() {
		box.YMin, box.YMax = resolveEdgeFlipped(img.Y, c.startBox.YMin, minSize)
	}

	box = box.Normalize().ClampTo(c.vp.Natural)
	if box.Width() <= 0 || box.Height() <= 0 {
		return
	}
	c.store.UpdateBox(c.targetID, box)
}

// End commits the gesture. A final box below the minimum size in either
// axis aborts the whole gesture, restoring the starting rectangle.
func (c *ResizeController) End() {
	if c.state != Resizing {
		return
	}
	c.state = ResizeIdle

	minSize := c.vp.MinSizeInImage(MinGestureSizePx)
	final := c.store.Get(c.targetID)
	if final != nil {
		b := final.Box()
		if b.Width() < minSize || b.Height() < minSize {
			c.store.UpdateBox(c.targetID, c.startBox)
			if c.logger != nil {
				c.logger.Debug("resize reverted, below minimum size", "id", c.targetID)
			}
		}
	}
	c.handle = HandleNone
	c.targetID = ""
}

// resolveEdge places a moved low edge (left or top) relative to its fixed
// opposite, returning the ordered (lo, hi) pair. The moved edge may not
// come within min of the opposite: inside that band it snaps to min width
// on whichever side of the opposite the pointer is, which is what makes
// the flip continuous rather than a clamp.
func resolveEdge(moved, opposite, min float64) (lo, hi float64) {
	switch {
	case moved <= opposite-min:
		return moved, opposite
	case moved >= opposite+min:
		return opposite, moved // crossed: flipped
	case moved < opposite:
		return opposite - min, opposite
	default:
		return opposite, opposite + min
	}
}

// resolveEdgeFlipped is resolveEdge for a moved high edge (right or
// bottom) with a fixed low opposite.
func resolveEdgeFlipped(moved, opposite, min float64) (lo, hi float64) {
	switch {
	case moved >= opposite+min:
		return opposite, moved
	case moved <= opposite-min:
		return moved, opposite // crossed: flipped
	case moved > opposite:
		return opposite, opposite + min
	default:
		return opposite - min, opposite
	}
}
