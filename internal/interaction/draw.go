package interaction

import (
	"log/slog"
	"sync"
	"time"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

// MinGestureSizePx is the minimum box dimension, in screen pixels, below
// which a draw or resize gesture is rejected.
const MinGestureSizePx = 20

// suppressionWindow is how long a "just finished drawing" flag stays set so
// the view can ignore the clear-selection click fired by the same gesture.
const suppressionWindow = 100 * time.Millisecond

// DrawState enumerates the draw controller's states.
type DrawState int

const (
	DrawIdle DrawState = iota
	Drawing
)

func (s DrawState) String() string {
	switch s {
	case Drawing:
		return "drawing"
	default:
		return "idle"
	}
}

// DrawController creates a new detection by click-drag. It only arms while
// draw mode is active and the viewport carries full rendering metadata;
// anything else makes Start a silent no-op.
type DrawController struct {
	state   DrawState
	active  bool
	vp      viewport.Viewport
	start   geometry.Point2D // container-local
	current geometry.Point2D
	label   annotation.Label

	store  *annotation.Store
	logger *slog.Logger

	mu           sync.Mutex // guards the suppression flag and its timer
	justFinished bool
	suppress     *time.Timer
}

// NewDrawController constructs a draw controller bound to the store.
func NewDrawController(store *annotation.Store, logger *slog.Logger) *DrawController {
	return &DrawController{store: store, logger: logger, label: annotation.DefaultLabel}
}

// SetDefaultLabel sets the class assigned to newly drawn boxes. Unknown
// labels are ignored.
func (c *DrawController) SetDefaultLabel(l annotation.Label) {
	if annotation.IsKnownLabel(l) {
		c.label = l
	}
}

// DefaultLabel returns the class assigned to newly drawn boxes.
func (c *DrawController) DefaultLabel() annotation.Label { return c.label }

// State returns the current machine state.
func (c *DrawController) State() DrawState { return c.state }

// SetActive toggles draw mode. Leaving draw mode mid-gesture abandons it.
func (c *DrawController) SetActive(active bool) {
	c.active = active
	if !active {
		c.state = DrawIdle
	}
}

// Active reports whether draw mode is on.
func (c *DrawController) Active() bool { return c.active }

// SetViewport updates the rendering metadata used for conversions.
func (c *DrawController) SetViewport(v viewport.Viewport) { c.vp = v }

// Start begins a draw gesture at the given client position. It is a no-op
// unless draw mode is active and image geometry is known.
func (c *DrawController) Start(p geometry.Point2D) {
	if !c.active || !c.vp.Valid() || c.state != DrawIdle {
		return
	}
	local := p.Sub(c.vp.ContainerOrigin)
	c.start = local
	c.current = local
	c.state = Drawing
}

// Move updates the live preview corner. Does nothing outside a gesture.
func (c *DrawController) Move(p geometry.Point2D) {
	if c.state != Drawing {
		return
	}
	c.current = p.Sub(c.vp.ContainerOrigin)
}

// PreviewRect returns the in-progress rubber-band rectangle in
// container-local coordinates, and whether a gesture is live.
func (c *DrawController) PreviewRect() (geometry.Rect, bool) {
	if c.state != Drawing {
		return geometry.Rect{}, false
	}
	return geometry.BoundingBox([]geometry.Point2D{c.start, c.current}), true
}

// End completes the gesture. Boxes smaller than MinGestureSizePx in either
// screen dimension are discarded; otherwise the rectangle is converted to
// image space, clamped to the image, and committed as a user-confirmed
// detection with the configured label and no confidence.
func (c *DrawController) End(p geometry.Point2D) {
	if c.state != Drawing {
		return
	}
	c.state = DrawIdle
	c.current = p.Sub(c.vp.ContainerOrigin)

	r := geometry.BoundingBox([]geometry.Point2D{c.start, c.current})
	if r.Width < MinGestureSizePx || r.Height < MinGestureSizePx {
		if c.logger != nil {
			c.logger.Debug("draw rejected, below minimum size",
				"width", r.Width, "height", r.Height)
		}
		return
	}

	box, ok := c.boxInImageSpace(r)
	if !ok {
		return
	}
	box = box.ClampTo(c.vp.Natural)
	if box.Width() <= 0 || box.Height() <= 0 {
		return
	}

	d := annotation.NewUserDetection(c.store.UploadID(), box, c.label, "")
	c.store.Add(d)
	if c.logger != nil {
		c.logger.Info("detection drawn", "id", d.ID,
			"xMin", d.XMin, "yMin", d.YMin, "xMax", d.XMax, "yMax", d.YMax)
	}
	c.armSuppression()
}

// boxInImageSpace maps a container-local rectangle into image pixel space.
// All four corners are converted so the result stays a bounding box even
// when the view is rotated.
func (c *DrawController) boxInImageSpace(r geometry.Rect) (annotation.Box, bool) {
	corners := []geometry.Point2D{
		r.TopLeft(),
		{X: r.X + r.Width, Y: r.Y},
		r.BottomRight(),
		{X: r.X, Y: r.Y + r.Height},
	}
	mapped := make([]geometry.Point2D, 0, len(corners))
	for _, corner := range corners {
		img, ok := c.vp.ScreenToImage(corner.Add(c.vp.ContainerOrigin))
		if !ok {
			return annotation.Box{}, false
		}
		mapped = append(mapped, img)
	}
	return annotation.BoxFromRect(geometry.BoundingBox(mapped)), true
}

// armSuppression sets the just-finished flag and (re)schedules its reset.
// Re-arming replaces the previous deadline.
func (c *DrawController) armSuppression() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.justFinished = true
	if c.suppress != nil {
		c.suppress.Stop()
	}
	c.suppress = time.AfterFunc(suppressionWindow, func() {
		c.mu.Lock()
		c.justFinished = false
		c.mu.Unlock()
	})
}

// JustFinished reports whether a draw gesture completed within the last
// suppression window. The enclosing view uses it to swallow the
// clear-selection click triggered by the same mouse release.
func (c *DrawController) JustFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.justFinished
}
