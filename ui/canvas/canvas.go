// Package canvas provides the annotation canvas: the image at the current
// zoom and rotation, detection overlays, and the pointer gestures that draw,
// move, and resize boxes.
package canvas

import (
	"image"
	"log/slog"
	"math"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/imageio"
	"roi-annotator/internal/interaction"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// handleHitRadius is the pointer slop, in screen pixels, for grabbing a
	// resize handle.
	handleHitRadius = 8
)

// AnnotationCanvas displays one image with its detection boxes and routes
// pointer events into the draw, drag, and resize controllers.
type AnnotationCanvas struct {
	widget.BaseWidget

	layer *imageio.Layer
	store *annotation.Store

	drawCtrl   *interaction.DrawController
	dragCtrl   *interaction.DragController
	resizeCtrl *interaction.ResizeController

	zoom           float64
	rotationDeg    float64
	showConfidence bool

	raster  *fynecanvas.Raster
	scroll  *zoomScroll
	content *annotationContent
	imgSize fyne.Size

	// gesture is which controller owns the drag in flight, if any.
	gesture     gestureKind
	lastDragPos geometry.Point2D

	logger *slog.Logger

	onZoomChange func(zoom float64)
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDraw
	gestureDrag
	gestureResize
)

// NewAnnotationCanvas creates a canvas bound to the store. The controllers
// commit through the store; the canvas only converts and routes events.
func NewAnnotationCanvas(store *annotation.Store, logger *slog.Logger) *AnnotationCanvas {
	ac := &AnnotationCanvas{
		store:          store,
		zoom:           1.0,
		showConfidence: true,
		imgSize:        fyne.NewSize(400, 300),
		drawCtrl:       interaction.NewDrawController(store, logger),
		dragCtrl:       interaction.NewDragController(store, logger),
		resizeCtrl:     interaction.NewResizeController(store, logger),
		logger:         logger,
	}

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)

	ac.content = newAnnotationContent(ac, ac.raster)
	ac.scroll = newZoomScroll(ac.content, ac)

	store.On(annotation.EventDetectionsChanged, func(interface{}) { ac.Refresh() })
	store.On(annotation.EventSelectionChanged, func(interface{}) { ac.Refresh() })
	store.On(annotation.EventFilterChanged, func(interface{}) { ac.Refresh() })

	ac.ExtendBaseWidget(ac)
	return ac
}

// Container returns the canvas wrapped in its scroll container for
// embedding in layouts.
func (ac *AnnotationCanvas) Container() fyne.CanvasObject {
	return ac.scroll
}

// SetLayer sets the image to annotate. Resets rotation; zoom is kept so a
// user stepping through images at a working zoom stays there.
func (ac *AnnotationCanvas) SetLayer(layer *imageio.Layer) {
	ac.layer = layer
	ac.rotationDeg = 0
	ac.updateContentSize()
}

// Layer returns the current image layer, or nil.
func (ac *AnnotationCanvas) Layer() *imageio.Layer {
	return ac.layer
}

// SetDrawMode toggles box drawing. While off, drags move or resize the
// selected detection instead.
func (ac *AnnotationCanvas) SetDrawMode(on bool) {
	ac.drawCtrl.SetActive(on)
	ac.Refresh()
}

// DrawMode reports whether box drawing is on.
func (ac *AnnotationCanvas) DrawMode() bool {
	return ac.drawCtrl.Active()
}

// SetDefaultLabel sets the class assigned to newly drawn boxes.
func (ac *AnnotationCanvas) SetDefaultLabel(l annotation.Label) {
	ac.drawCtrl.SetDefaultLabel(l)
}

// SetShowConfidence toggles the confidence percentage on overlay labels.
func (ac *AnnotationCanvas) SetShowConfidence(show bool) {
	ac.showConfidence = show
	ac.Refresh()
}

// Viewport returns the rendering metadata for the current frame. When the
// image is rotated the transform is fitted from the rotated corner
// placements so pointer math matches the rendered pixels exactly.
func (ac *AnnotationCanvas) Viewport() viewport.Viewport {
	if ac.layer == nil {
		return viewport.Viewport{}
	}
	natural := ac.layer.NaturalSize()
	vp := viewport.Viewport{
		Scale:    ac.zoom,
		Rendered: geometry.NewRect(0, 0, natural.Width, natural.Height),
		Natural:  natural,
	}
	if ac.rotationDeg != 0 {
		corners := ac.rotatedCorners()
		if err := vp.Calibrate(corners); err != nil && ac.logger != nil {
			ac.logger.Error("viewport calibration failed", "error", err)
		}
	}
	return vp
}

// rotatedCorners returns the screen positions of the image corners after
// rotation, shifted so the rotated bounding box starts at the origin. The
// corners come from the parametric rotated viewport; shifting only moves
// the translation, so the calibrated fit reproduces the same rotation.
func (ac *AnnotationCanvas) rotatedCorners() [4]geometry.Point2D {
	natural := ac.layer.NaturalSize()
	vp := viewport.Viewport{
		Scale:       ac.zoom,
		Rendered:    geometry.NewRect(0, 0, natural.Width, natural.Height),
		Natural:     natural,
		RotationDeg: ac.rotationDeg,
	}
	corners, ok := vp.ImageBoundsOnScreen()
	if !ok {
		return corners
	}

	bounds := geometry.BoundingBox(corners[:])
	for i := range corners {
		corners[i].X -= bounds.X
		corners[i].Y -= bounds.Y
	}
	return corners
}

// SetZoom sets the zoom level, clamped to the supported range.
func (ac *AnnotationCanvas) SetZoom(zoom float64) {
	zoom = geometry.Clamp(zoom, minZoom, maxZoom)
	ac.zoom = zoom
	ac.updateContentSize()

	if ac.onZoomChange != nil {
		ac.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (ac *AnnotationCanvas) Zoom() float64 {
	return ac.zoom
}

// ZoomIn increases the zoom level one step.
func (ac *AnnotationCanvas) ZoomIn() {
	ac.SetZoom(ac.zoom * zoomStep)
}

// ZoomOut decreases the zoom level one step.
func (ac *AnnotationCanvas) ZoomOut() {
	ac.SetZoom(ac.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the whole image is visible.
func (ac *AnnotationCanvas) FitToWindow() {
	if ac.layer == nil {
		return
	}
	natural := ac.layer.NaturalSize()
	viewSize := ac.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 || natural.IsZero() {
		return
	}

	zoomX := float64(viewSize.Width) / natural.Width
	zoomY := float64(viewSize.Height) / natural.Height
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ac.SetZoom(zoom * 0.95) // small margin
}

// RotateClockwise rotates the view a quarter turn. Detections keep their
// natural coordinates; only the rendering and pointer transforms change.
func (ac *AnnotationCanvas) RotateClockwise() {
	ac.rotationDeg = math.Mod(ac.rotationDeg+90, 360)
	ac.updateContentSize()
}

// Rotation returns the current view rotation in degrees.
func (ac *AnnotationCanvas) Rotation() float64 {
	return ac.rotationDeg
}

// OnZoomChange sets a callback for zoom changes.
func (ac *AnnotationCanvas) OnZoomChange(callback func(zoom float64)) {
	ac.onZoomChange = callback
}

// Refresh redraws the canvas.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
}

// renderedBounds returns the on-screen pixel size of the (possibly
// rotated) image at the current zoom.
func (ac *AnnotationCanvas) renderedBounds() (w, h float64) {
	if ac.layer == nil {
		return 0, 0
	}
	natural := ac.layer.NaturalSize()
	if ac.rotationDeg == 0 {
		return natural.Width * ac.zoom, natural.Height * ac.zoom
	}
	corners := ac.rotatedCorners()
	bounds := geometry.BoundingBox(corners[:])
	return bounds.Width, bounds.Height
}

func (ac *AnnotationCanvas) updateContentSize() {
	w, h := ac.renderedBounds()
	if w == 0 || h == 0 {
		ac.imgSize = fyne.NewSize(400, 300)
	} else {
		ac.imgSize = fyne.NewSize(float32(w), float32(h))
	}

	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	if ac.content != nil {
		ac.content.Resize(ac.imgSize)
		ac.content.Refresh()
	}
	ac.raster.Refresh()
	if ac.scroll != nil {
		ac.scroll.Refresh()
	}
}

// draw is the raster drawing function: image first, then the detection
// overlays and any in-progress rubber band.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if ac.layer == nil || ac.layer.Image == nil {
		return output
	}

	vp := ac.Viewport()
	ac.compositeImage(output, vp, w, h)

	filter := ac.store.Filter()
	if filter.Mode == annotation.ViewImageOnly || filter.Mode == annotation.ViewNone {
		return output
	}

	selected := ac.store.SelectedID()
	for _, d := range ac.store.Visible() {
		ac.drawDetection(output, vp, d, d.ID == selected)
	}

	if r, live := ac.drawCtrl.PreviewRect(); live {
		ac.drawPreviewRect(output, r)
	}
	return output
}

// compositeImage renders the source image into the output. The unrotated
// case goes through the bilinear scaler; rotation falls back to sampling
// every output pixel through the inverse viewport transform.
func (ac *AnnotationCanvas) compositeImage(output *image.RGBA, vp viewport.Viewport, w, h int) {
	src := ac.layer.Image

	if ac.rotationDeg == 0 {
		rw, rh := ac.renderedBounds()
		dst := image.Rect(0, 0, int(rw), int(rh))
		xdraw.ApproxBiLinear.Scale(output, dst, src, src.Bounds(), xdraw.Src, nil)
		return
	}

	srcBounds := src.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img, ok := vp.ScreenToImage(geometry.NewPoint2D(float64(x), float64(y)))
			if !ok {
				return
			}
			sx := srcBounds.Min.X + int(img.X)
			sy := srcBounds.Min.Y + int(img.Y)
			if sx < srcBounds.Min.X || sx >= srcBounds.Max.X ||
				sy < srcBounds.Min.Y || sy >= srcBounds.Max.Y {
				continue
			}
			output.Set(x, y, src.At(sx, sy))
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &annotationCanvasRenderer{canvas: ac}
}

type annotationCanvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *annotationCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *annotationCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *annotationCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *annotationCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *annotationCanvasRenderer) Destroy() {}

// zoomScroll wraps a scroll container but routes the wheel to zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *AnnotationCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *AnnotationCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}
