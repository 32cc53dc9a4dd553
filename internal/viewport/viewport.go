// Package viewport converts between pointer (client) coordinates and image
// natural-pixel coordinates, given the view layer's zoom, pan, and
// rendered-image placement.
package viewport

import (
	"math"

	"roi-annotator/pkg/geometry"
)

// Viewport captures one frame of rendering metadata. It is a value supplied
// by the view layer each time the image's on-screen placement changes; the
// conversions are pure functions of it.
//
// The conversion chain for a pointer event is:
//
//	client -> container-local (subtract ContainerOrigin)
//	       -> un-zoomed        (divide by Scale)
//	       -> rendered-local   (subtract Rendered top-left; Rendered
//	                            already reflects the current pan)
//	       -> image pixels     (multiply by Natural / Rendered size)
//
// RotationDeg bends the rendered image about its center; when it is nonzero
// the same chain is expressed as a single affine transform so that both
// directions stay exactly invertible.
type Viewport struct {
	Scale           float64
	ContainerOrigin geometry.Point2D
	Rendered        geometry.Rect // un-zoomed container coordinates
	Natural         geometry.Size // image natural pixel size
	RotationDeg     float64

	// calibrated, when set, replaces the parametric image->screen
	// transform with one fitted from observed corner placements.
	calibrated *geometry.AffineTransform
}

// Valid reports whether the viewport carries enough rendering metadata for
// coordinate conversion. Callers are expected to skip interaction entirely
// while this is false; the conversion methods also refuse degenerate input
// rather than dividing by zero.
func (v Viewport) Valid() bool {
	return v.Scale > 0 && !v.Rendered.IsEmpty() && !v.Natural.IsZero()
}

// imageToScreen builds the affine mapping image pixels to client pixels.
func (v Viewport) imageToScreen() geometry.AffineTransform {
	if v.calibrated != nil {
		return *v.calibrated
	}

	// natural px -> rendered px
	t := geometry.Scaling(v.Rendered.Width/v.Natural.Width, v.Rendered.Height/v.Natural.Height)

	if v.RotationDeg != 0 {
		// rotate about the rendered-image center
		c := geometry.NewPoint2D(v.Rendered.Width/2, v.Rendered.Height/2)
		rot := geometry.Translation(c.X, c.Y).
			Compose(geometry.Rotation(v.RotationDeg * math.Pi / 180)).
			Compose(geometry.Translation(-c.X, -c.Y))
		t = rot.Compose(t)
	}

	// rendered-local -> container-local -> client
	t = geometry.Translation(v.Rendered.X, v.Rendered.Y).Compose(t)
	t = geometry.Scaling(v.Scale, v.Scale).Compose(t)
	return geometry.Translation(v.ContainerOrigin.X, v.ContainerOrigin.Y).Compose(t)
}

// ScreenToImage converts a pointer position in client coordinates to image
// natural-pixel coordinates. Returns ok=false when the viewport is
// degenerate or the transform cannot be inverted; it never panics.
func (v Viewport) ScreenToImage(p geometry.Point2D) (geometry.Point2D, bool) {
	if !v.Valid() {
		return geometry.Point2D{}, false
	}
	inv, ok := v.imageToScreen().Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	return inv.Apply(p), true
}

// ImageToScreen converts an image natural-pixel position to client
// coordinates, the direction used when drawing overlay handles.
func (v Viewport) ImageToScreen(p geometry.Point2D) (geometry.Point2D, bool) {
	if !v.Valid() {
		return geometry.Point2D{}, false
	}
	return v.imageToScreen().Apply(p), true
}

// ScreenDeltaToImage converts a pointer movement in client pixels to image
// pixels. Deltas are unaffected by pan and offsets, only by zoom and the
// natural/rendered ratio (and rotation when present).
func (v Viewport) ScreenDeltaToImage(d geometry.Point2D) (geometry.Point2D, bool) {
	if !v.Valid() {
		return geometry.Point2D{}, false
	}
	inv, ok := v.imageToScreen().Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	origin := inv.Apply(geometry.Point2D{})
	moved := inv.Apply(d)
	return moved.Sub(origin), true
}

// MinSizeInImage converts a minimum gesture size in screen pixels to image
// pixels at the current zoom. Uses the horizontal axis ratio; the engine
// only ever renders images with a uniform aspect mapping.
func (v Viewport) MinSizeInImage(screenPx float64) float64 {
	if !v.Valid() {
		return screenPx
	}
	return screenPx / v.Scale * (v.Natural.Width / v.Rendered.Width)
}

// ImageBoundsOnScreen returns the client-space corner positions of the
// image, in top-left, top-right, bottom-right, bottom-left order.
func (v Viewport) ImageBoundsOnScreen() ([4]geometry.Point2D, bool) {
	if !v.Valid() {
		return [4]geometry.Point2D{}, false
	}
	t := v.imageToScreen()
	w, h := v.Natural.Width, v.Natural.Height
	return [4]geometry.Point2D{
		t.Apply(geometry.NewPoint2D(0, 0)),
		t.Apply(geometry.NewPoint2D(w, 0)),
		t.Apply(geometry.NewPoint2D(w, h)),
		t.Apply(geometry.NewPoint2D(0, h)),
	}, true
}
