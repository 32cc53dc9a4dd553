package annotation

import (
	"roi-annotator/pkg/geometry"
)

// Box is an axis-aligned rectangle in image pixel space. Unlike
// geometry.Rect it is stored edge-wise, matching the detection contract.
type Box struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the box width. Negative for un-normalized boxes.
func (b Box) Width() float64 { return b.XMax - b.XMin }

// Height returns the box height. Negative for un-normalized boxes.
func (b Box) Height() float64 { return b.YMax - b.YMin }

// Normalize orders the edges so that XMin <= XMax and YMin <= YMax.
// Resizing a box past its opposite edge flips it rather than clamping;
// applying Normalize after every move keeps the rectangle well-formed
// without the caller tracking which handle crossed over.
func (b Box) Normalize() Box {
	if b.XMin > b.XMax {
		b.XMin, b.XMax = b.XMax, b.XMin
	}
	if b.YMin > b.YMax {
		b.YMin, b.YMax = b.YMax, b.YMin
	}
	return b
}

// ClampTo limits every edge to [0, size.Width] x [0, size.Height].
// The box may shrink if it extends past the image.
func (b Box) ClampTo(size geometry.Size) Box {
	return Box{
		XMin: geometry.Clamp(b.XMin, 0, size.Width),
		YMin: geometry.Clamp(b.YMin, 0, size.Height),
		XMax: geometry.Clamp(b.XMax, 0, size.Width),
		YMax: geometry.Clamp(b.YMax, 0, size.Height),
	}
}

// TranslateWithin shifts the box by (dx, dy) and slides it back inside the
// image so that its dimensions are preserved. The box sticks to the
// boundary it was pushed against instead of shrinking.
func (b Box) TranslateWithin(dx, dy float64, size geometry.Size) Box {
	w, h := b.Width(), b.Height()

	xMin := b.XMin + dx
	if xMin < 0 {
		xMin = 0
	}
	if xMin+w > size.Width {
		xMin = size.Width - w
	}

	yMin := b.YMin + dy
	if yMin < 0 {
		yMin = 0
	}
	if yMin+h > size.Height {
		yMin = size.Height - h
	}

	return Box{XMin: xMin, YMin: yMin, XMax: xMin + w, YMax: yMin + h}
}

// Rect converts the box to a geometry.Rect.
func (b Box) Rect() geometry.Rect {
	return geometry.NewRect(b.XMin, b.YMin, b.Width(), b.Height())
}

// BoxFromRect converts a geometry.Rect to a Box.
func BoxFromRect(r geometry.Rect) Box {
	return Box{XMin: r.X, YMin: r.Y, XMax: r.X + r.Width, YMax: r.Y + r.Height}
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(p geometry.Point2D) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}
