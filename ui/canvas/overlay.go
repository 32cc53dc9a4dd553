package canvas

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"roi-annotator/internal/annotation"
	"roi-annotator/internal/interaction"
	"roi-annotator/internal/viewport"
	"roi-annotator/pkg/geometry"
)

// Overlay colors by review state. Selected boxes get the accent color
// regardless of status.
var (
	colorModelGenerated = color.RGBA{R: 255, G: 152, B: 0, A: 255}  // orange
	colorVerified       = color.RGBA{R: 0, G: 200, B: 83, A: 255}   // green
	colorSelected       = color.RGBA{R: 255, G: 235, B: 59, A: 255} // yellow
	colorPreview        = color.RGBA{R: 0, G: 110, B: 184, A: 255}  // blue
	colorHandleFill     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorLabelText      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorLabelBack      = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

const (
	outlineThickness = 2
	handleSize       = 7 // screen px, odd so it centers on the anchor
)

func statusColor(d *annotation.Detection) color.RGBA {
	if d.Verified() {
		return colorVerified
	}
	return colorModelGenerated
}

// handleAnchors returns the screen positions of the eight resize handles,
// indexed by Handle value. Under rotation the anchors follow the mapped
// corners, so handles stay glued to the box.
func handleAnchors(vp viewport.Viewport, box annotation.Box) (map[interaction.Handle]geometry.Point2D, bool) {
	cx := (box.XMin + box.XMax) / 2
	cy := (box.YMin + box.YMax) / 2

	imagePoints := map[interaction.Handle]geometry.Point2D{
		interaction.HandleTL: {X: box.XMin, Y: box.YMin},
		interaction.HandleT:  {X: cx, Y: box.YMin},
		interaction.HandleTR: {X: box.XMax, Y: box.YMin},
		interaction.HandleR:  {X: box.XMax, Y: cy},
		interaction.HandleBR: {X: box.XMax, Y: box.YMax},
		interaction.HandleB:  {X: cx, Y: box.YMax},
		interaction.HandleBL: {X: box.XMin, Y: box.YMax},
		interaction.HandleL:  {X: box.XMin, Y: cy},
	}

	anchors := make(map[interaction.Handle]geometry.Point2D, len(imagePoints))
	for h, p := range imagePoints {
		sp, ok := vp.ImageToScreen(p)
		if !ok {
			return nil, false
		}
		anchors[h] = sp
	}
	return anchors, true
}

// handleAt returns the handle whose anchor is within the hit radius of the
// screen position, or HandleNone.
func (ac *AnnotationCanvas) handleAt(vp viewport.Viewport, d *annotation.Detection, pos geometry.Point2D) interaction.Handle {
	anchors, ok := handleAnchors(vp, d.Box())
	if !ok {
		return interaction.HandleNone
	}
	best := interaction.HandleNone
	bestDist := float64(handleHitRadius)
	for h, anchor := range anchors {
		if dist := anchor.Distance(pos); dist <= bestDist {
			best = h
			bestDist = dist
		}
	}
	return best
}

// drawDetection draws one box: outline, label tag, and, when selected, the
// resize handles.
func (ac *AnnotationCanvas) drawDetection(output *image.RGBA, vp viewport.Viewport, d *annotation.Detection, selected bool) {
	box := d.Box()
	corners := [4]geometry.Point2D{
		{X: box.XMin, Y: box.YMin},
		{X: box.XMax, Y: box.YMin},
		{X: box.XMax, Y: box.YMax},
		{X: box.XMin, Y: box.YMax},
	}
	var screen [4]geometry.Point2D
	for i, p := range corners {
		sp, ok := vp.ImageToScreen(p)
		if !ok {
			return
		}
		screen[i] = sp
	}

	col := statusColor(d)
	if selected {
		col = colorSelected
	}

	for i := 0; i < 4; i++ {
		a, b := screen[i], screen[(i+1)%4]
		drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), col, outlineThickness)
	}

	ac.drawLabelTag(output, d, screen[0])

	if selected {
		anchors, ok := handleAnchors(vp, box)
		if !ok {
			return
		}
		for _, anchor := range anchors {
			drawHandle(output, anchor, col)
		}
	}
}

// drawLabelTag draws the class label (and confidence when present) on a
// dark tab above the box's first corner.
func (ac *AnnotationCanvas) drawLabelTag(output *image.RGBA, d *annotation.Detection, corner geometry.Point2D) {
	text := string(d.Label)
	if ac.showConfidence && d.Confidence != nil {
		text += " " + formatConfidence(*d.Confidence)
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	x := int(corner.X)
	y := int(corner.Y) - height - 2
	if y < 0 {
		y = int(corner.Y) + outlineThickness + 1
	}

	fillRect(output, x, y, x+width+4, y+height+2, colorLabelBack)

	drawer := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(colorLabelText),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x + 2),
			Y: fixed.I(y + face.Metrics().Ascent.Ceil()),
		},
	}
	drawer.DrawString(text)
}

func formatConfidence(c float64) string {
	pct := int(geometry.Clamp(c, 0, 1)*100 + 0.5)
	return fmt.Sprintf("%d%%", pct)
}

// drawPreviewRect draws the dashed rubber band of an in-progress draw
// gesture. The rectangle arrives in content coordinates already.
func (ac *AnnotationCanvas) drawPreviewRect(output *image.RGBA, r geometry.Rect) {
	x1, y1 := int(r.X), int(r.Y)
	x2, y2 := int(r.X+r.Width), int(r.Y+r.Height)
	bounds := output.Bounds()

	dash := func(x, y int) {
		if (x+y)%6 < 3 && x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x, y, colorPreview)
		}
	}
	for x := x1; x <= x2; x++ {
		dash(x, y1)
		dash(x, y2)
	}
	for y := y1; y <= y2; y++ {
		dash(x1, y)
		dash(x2, y)
	}
}

// drawHandle draws one resize handle: a filled square with the selection
// color as border.
func drawHandle(output *image.RGBA, anchor geometry.Point2D, border color.RGBA) {
	half := handleSize / 2
	cx, cy := int(anchor.X), int(anchor.Y)
	fillRect(output, cx-half, cy-half, cx+half, cy+half, border)
	fillRect(output, cx-half+1, cy-half+1, cx+half-1, cy+half-1, colorHandleFill)
}

func fillRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x, y, col)
			}
		}
	}
}

// drawLine draws a thick line between two points using Bresenham's
// algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
