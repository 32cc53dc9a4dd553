package viewport

import (
	"fmt"

	"roi-annotator/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Calibrate fits the image->screen transform from observed corner
// placements instead of the parametric chain. screenCorners are the client
// positions of the image's corners in top-left, top-right, bottom-right,
// bottom-left order, as measured by the view layer after it has laid the
// image out. Pointer math then matches the rendered output exactly even
// when the view applied rotation or non-uniform scaling of its own.
func (v *Viewport) Calibrate(screenCorners [4]geometry.Point2D) error {
	if v.Natural.IsZero() {
		return fmt.Errorf("calibrate: image natural size unknown")
	}
	w, h := v.Natural.Width, v.Natural.Height
	src := []geometry.Point2D{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
	}
	t, err := FitAffine(src, screenCorners[:])
	if err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	v.calibrated = &t
	return nil
}

// ClearCalibration reverts to the parametric transform.
func (v *Viewport) ClearCalibration() {
	v.calibrated = nil
}

// FitAffine computes the affine transform mapping src points onto dst
// points by least squares. At least 3 non-collinear correspondences are
// required; with more the system is overdetermined and solved by QR.
func FitAffine(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	if len(src) != len(dst) {
		return geometry.AffineTransform{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("need at least 3 points, got %d", n)
	}

	// Build the system: [x', y'] = [a, b, tx; c, d, ty] * [x, y, 1]
	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// x' = a*x + b*y + tx
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		// y' = c*x + d*y + ty
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.AffineTransform{}, err
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}
