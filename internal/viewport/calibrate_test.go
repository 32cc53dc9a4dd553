package viewport

import (
	"testing"

	"roi-annotator/pkg/geometry"
)

func TestFitAffineRecoversTransform(t *testing.T) {
	want := geometry.Translation(30, -12).
		Compose(geometry.Rotation(0.4)).
		Compose(geometry.Scaling(1.5, 1.5))

	src := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 80}, {X: 0, Y: 80}, {X: 37, Y: 21},
	}
	dst := make([]geometry.Point2D, len(src))
	for i, p := range src {
		dst[i] = want.Apply(p)
	}

	got, err := FitAffine(src, dst)
	if err != nil {
		t.Fatalf("FitAffine() error: %v", err)
	}

	for _, p := range src {
		a := want.Apply(p)
		b := got.Apply(p)
		if !approx(a.X, b.X) || !approx(a.Y, b.Y) {
			t.Errorf("fitted transform maps %v to %v, want %v", p, b, a)
		}
	}
}

func TestFitAffineErrors(t *testing.T) {
	two := []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}}
	if _, err := FitAffine(two, two); err == nil {
		t.Error("FitAffine() should reject fewer than 3 points")
	}

	three := []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	if _, err := FitAffine(three, two); err == nil {
		t.Error("FitAffine() should reject mismatched point counts")
	}
}

func TestCalibrateMatchesObservedCorners(t *testing.T) {
	v := Viewport{
		Scale:    1,
		Rendered: geometry.NewRect(0, 0, 400, 300),
		Natural:  geometry.NewSize(800, 600),
	}

	// Pretend the view rendered the 800x600 image at half size, shifted
	// by (25, 40).
	observed := [4]geometry.Point2D{
		{X: 25, Y: 40}, {X: 425, Y: 40}, {X: 425, Y: 340}, {X: 25, Y: 340},
	}
	if err := v.Calibrate(observed); err != nil {
		t.Fatalf("Calibrate() error: %v", err)
	}

	img, ok := v.ScreenToImage(geometry.NewPoint2D(225, 190))
	if !ok {
		t.Fatal("ScreenToImage() refused after calibration")
	}
	if !approx(img.X, 400) || !approx(img.Y, 300) {
		t.Errorf("calibrated conversion = %v, want (400,300)", img)
	}

	v.ClearCalibration()
	img2, ok := v.ScreenToImage(geometry.NewPoint2D(200, 150))
	if !ok {
		t.Fatal("ScreenToImage() refused after clearing calibration")
	}
	if !approx(img2.X, 400) || !approx(img2.Y, 300) {
		t.Errorf("parametric conversion = %v, want (400,300)", img2)
	}
}
