package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func pointsClose(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestIdentity(t *testing.T) {
	id := Identity()
	p := NewPoint2D(3.5, -7.25)
	if got := id.Apply(p); !pointsClose(got, p) {
		t.Errorf("Identity().Apply(%v) = %v, want %v", p, got, p)
	}
}

func TestTranslation(t *testing.T) {
	tr := Translation(10, -5)
	got := tr.Apply(NewPoint2D(1, 2))
	want := NewPoint2D(11, -3)
	if !pointsClose(got, want) {
		t.Errorf("Translation(10,-5).Apply((1,2)) = %v, want %v", got, want)
	}
}

func TestScaling(t *testing.T) {
	sc := Scaling(2, 0.5)
	got := sc.Apply(NewPoint2D(4, 8))
	want := NewPoint2D(8, 4)
	if !pointsClose(got, want) {
		t.Errorf("Scaling(2,0.5).Apply((4,8)) = %v, want %v", got, want)
	}
}

func TestRotationQuarterTurn(t *testing.T) {
	rot := Rotation(math.Pi / 2)
	got := rot.Apply(NewPoint2D(1, 0))
	want := NewPoint2D(0, 1)
	if !pointsClose(got, want) {
		t.Errorf("Rotation(pi/2).Apply((1,0)) = %v, want %v", got, want)
	}
}

func TestCompose(t *testing.T) {
	// Scale then translate: t(s(p)).
	s := Scaling(2, 2)
	tr := Translation(10, 20)
	comp := tr.Compose(s)
	got := comp.Apply(NewPoint2D(3, 4))
	want := NewPoint2D(16, 28)
	if !pointsClose(got, want) {
		t.Errorf("Compose().Apply((3,4)) = %v, want %v", got, want)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tf   AffineTransform
	}{
		{"translation", Translation(17, -4)},
		{"scaling", Scaling(3, 0.25)},
		{"rotation", Rotation(0.7)},
		{"composite", Translation(5, 9).Compose(Rotation(1.2)).Compose(Scaling(2, 2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.tf.Inverse()
			if !ok {
				t.Fatal("Inverse() reported singular transform")
			}
			p := NewPoint2D(12.5, -3.75)
			got := inv.Apply(tt.tf.Apply(p))
			if !pointsClose(got, p) {
				t.Errorf("round trip gave %v, want %v", got, p)
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	degenerate := Scaling(0, 0)
	if _, ok := degenerate.Inverse(); ok {
		t.Error("Inverse() of zero scaling should report failure")
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{
		{X: 5, Y: 10},
		{X: -3, Y: 7},
		{X: 2, Y: 15},
	}
	r := BoundingBox(pts)
	if r.X != -3 || r.Y != 7 || r.Width != 8 || r.Height != 8 {
		t.Errorf("BoundingBox = %+v, want {-3 7 8 8}", r)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)
	tests := []struct {
		p    Point2D
		want bool
	}{
		{NewPoint2D(15, 15), true},
		{NewPoint2D(10, 10), true},
		{NewPoint2D(30, 30), true},
		{NewPoint2D(9, 15), false},
		{NewPoint2D(15, 31), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
