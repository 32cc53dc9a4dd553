package annotation

import (
	"testing"

	"roi-annotator/pkg/geometry"
)

func TestBoxNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Box
		want Box
	}{
		{
			name: "already normal",
			in:   Box{XMin: 10, YMin: 20, XMax: 30, YMax: 40},
			want: Box{XMin: 10, YMin: 20, XMax: 30, YMax: 40},
		},
		{
			name: "swapped x",
			in:   Box{XMin: 30, YMin: 20, XMax: 10, YMax: 40},
			want: Box{XMin: 10, YMin: 20, XMax: 30, YMax: 40},
		},
		{
			name: "swapped both",
			in:   Box{XMin: 30, YMin: 40, XMax: 10, YMax: 20},
			want: Box{XMin: 10, YMin: 20, XMax: 30, YMax: 40},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxClampTo(t *testing.T) {
	size := geometry.NewSize(100, 80)
	tests := []struct {
		name string
		in   Box
		want Box
	}{
		{
			name: "inside untouched",
			in:   Box{XMin: 10, YMin: 10, XMax: 50, YMax: 50},
			want: Box{XMin: 10, YMin: 10, XMax: 50, YMax: 50},
		},
		{
			name: "overflows right and bottom",
			in:   Box{XMin: 60, YMin: 60, XMax: 150, YMax: 120},
			want: Box{XMin: 60, YMin: 60, XMax: 100, YMax: 80},
		},
		{
			name: "negative origin",
			in:   Box{XMin: -20, YMin: -10, XMax: 40, YMax: 30},
			want: Box{XMin: 0, YMin: 0, XMax: 40, YMax: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ClampTo(size); got != tt.want {
				t.Errorf("ClampTo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxTranslateWithin(t *testing.T) {
	size := geometry.NewSize(100, 100)
	base := Box{XMin: 10, YMin: 10, XMax: 40, YMax: 40}

	tests := []struct {
		name   string
		dx, dy float64
		want   Box
	}{
		{
			name: "free move",
			dx:   20, dy: 10,
			want: Box{XMin: 30, YMin: 20, XMax: 60, YMax: 50},
		},
		{
			name: "slides against right edge",
			dx:   80, dy: 0,
			want: Box{XMin: 70, YMin: 10, XMax: 100, YMax: 40},
		},
		{
			name: "slides against top left corner",
			dx:   -50, dy: -50,
			want: Box{XMin: 0, YMin: 0, XMax: 30, YMax: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.TranslateWithin(tt.dx, tt.dy, size)
			if got != tt.want {
				t.Errorf("TranslateWithin(%v, %v) = %+v, want %+v", tt.dx, tt.dy, got, tt.want)
			}
			if w := got.Width(); w != base.Width() {
				t.Errorf("width changed: got %v, want %v", w, base.Width())
			}
			if h := got.Height(); h != base.Height() {
				t.Errorf("height changed: got %v, want %v", h, base.Height())
			}
		})
	}
}
