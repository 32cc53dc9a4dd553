// Package app provides application-level look and feel.
package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AnnotatorTheme provides a custom theme for the application.
type AnnotatorTheme struct{}

// NewAnnotatorTheme returns the application theme.
func NewAnnotatorTheme() *AnnotatorTheme {
	return &AnnotatorTheme{}
}

var _ fyne.Theme = (*AnnotatorTheme)(nil)

func (t *AnnotatorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0x6E, B: 0xB8, A: 0xFF} // Review blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x00, G: 0xC8, B: 0x53, A: 0x80} // Verified green
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *AnnotatorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *AnnotatorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *AnnotatorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
