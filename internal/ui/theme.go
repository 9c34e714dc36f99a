package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/orbit-player/internal/config"
)

// PlayerTheme is a compact theme pinned to the dark or light variant chosen in
// settings, regardless of the system preference.
type PlayerTheme struct {
	variant fyne.ThemeVariant
}

// NewPlayerTheme creates the theme for a settings variant
func NewPlayerTheme(v config.ThemeVariant) fyne.Theme {
	return &PlayerTheme{variant: VariantFor(v)}
}

// VariantFor maps a settings variant to the Fyne variant
func VariantFor(v config.ThemeVariant) fyne.ThemeVariant {
	if v == config.ThemeLight {
		return theme.VariantLight
	}
	return theme.VariantDark
}

// Palette colors shared by the theme and the orbit view
var (
	ColorAccent     = color.NRGBA{R: 138, G: 92, B: 246, A: 255} // violet
	ColorSun        = color.NRGBA{R: 255, G: 183, B: 77, A: 255}
	ColorPlanet     = color.NRGBA{R: 79, G: 195, B: 247, A: 255}
	ColorPlanetLink = color.NRGBA{R: 239, G: 83, B: 80, A: 255} // external tracks
	ColorOrbitDark  = color.NRGBA{R: 255, G: 255, B: 255, A: 40}
	ColorOrbitLight = color.NRGBA{R: 0, G: 0, B: 0, A: 40}
)

// Color returns theme colors
func (t *PlayerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	variant := t.variant
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return ColorAccent
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 12, G: 12, B: 24, A: 255} // night sky
		}
		return color.RGBA{R: 246, G: 246, B: 250, A: 255}
	case theme.ColorNameForeground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{R: 33, G: 33, B: 33, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// OrbitColor is the color of orbit rings for the theme variant
func (t *PlayerTheme) OrbitColor() color.Color {
	if t.variant == theme.VariantLight {
		return ColorOrbitLight
	}
	return ColorOrbitDark
}

// Font returns theme fonts
func (t *PlayerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *PlayerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *PlayerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}
