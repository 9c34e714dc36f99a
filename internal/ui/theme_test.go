package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"

	"github.com/ytget/orbit-player/internal/config"
)

func TestVariantFor(t *testing.T) {
	if VariantFor(config.ThemeLight) != theme.VariantLight {
		t.Error("Light settings should map to the light variant")
	}
	if VariantFor(config.ThemeDark) != theme.VariantDark {
		t.Error("Dark settings should map to the dark variant")
	}
	if VariantFor("unknown") != theme.VariantDark {
		t.Error("Unknown settings should fall back to dark")
	}
}

func TestPlayerThemeIgnoresSystemVariant(t *testing.T) {
	light := NewPlayerTheme(config.ThemeLight)
	dark := NewPlayerTheme(config.ThemeDark)

	if light.Color(theme.ColorNameBackground, theme.VariantDark) == dark.Color(theme.ColorNameBackground, theme.VariantDark) {
		t.Error("Light and dark themes should differ in background")
	}
	if light.Color(theme.ColorNameBackground, theme.VariantDark) != light.Color(theme.ColorNameBackground, theme.VariantLight) {
		t.Error("Theme should ignore the system variant")
	}
	if light.Color(theme.ColorNamePrimary, theme.VariantLight) != ColorAccent {
		t.Error("Primary color should be the accent")
	}
	if got := light.Size(theme.SizeNamePadding); got != 3 {
		t.Errorf("Expected compact padding 3, got %v", got)
	}
}

func TestPlayerThemeOrbitColor(t *testing.T) {
	light := NewPlayerTheme(config.ThemeLight).(*PlayerTheme)
	dark := NewPlayerTheme(config.ThemeDark).(*PlayerTheme)

	if light.OrbitColor() != ColorOrbitLight {
		t.Error("Light theme should use light orbit rings")
	}
	if dark.OrbitColor() != ColorOrbitDark {
		t.Error("Dark theme should use dark orbit rings")
	}
}
