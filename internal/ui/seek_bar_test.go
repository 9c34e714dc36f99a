package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestTapFraction(t *testing.T) {
	tests := []struct {
		name   string
		x, w   float32
		want   float64
		wantOK bool
	}{
		{"middle", 50, 200, 0.25, true},
		{"start", 0, 200, 0, true},
		{"end", 200, 200, 1, true},
		{"past end", 250, 200, 1, true},
		{"before start", -5, 200, 0, true},
		{"zero width", 10, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tapFraction(tt.x, tt.w)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("tapFraction(%v, %v) = %v, %v; want %v, %v", tt.x, tt.w, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSeekBarTapped(t *testing.T) {
	test.NewApp()

	var got []float64
	bar := NewSeekBar(func(f float64) { got = append(got, f) })
	bar.Resize(fyne.NewSize(400, 20))

	test.TapAt(bar, fyne.NewPos(200, 5))
	bar.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 5)})

	if len(got) != 2 {
		t.Fatalf("Expected 2 seeks, got %v", got)
	}
	if got[0] != 0.5 {
		t.Errorf("Expected 0.5, got %v", got[0])
	}
	if got[1] != 0.25 {
		t.Errorf("Expected 0.25, got %v", got[1])
	}
	if bar.TextFormatter() != "" {
		t.Error("Seek bar should not render a percentage")
	}
}
