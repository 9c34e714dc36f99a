package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// SeekBar is a progress bar that reports the tapped fraction
type SeekBar struct {
	widget.ProgressBar
	onSeek func(fraction float64)
}

var _ fyne.Tappable = (*SeekBar)(nil)

// NewSeekBar creates an empty seek bar
func NewSeekBar(onSeek func(fraction float64)) *SeekBar {
	s := &SeekBar{onSeek: onSeek}
	s.Max = 1
	s.TextFormatter = func() string { return "" }
	s.ExtendBaseWidget(s)
	return s
}

// Tapped seeks to the tapped position
func (s *SeekBar) Tapped(ev *fyne.PointEvent) {
	if s.onSeek == nil {
		return
	}
	fraction, ok := tapFraction(ev.Position.X, s.Size().Width)
	if ok {
		s.onSeek(fraction)
	}
}

// MinSize keeps the bar easy to hit
func (s *SeekBar) MinSize() fyne.Size {
	size := s.ProgressBar.MinSize()
	return fyne.NewSize(size.Width, max(size.Height, SeekBarHeight))
}

// tapFraction maps an x offset to [0,1]; a zero-width bar has no fraction
func tapFraction(x, width float32) (float64, bool) {
	if width <= 0 {
		return 0, false
	}
	f := float64(x / width)
	return min(max(f, 0), 1), true
}
