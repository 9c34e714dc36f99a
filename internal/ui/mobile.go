package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// MobileUI adapts the layout to the device the player runs on
type MobileUI struct {
	device fyne.Device
}

// NewMobileUI creates a helper for the current device
func NewMobileUI() *MobileUI {
	return &MobileUI{device: fyne.CurrentDevice()}
}

// IsMobileDevice checks if the app is running on a mobile device
func (m *MobileUI) IsMobileDevice() bool {
	return m.device != nil && m.device.IsMobile()
}

// IsLandscape returns true if device is in landscape orientation
func (m *MobileUI) IsLandscape() bool {
	if m.device == nil {
		return true
	}
	orientation := m.device.Orientation()
	return orientation == fyne.OrientationHorizontalLeft || orientation == fyne.OrientationHorizontalRight
}

// MainSplit puts the queue beside the orbit view, or below it on a phone
// held upright
func (m *MobileUI) MainSplit(orbitView, queue fyne.CanvasObject) *container.Split {
	if m.IsMobileDevice() && !m.IsLandscape() {
		split := container.NewVSplit(orbitView, queue)
		split.Offset = QueueSplitRatio
		return split
	}
	split := container.NewHSplit(orbitView, queue)
	split.Offset = QueueSplitRatio
	return split
}

// ControlSize is the minimum size for transport buttons
func (m *MobileUI) ControlSize() fyne.Size {
	if m.IsMobileDevice() {
		return fyne.NewSquareSize(MobileButtonHeight)
	}
	return fyne.NewSquareSize(MinTouchTargetSize)
}
