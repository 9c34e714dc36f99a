package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconPrevious = "⏮"
	IconNext     = "⏭"
	IconFolder   = "📁"
	IconAdd      = "+"
	IconMusic    = "🎵"
	IconVideo    = "📺"

	IconVolumeMuted = "🔇"
	IconVolumeLow   = "🔉"
	IconVolumeHigh  = "🔊"
)

// Text fragments
const (
	TimeSeparator = " / "
)

// Layout sizing
const (
	WindowWidth  float32 = 900
	WindowHeight float32 = 640

	QueueSplitRatio = 0.68

	RowMinWidth  float32 = 240
	RowMinHeight float32 = 52

	VolumeSliderWidth float32 = 120
	SeekBarHeight     float32 = 18

	// Touch target minimum sizes (iOS/Android guidelines)
	MinTouchTargetSize float32 = 44
	MobileButtonHeight float32 = 48
)

// Orbit view rendering
const (
	OrbitMinSize     float32 = 320
	SunSize          float32 = 96
	OrbitStrokeWidth float32 = 1
)

// Toast notification behavior
const (
	NotificationAutoHide = 5 * time.Second
)

// Volume slider resolution
const (
	VolumeSliderMax  = 100
	VolumeSliderStep = 1
)
