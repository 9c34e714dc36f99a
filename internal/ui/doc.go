package ui

// Package ui contains the Fyne-based desktop user interface for the player.
// It renders the transport controls, the orbit visualization and the queue,
// and forwards user actions to the transport controller. All UI strings are
// localized via Localization.
