package model

// PlaybackState represents the observable state of the transport
type PlaybackState string

const (
	// StateStopped means no track is loaded
	StateStopped PlaybackState = "Stopped"

	// StatePaused means a track is loaded but not playing
	StatePaused PlaybackState = "Paused"

	// StatePlaying means the active engine reported playback
	StatePlaying PlaybackState = "Playing"
)

// String returns the string representation of PlaybackState
func (ps PlaybackState) String() string {
	return string(ps)
}

// IsLoaded returns true if a track is loaded (paused or playing)
func (ps PlaybackState) IsLoaded() bool {
	return ps == StatePaused || ps == StatePlaying
}

// StateFor derives the playback state from the loaded and playing flags
func StateFor(loaded, playing bool) PlaybackState {
	switch {
	case !loaded:
		return StateStopped
	case playing:
		return StatePlaying
	default:
		return StatePaused
	}
}
