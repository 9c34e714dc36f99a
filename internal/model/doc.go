package model

// Package model defines domain data structures used across the app: tracks and
// their source tags, playback state, progress and volume levels. Tracks are
// immutable once created so they can be shared between the playlist, the
// playback engines and the UI without copying.
