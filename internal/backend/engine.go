package backend

import (
	"errors"

	"github.com/ytget/orbit-player/internal/model"
)

var (
	// ErrNotReady is returned by an engine that has not finished initializing
	ErrNotReady = errors.New("engine not ready")

	// ErrNoEngine is returned when no engine is registered for a track source
	ErrNoEngine = errors.New("no engine for track source")

	// ErrNoMedia is returned when a command needs a loaded track
	ErrNoMedia = errors.New("no media loaded")

	// ErrAudioUnavailable is returned by builds without audio output support
	ErrAudioUnavailable = errors.New("audio output unavailable in this build")

	// ErrWrongSource is returned when a track is loaded into the wrong engine
	ErrWrongSource = errors.New("track source does not match engine")
)

// EventKind enumerates notifications an engine can raise
type EventKind int

const (
	EventReady EventKind = iota
	EventPlaying
	EventPaused
	EventEnded
	EventProgress
	EventMetadata
	EventError
)

// String returns a short name for logging
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventEnded:
		return "ended"
	case EventProgress:
		return "progress"
	case EventMetadata:
		return "metadata"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is an asynchronous notification from an engine
type Event struct {
	Kind     EventKind
	Source   model.TrackSource
	Progress model.Progress
	Err      error
}

// Engine is a single playback backend. Engines deliver events through the sink
// and must never call it while holding a lock that a command also takes.
type Engine interface {
	// Source is the track source tag this engine plays
	Source() model.TrackSource

	// Load prepares the track for playback
	Load(track *model.Track) error

	// Deactivate pauses and hides the engine when another one takes over
	Deactivate()

	Play() error
	Pause() error

	// Seek moves to an absolute position in seconds
	Seek(seconds float64) error

	// Progress reports position and duration; unknown values are NaN
	Progress() model.Progress

	// SetVolume applies a volume in [0,1], rescaled to the engine's native range
	SetVolume(v float64) error

	// ResumesOnLoad reports whether the engine starts playing by itself after Load
	ResumesOnLoad() bool

	// PushesProgress reports whether the engine emits EventProgress on its own
	PushesProgress() bool

	SetEventSink(sink func(Event))
	Close() error
}
