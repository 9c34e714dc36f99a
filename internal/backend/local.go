package backend

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/model"
)

// LocalProgressInterval is how often the local engine reports its position
// while playing
const LocalProgressInterval = 250 * time.Millisecond

// audioPlayer is the audio output used by LocalEngine. The real implementation
// depends on cgo; see player_cgo.go and player_nocgo.go.
type audioPlayer interface {
	load(name string, data []byte, onDone func()) (time.Duration, error)
	resume() error
	pause()
	stop()
	position() time.Duration
	duration() time.Duration
	seek(d time.Duration) error
	setVolume(v float64)
}

// LocalEngine plays audio files held in memory
type LocalEngine struct {
	mu         sync.Mutex
	player     audioPlayer
	sink       func(Event)
	generation uint64 // incremented per Load, guards stale end-of-stream callbacks
	loaded     bool
	playing    bool
	ticker     *Poller
	log        *zap.Logger
}

// NewLocalEngine creates a local engine using the build's audio output
func NewLocalEngine(log *zap.Logger) *LocalEngine {
	return newLocalEngine(log, newPlayer())
}

func newLocalEngine(log *zap.Logger, player audioPlayer) *LocalEngine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &LocalEngine{
		player: player,
		log:    log,
	}
	e.ticker = NewPoller(LocalProgressInterval, e.reportProgress)
	return e
}

// Source implements Engine
func (e *LocalEngine) Source() model.TrackSource {
	return model.SourceLocal
}

// SetEventSink implements Engine
func (e *LocalEngine) SetEventSink(sink func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Load decodes the track's file and leaves it paused at the start
func (e *LocalEngine) Load(track *model.Track) error {
	if track.Source != model.SourceLocal || track.File == nil {
		return ErrWrongSource
	}

	e.mu.Lock()
	e.ticker.Stop()
	e.generation++
	gen := e.generation
	e.playing = false
	e.loaded = false
	dur, err := e.player.load(track.File.Name, track.File.Data, func() { e.onEnded(gen) })
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("decode %s: %w", track.File.Name, err)
	}
	e.loaded = true
	e.mu.Unlock()

	e.log.Debug("local track loaded", zap.String("title", track.Title), zap.Duration("duration", dur))
	e.emit(Event{Kind: EventMetadata, Progress: model.Progress{CurrentTime: 0, Duration: seconds(dur)}})
	return nil
}

// Deactivate pauses output without raising events
func (e *LocalEngine) Deactivate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ticker.Stop()
	if e.loaded {
		e.player.pause()
	}
	e.playing = false
}

// Play resumes output. A rejected start leaves the engine paused.
func (e *LocalEngine) Play() error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNoMedia
	}
	if err := e.player.resume(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("start playback: %w", err)
	}
	e.playing = true
	e.ticker.Start(context.Background())
	e.mu.Unlock()

	e.emit(Event{Kind: EventPlaying})
	return nil
}

// Pause pauses output
func (e *LocalEngine) Pause() error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return nil
	}
	e.player.pause()
	e.playing = false
	e.ticker.Stop()
	e.mu.Unlock()

	e.emit(Event{Kind: EventPaused})
	return nil
}

// Seek moves to an absolute position in seconds
func (e *LocalEngine) Seek(sec float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNoMedia
	}
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	return e.player.seek(time.Duration(sec * float64(time.Second)))
}

// Progress implements Engine
func (e *LocalEngine) Progress() model.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return model.UnknownProgress
	}
	return model.Progress{
		CurrentTime: e.player.position().Seconds(),
		Duration:    seconds(e.player.duration()),
	}
}

// SetVolume applies a linear volume in [0,1]
func (e *LocalEngine) SetVolume(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.player.setVolume(model.ClampVolume(v))
	return nil
}

// ResumesOnLoad implements Engine. Loading a file never starts output.
func (e *LocalEngine) ResumesOnLoad() bool {
	return false
}

// PushesProgress implements Engine
func (e *LocalEngine) PushesProgress() bool {
	return true
}

// Close stops output
func (e *LocalEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ticker.Stop()
	e.player.stop()
	e.loaded = false
	e.playing = false
	return nil
}

// IsPlaying reports whether output is running
func (e *LocalEngine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *LocalEngine) onEnded(gen uint64) {
	e.mu.Lock()
	if gen != e.generation || !e.loaded {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.ticker.Stop()
	e.mu.Unlock()

	e.emit(Event{Kind: EventEnded})
}

func (e *LocalEngine) reportProgress() {
	progress := e.Progress()
	e.emit(Event{Kind: EventProgress, Progress: progress})
}

func (e *LocalEngine) emit(ev Event) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		sink(ev)
	}
}

func seconds(d time.Duration) float64 {
	if d <= 0 {
		return math.NaN()
	}
	return d.Seconds()
}
