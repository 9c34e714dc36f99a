package backend

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/model"
)

// Adapter exposes the registered engines through one uniform interface. At
// most one engine is active; every other engine is deactivated before the
// active one loads a track.
type Adapter struct {
	mu      sync.RWMutex
	engines map[model.TrackSource]Engine
	order   []Engine
	active  Engine
	sink    func(Event)
	log     *zap.Logger
}

// NewAdapter registers the engines by their source tag
func NewAdapter(log *zap.Logger, engines ...Engine) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Adapter{
		engines: make(map[model.TrackSource]Engine, len(engines)),
		log:     log,
	}
	for _, engine := range engines {
		a.engines[engine.Source()] = engine
		a.order = append(a.order, engine)
		engine.SetEventSink(a.forward(engine))
	}
	return a
}

// SetEventSink sets the receiver of engine events
func (a *Adapter) SetEventSink(sink func(Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sink = sink
}

// forward tags events with the engine's source and drops state events from
// engines that are not active
func (a *Adapter) forward(engine Engine) func(Event) {
	return func(ev Event) {
		ev.Source = engine.Source()

		a.mu.RLock()
		sink := a.sink
		active := a.active == engine
		a.mu.RUnlock()

		if !active && ev.Kind != EventReady && ev.Kind != EventError {
			a.log.Debug("dropping event from inactive engine",
				zap.Stringer("source", ev.Source), zap.Stringer("event", ev.Kind))
			return
		}
		if sink != nil {
			sink(ev)
		}
	}
}

// Activate switches to the engine matching the track's source and loads it.
// Without a matching engine every engine is stopped and none stays active.
func (a *Adapter) Activate(track *model.Track) error {
	if track == nil {
		return fmt.Errorf("activate: %w", ErrNoMedia)
	}
	engine, ok := a.engines[track.Source]

	a.mu.Lock()
	a.active = engine
	a.mu.Unlock()

	for _, other := range a.order {
		if other != engine {
			other.Deactivate()
		}
	}
	if !ok {
		return fmt.Errorf("activate %s: %w", track.Source, ErrNoEngine)
	}

	if err := engine.Load(track); err != nil {
		if errors.Is(err, ErrNotReady) {
			a.log.Debug("engine not ready, load dropped",
				zap.Stringer("source", track.Source), zap.String("track", track.ID))
			return nil
		}
		return fmt.Errorf("load %q: %w", track.Title, err)
	}
	return nil
}

// Mode returns the source tag of the active engine, or "" when none is active
func (a *Adapter) Mode() model.TrackSource {
	if engine := a.current(); engine != nil {
		return engine.Source()
	}
	return ""
}

// Play resumes the active engine. Commands to an uninitialized engine are dropped.
func (a *Adapter) Play() error {
	return a.command("play", func(e Engine) error { return e.Play() })
}

// Pause pauses the active engine. Commands to an uninitialized engine are dropped.
func (a *Adapter) Pause() error {
	return a.command("pause", func(e Engine) error { return e.Pause() })
}

// SeekToFraction seeks the active engine to f of the current duration. It is
// a no-op while the duration is unknown.
func (a *Adapter) SeekToFraction(f float64) error {
	engine := a.current()
	if engine == nil {
		return nil
	}
	progress := engine.Progress()
	if !progress.HasDuration() {
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}
	f = math.Max(0, math.Min(1, f))
	return a.command("seek", func(e Engine) error { return e.Seek(f * progress.Duration) })
}

// Progress returns the active engine's position and duration
func (a *Adapter) Progress() model.Progress {
	engine := a.current()
	if engine == nil {
		return model.UnknownProgress
	}
	return engine.Progress()
}

// SetVolume applies the volume to every engine
func (a *Adapter) SetVolume(v float64) error {
	v = model.ClampVolume(v)
	var errs []error
	for _, engine := range a.order {
		if err := engine.SetVolume(v); err != nil && !errors.Is(err, ErrNotReady) {
			errs = append(errs, fmt.Errorf("%s volume: %w", engine.Source(), err))
		}
	}
	return errors.Join(errs...)
}

// ResumesOnLoad reports whether the active engine resumes playback by itself
func (a *Adapter) ResumesOnLoad() bool {
	engine := a.current()
	return engine != nil && engine.ResumesOnLoad()
}

// PushesProgress reports whether the active engine emits its own progress
func (a *Adapter) PushesProgress() bool {
	engine := a.current()
	return engine == nil || engine.PushesProgress()
}

// Close closes every engine
func (a *Adapter) Close() error {
	var errs []error
	for _, engine := range a.order {
		if err := engine.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Adapter) current() Engine {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active
}

func (a *Adapter) command(name string, fn func(Engine) error) error {
	engine := a.current()
	if engine == nil {
		return nil
	}
	err := fn(engine)
	if errors.Is(err, ErrNotReady) {
		a.log.Debug("engine not ready, command dropped",
			zap.String("command", name), zap.Stringer("source", engine.Source()))
		return nil
	}
	return err
}
