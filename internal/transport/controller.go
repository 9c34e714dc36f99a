package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/backend"
	"github.com/ytget/orbit-player/internal/model"
	"github.com/ytget/orbit-player/internal/platform"
	"github.com/ytget/orbit-player/internal/playlist"
)

// Backend is the playback surface the controller drives
type Backend interface {
	Activate(track *model.Track) error
	Mode() model.TrackSource
	Play() error
	Pause() error
	SeekToFraction(f float64) error
	Progress() model.Progress
	SetVolume(v float64) error
	ResumesOnLoad() bool
	PushesProgress() bool
	SetEventSink(sink func(backend.Event))
}

// PlaylistResolver expands playlist URLs
type PlaylistResolver interface {
	Resolve(ctx context.Context, url string) (*model.RemotePlaylist, error)
}

// Snapshot is the observable controller state
type Snapshot struct {
	Tracks  []*model.Track
	Cursor  int
	Current *model.Track
	Mode    model.TrackSource
	Playing bool
	State   model.PlaybackState
	Volume  float64
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPollInterval sets how often progress is polled from engines that do
// not push it
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.pollInterval = d
	}
}

// WithResolver enables playlist URL expansion
func WithResolver(r PlaylistResolver) Option {
	return func(c *Controller) {
		c.resolver = r
	}
}

// Controller is the transport state machine. Every public operation runs as
// one event on the loop started by Run, so operations block until Run is
// running. Callbacks are invoked on the loop and must not call back into the
// controller synchronously.
type Controller struct {
	backend      Backend
	store        *playlist.Store
	resolver     PlaylistResolver
	log          *zap.Logger
	pollInterval time.Duration
	poller       *backend.Poller

	// pending holds loop work in arrival order; wake signals that it is non-empty
	queueMu sync.Mutex
	pending []func()
	wake    chan struct{}
	stopped chan struct{}
	ctx     context.Context

	// loop-owned state
	cursor  int
	playing bool
	volume  float64

	cbMu       sync.Mutex
	onUpdate   func(Snapshot)
	onProgress func(model.Progress)
}

// New creates a controller and subscribes it to the backend's events
func New(b Backend, store *playlist.Store, opts ...Option) *Controller {
	c := &Controller{
		backend:      b,
		store:        store,
		log:          zap.NewNop(),
		pollInterval: backend.DefaultPollInterval,
		wake:         make(chan struct{}, 1),
		stopped:      make(chan struct{}),
		ctx:          context.Background(),
		cursor:       -1,
		volume:       1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.poller = backend.NewPoller(c.pollInterval, func() { c.post(c.pollProgress) })
	b.SetEventSink(c.Notify)
	return c
}

// Run processes events until ctx is done. It must be called exactly once.
func (c *Controller) Run(ctx context.Context) {
	c.ctx = ctx
	defer close(c.stopped)
	defer c.poller.Stop()

	c.log.Debug("transport loop started")
	for {
		select {
		case <-ctx.Done():
			c.log.Debug("transport loop stopped")
			return
		case <-c.wake:
			for _, fn := range c.drain() {
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}
}

// SetUpdateCallback sets the observer called after every state change
func (c *Controller) SetUpdateCallback(fn func(Snapshot)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onUpdate = fn
}

// SetProgressCallback sets the observer for playback progress with a known
// duration
func (c *Controller) SetProgressCallback(fn func(model.Progress)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onProgress = fn
}

// LoadTrack makes the track at index current. Out-of-range indexes wrap.
func (c *Controller) LoadTrack(index int) {
	c.do(func() { c.loadTrack(index) })
}

// TogglePlay pauses when playing and plays otherwise
func (c *Controller) TogglePlay() {
	c.do(c.togglePlay)
}

// Next loads the following track, wrapping to the first
func (c *Controller) Next() {
	c.do(c.next)
}

// Previous loads the preceding track, wrapping to the last
func (c *Controller) Previous() {
	c.do(func() { c.loadTrack(c.cursor - 1) })
}

// Seek moves playback to a fraction of the current track
func (c *Controller) Seek(fraction float64) {
	c.do(func() {
		if err := c.backend.SeekToFraction(fraction); err != nil {
			c.log.Warn("seek failed", zap.Float64("fraction", fraction), zap.Error(err))
		}
	})
}

// SetVolume applies the volume to every engine and returns its icon state
func (c *Controller) SetVolume(v float64) model.VolumeLevel {
	v = model.ClampVolume(v)
	c.do(func() {
		c.volume = v
		if err := c.backend.SetVolume(v); err != nil {
			c.log.Warn("volume not applied", zap.Float64("volume", v), zap.Error(err))
		}
	})
	return model.VolumeLevelFor(v)
}

// AppendTracks adds tracks to the playlist. The first tracks added to an
// empty playlist load index 0 without starting playback.
func (c *Controller) AppendTracks(tracks ...*model.Track) {
	c.do(func() { c.appendTracks(tracks) })
}

// AddFiles reads local audio files and appends them. Files that cannot be
// read are skipped and reported in the joined error.
func (c *Controller) AddFiles(paths ...string) (int, error) {
	var (
		tracks []*model.Track
		errs   []error
	)
	for _, path := range paths {
		track, err := platform.LoadLocalTrack(path)
		if err != nil {
			c.log.Warn("skipping file", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		tracks = append(tracks, track)
	}

	if len(tracks) > 0 {
		c.AppendTracks(tracks...)
	}
	return len(tracks), errors.Join(errs...)
}

// AddURL appends the video named by a YouTube URL. URLs without a video id
// but with a playlist id are expanded when a resolver is configured. Rejected
// input leaves the playlist unchanged.
func (c *Controller) AddURL(ctx context.Context, raw string) (int, error) {
	id, err := platform.ExtractVideoID(raw)
	if err == nil {
		track, err := model.NewExternalTrack(id, "")
		if err != nil {
			return 0, err
		}
		c.AppendTracks(track)
		return 1, nil
	}
	if !errors.Is(err, platform.ErrInvalidURL) || c.resolver == nil || platform.ExtractPlaylistID(raw) == "" {
		return 0, err
	}

	remote, err := c.resolver.Resolve(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("expand playlist: %w", err)
	}
	tracks := remote.Tracks()
	if len(tracks) == 0 {
		return 0, fmt.Errorf("playlist %s has no playable entries: %w", remote.ID, platform.ErrInvalidURL)
	}

	c.log.Info("playlist expanded", zap.String("playlist", remote.ID), zap.Int("tracks", len(tracks)))
	c.AppendTracks(tracks...)
	return len(tracks), nil
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	var s Snapshot
	c.do(func() { s = c.snapshot() })
	return s
}

// Polling reports whether the progress poller is armed
func (c *Controller) Polling() bool {
	var running bool
	c.do(func() { running = c.poller.Running() })
	return running
}

// Notify queues a backend event without blocking the caller
func (c *Controller) Notify(ev backend.Event) {
	c.post(func() { c.handleEvent(ev) })
}

// enqueue appends fn to the loop's work without blocking. It reports false
// once the loop has stopped.
func (c *Controller) enqueue(fn func()) bool {
	select {
	case <-c.stopped:
		return false
	default:
	}

	c.queueMu.Lock()
	c.pending = append(c.pending, fn)
	c.queueMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

func (c *Controller) drain() []func() {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	batch := c.pending
	c.pending = nil
	return batch
}

func (c *Controller) post(fn func()) {
	c.enqueue(fn)
}

// do runs fn on the loop and waits for it
func (c *Controller) do(fn func()) {
	done := make(chan struct{})
	if !c.enqueue(func() { fn(); close(done) }) {
		return
	}
	select {
	case <-done:
	case <-c.stopped:
	}
}

func (c *Controller) loadTrack(index int) {
	track, ok := c.store.Get(index)
	if !ok {
		return
	}
	c.cursor = c.store.Normalize(index)

	c.poller.Stop()
	if err := c.backend.Activate(track); err != nil {
		c.log.Error("failed to load track", zap.String("title", track.Title), zap.Error(err))
		c.playing = false
		c.publish()
		return
	}
	c.log.Debug("track loaded",
		zap.Int("cursor", c.cursor), zap.String("title", track.Title), zap.Stringer("source", track.Source))

	if c.playing && !c.backend.ResumesOnLoad() {
		c.play()
	}
	c.publish()
}

func (c *Controller) next() {
	c.loadTrack(c.cursor + 1)
}

func (c *Controller) togglePlay() {
	if c.playing {
		if err := c.backend.Pause(); err != nil {
			c.log.Warn("pause failed", zap.Error(err))
		}
		c.playing = false
		c.poller.Stop()
	} else {
		c.play()
	}
	c.publish()
}

// play starts the active engine. The playing flag follows the engine's
// EventPlaying; a rejected start leaves it false.
func (c *Controller) play() {
	if err := c.backend.Play(); err != nil {
		c.log.Warn("playback rejected", zap.Error(err))
		c.playing = false
	}
}

func (c *Controller) appendTracks(tracks []*model.Track) {
	becameNonEmpty := c.store.Append(tracks...)
	if becameNonEmpty {
		c.loadTrack(0)
		return
	}
	c.publish()
}

func (c *Controller) handleEvent(ev backend.Event) {
	switch ev.Kind {
	case backend.EventReady:
		c.log.Info("engine ready", zap.Stringer("source", ev.Source))
		return
	case backend.EventError:
		c.log.Warn("engine error", zap.Stringer("source", ev.Source), zap.Error(ev.Err))
		return
	}

	if ev.Source != "" && ev.Source != c.backend.Mode() {
		c.log.Debug("stale event dropped", zap.Stringer("source", ev.Source), zap.Stringer("event", ev.Kind))
		return
	}

	switch ev.Kind {
	case backend.EventPlaying:
		c.playing = true
		if !c.backend.PushesProgress() {
			c.poller.Start(c.ctx)
		}
		c.publish()
	case backend.EventPaused:
		c.playing = false
		c.poller.Stop()
		c.publish()
	case backend.EventEnded:
		c.poller.Stop()
		c.next()
	case backend.EventProgress, backend.EventMetadata:
		c.reportProgress(ev.Progress)
	}
}

func (c *Controller) pollProgress() {
	if !c.poller.Running() {
		return
	}
	c.reportProgress(c.backend.Progress())
}

func (c *Controller) reportProgress(p model.Progress) {
	if !p.HasDuration() {
		return
	}
	c.cbMu.Lock()
	fn := c.onProgress
	c.cbMu.Unlock()
	if fn != nil {
		fn(p)
	}
}

func (c *Controller) snapshot() Snapshot {
	current, _ := c.store.Get(c.cursor)
	if c.cursor < 0 {
		current = nil
	}
	var mode model.TrackSource
	if current != nil {
		mode = current.Source
	}
	return Snapshot{
		Tracks:  c.store.Snapshot(),
		Cursor:  c.cursor,
		Current: current,
		Mode:    mode,
		Playing: c.playing,
		State:   model.StateFor(current != nil, c.playing),
		Volume:  c.volume,
	}
}

func (c *Controller) publish() {
	c.cbMu.Lock()
	fn := c.onUpdate
	c.cbMu.Unlock()
	if fn != nil {
		fn(c.snapshot())
	}
}
