package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/model"
)

// External engine defaults
const (
	DefaultMPVBinary   = "mpv"
	DefaultDialTimeout = 10 * time.Second
	dialRetryInterval  = 100 * time.Millisecond
	watchURLPrefix     = "https://www.youtube.com/watch?v="
	mpvVolumeScale     = 100
)

// mpv end-file reasons
const (
	endReasonEOF   = "eof"
	endReasonError = "error"
)

// ExternalOptions configures the mpv process
type ExternalOptions struct {
	Binary      string
	SocketPath  string
	Autoplay    bool
	DialTimeout time.Duration
	ExtraArgs   []string

	// Dial connects to the IPC socket; tests replace it
	Dial func(ctx context.Context, path string) (ipcConn, error)
}

// DefaultSocketPath returns a per-process socket path in the temp dir
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("orbit-player-%d.sock", os.Getpid()))
}

// ExternalEngine plays hosted videos through an mpv subprocess. Until the IPC
// connection is established every command returns ErrNotReady.
type ExternalEngine struct {
	opts ExternalOptions
	log  *zap.Logger

	mu     sync.Mutex
	conn   ipcConn
	cmd    *exec.Cmd
	sink   func(Event)
	volume float64
	loaded bool
}

// NewExternalEngine creates an engine; call Start to launch mpv
func NewExternalEngine(log *zap.Logger, opts ExternalOptions) *ExternalEngine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Binary == "" {
		opts.Binary = DefaultMPVBinary
	}
	if opts.SocketPath == "" {
		opts.SocketPath = DefaultSocketPath()
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.Dial == nil {
		opts.Dial = dialSocket
	}
	return &ExternalEngine{opts: opts, log: log, volume: 1}
}

// Start launches mpv and connects to it in the background. Failures are
// logged; the engine then stays unavailable.
func (e *ExternalEngine) Start(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, e.opts.Binary, e.args()...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.opts.Binary, err)
	}

	e.mu.Lock()
	e.cmd = cmd
	e.mu.Unlock()

	e.log.Info("mpv started", zap.Int("pid", cmd.Process.Pid), zap.String("socket", e.opts.SocketPath))

	go func() {
		if err := e.connect(ctx); err != nil {
			e.log.Error("mpv connection failed", zap.Error(err))
			e.emit(Event{Kind: EventError, Err: err})
		}
	}()
	go func() {
		err := cmd.Wait()
		e.log.Info("mpv exited", zap.Error(err))
	}()
	return nil
}

// args keeps mpv idle between videos. Without a forced window the video
// window closes on stop and reopens on the next load.
func (e *ExternalEngine) args() []string {
	return append([]string{
		"--idle=yes",
		"--no-terminal",
		"--force-window=no",
		"--input-ipc-server=" + e.opts.SocketPath,
	}, e.opts.ExtraArgs...)
}

// connect retries the socket until it appears or the timeout passes
func (e *ExternalEngine) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.DialTimeout)
	defer cancel()

	for {
		conn, err := e.opts.Dial(ctx, e.opts.SocketPath)
		if err == nil {
			return e.attach(conn)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("dial %s: %w", e.opts.SocketPath, err)
		case <-time.After(dialRetryInterval):
		}
	}
}

// attach makes the engine ready on an established connection
func (e *ExternalEngine) attach(conn ipcConn) error {
	if _, err := conn.Command("observe_property", ipcPauseObserveID, "pause"); err != nil {
		_ = conn.Close()
		return fmt.Errorf("observe pause: %w", err)
	}

	e.mu.Lock()
	e.conn = conn
	volume := e.volume
	e.mu.Unlock()

	if _, err := conn.Command("set_property", "volume", volume*mpvVolumeScale); err != nil {
		e.log.Warn("initial volume not applied", zap.Error(err))
	}

	go e.readEvents(conn)
	e.log.Info("mpv ready")
	e.emit(Event{Kind: EventReady})
	return nil
}

func (e *ExternalEngine) readEvents(conn ipcConn) {
	for ev := range conn.Events() {
		if out, ok := e.translate(ev); ok {
			e.emit(out)
		}
	}

	e.mu.Lock()
	if e.conn == conn {
		e.conn = nil
		e.loaded = false
	}
	e.mu.Unlock()
	e.log.Info("mpv connection closed")
}

// translate maps an mpv event onto an engine event. Play state comes only
// from the observed pause property: playback-restart also fires after seeks
// and loads while paused.
func (e *ExternalEngine) translate(ev ipcEvent) (Event, bool) {
	switch ev.Event {
	case "property-change":
		if ev.Name != "pause" {
			return Event{}, false
		}
		var paused bool
		if err := json.Unmarshal(ev.Data, &paused); err != nil {
			return Event{}, false
		}
		if e.idle() {
			return Event{}, false
		}
		if paused {
			return Event{Kind: EventPaused}, true
		}
		return Event{Kind: EventPlaying}, true
	case "end-file":
		switch ev.Reason {
		case endReasonEOF:
			return Event{Kind: EventEnded}, true
		case endReasonError:
			e.log.Warn("mpv failed to play file", zap.String("error", ev.FileError))
			return Event{Kind: EventError, Err: fmt.Errorf("mpv: %s", ev.FileError)}, true
		}
	}
	return Event{}, false
}

// Source implements Engine
func (e *ExternalEngine) Source() model.TrackSource {
	return model.SourceExternal
}

// SetEventSink implements Engine
func (e *ExternalEngine) SetEventSink(sink func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Ready reports whether the IPC connection is established
func (e *ExternalEngine) Ready() bool {
	return e.connection() != nil
}

// Load replaces the current video. With autoplay it starts playing at once.
func (e *ExternalEngine) Load(track *model.Track) error {
	if track.Source != model.SourceExternal || track.VideoID == "" {
		return ErrWrongSource
	}
	conn := e.connection()
	if conn == nil {
		return ErrNotReady
	}

	if _, err := conn.Command("loadfile", watchURLPrefix+track.VideoID, "replace"); err != nil {
		return fmt.Errorf("loadfile %s: %w", track.VideoID, err)
	}
	e.mu.Lock()
	e.loaded = true
	e.mu.Unlock()

	return e.setPaused(conn, !e.opts.Autoplay)
}

// Deactivate stops playback so a hidden video cannot keep running. Stopping
// also closes the video window.
func (e *ExternalEngine) Deactivate() {
	conn := e.connection()
	if conn == nil {
		return
	}

	e.mu.Lock()
	wasLoaded := e.loaded
	e.loaded = false
	e.mu.Unlock()

	if !wasLoaded {
		return
	}
	if _, err := conn.Command("stop"); err != nil {
		e.log.Debug("mpv stop failed", zap.Error(err))
	}
}

// Play implements Engine
func (e *ExternalEngine) Play() error {
	conn := e.connection()
	if conn == nil {
		return ErrNotReady
	}
	return e.setPaused(conn, false)
}

// Pause implements Engine
func (e *ExternalEngine) Pause() error {
	conn := e.connection()
	if conn == nil {
		return ErrNotReady
	}
	return e.setPaused(conn, true)
}

// Seek implements Engine
func (e *ExternalEngine) Seek(sec float64) error {
	conn := e.connection()
	if conn == nil {
		return ErrNotReady
	}
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	if _, err := conn.Command("seek", sec, "absolute"); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// Progress reads time-pos and duration; missing values are NaN
func (e *ExternalEngine) Progress() model.Progress {
	conn := e.connection()
	if conn == nil {
		return model.UnknownProgress
	}
	return model.Progress{
		CurrentTime: floatProperty(conn, "time-pos"),
		Duration:    floatProperty(conn, "duration"),
	}
}

// SetVolume stores the volume and applies it on mpv's 0-100 scale
func (e *ExternalEngine) SetVolume(v float64) error {
	v = model.ClampVolume(v)
	e.mu.Lock()
	e.volume = v
	conn := e.conn
	e.mu.Unlock()

	if conn == nil {
		return ErrNotReady
	}
	if _, err := conn.Command("set_property", "volume", v*mpvVolumeScale); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// ResumesOnLoad implements Engine
func (e *ExternalEngine) ResumesOnLoad() bool {
	return e.opts.Autoplay
}

// PushesProgress implements Engine. mpv position has to be polled.
func (e *ExternalEngine) PushesProgress() bool {
	return false
}

// Close quits mpv and closes the connection
func (e *ExternalEngine) Close() error {
	e.mu.Lock()
	conn := e.conn
	cmd := e.cmd
	e.conn = nil
	e.loaded = false
	e.mu.Unlock()

	var errs []error
	if conn != nil {
		if _, err := conn.Command("quit"); err != nil && !errors.Is(err, errIPCClosed) {
			e.log.Debug("mpv quit failed", zap.Error(err))
		}
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = os.Remove(e.opts.SocketPath)
	return errors.Join(errs...)
}

func (e *ExternalEngine) setPaused(conn ipcConn, paused bool) error {
	if _, err := conn.Command("set_property", "pause", paused); err != nil {
		return fmt.Errorf("set pause=%t: %w", paused, err)
	}
	return nil
}

func (e *ExternalEngine) connection() ipcConn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn
}

// idle reports whether nothing is loaded, in which case pause changes are noise
func (e *ExternalEngine) idle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.loaded
}

func (e *ExternalEngine) emit(ev Event) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		sink(ev)
	}
}

func floatProperty(conn ipcConn, name string) float64 {
	data, err := conn.Command("get_property", name)
	if err != nil {
		return math.NaN()
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return math.NaN()
	}
	return v
}
