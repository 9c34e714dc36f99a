package transport

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/orbit-player/internal/backend"
	"github.com/ytget/orbit-player/internal/model"
	"github.com/ytget/orbit-player/internal/platform"
	"github.com/ytget/orbit-player/internal/playlist"
)

// fakeEngine mimics an engine that reports play state changes synchronously
type fakeEngine struct {
	mu       sync.Mutex
	source   model.TrackSource
	resumes  bool
	pushes   bool
	playErr  error
	progress model.Progress

	calls  []string
	loaded []*model.Track
	seeks  []float64
	volume float64
	sink   func(backend.Event)
}

func newFakeEngine(source model.TrackSource) *fakeEngine {
	return &fakeEngine{source: source, pushes: true, progress: model.UnknownProgress}
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) Loaded() []*model.Track {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Track(nil), f.loaded...)
}

func (f *fakeEngine) Source() model.TrackSource { return f.source }

func (f *fakeEngine) Load(track *model.Track) error {
	f.record("load")
	f.mu.Lock()
	f.loaded = append(f.loaded, track)
	f.mu.Unlock()
	if f.resumes {
		f.emit(backend.Event{Kind: backend.EventPlaying})
	}
	return nil
}

func (f *fakeEngine) Deactivate() { f.record("deactivate") }

func (f *fakeEngine) Play() error {
	f.record("play")
	if f.playErr != nil {
		return f.playErr
	}
	f.emit(backend.Event{Kind: backend.EventPlaying})
	return nil
}

func (f *fakeEngine) Pause() error {
	f.record("pause")
	f.emit(backend.Event{Kind: backend.EventPaused})
	return nil
}

func (f *fakeEngine) Seek(sec float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, sec)
	return nil
}

func (f *fakeEngine) Seeks() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.seeks...)
}

func (f *fakeEngine) Progress() model.Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress
}

func (f *fakeEngine) SetVolume(v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
	return nil
}

func (f *fakeEngine) ResumesOnLoad() bool  { return f.resumes }
func (f *fakeEngine) PushesProgress() bool { return f.pushes }

func (f *fakeEngine) SetEventSink(sink func(backend.Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sink = sink
}

func (f *fakeEngine) Close() error { return nil }

func (f *fakeEngine) emit(ev backend.Event) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

type fixture struct {
	ctrl     *Controller
	local    *fakeEngine
	external *fakeEngine
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	local := newFakeEngine(model.SourceLocal)
	external := newFakeEngine(model.SourceExternal)
	external.resumes = true
	external.pushes = false

	ctrl := New(backend.NewAdapter(nil, local, external), playlist.NewStore(), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx)
	t.Cleanup(cancel)

	return &fixture{ctrl: ctrl, local: local, external: external}
}

func localTrack(t *testing.T, name string) *model.Track {
	t.Helper()
	track, err := model.NewLocalTrack(&model.LocalFile{Name: name, Data: []byte{1}})
	require.NoError(t, err)
	return track
}

func externalTrack(t *testing.T, id string) *model.Track {
	t.Helper()
	track, err := model.NewExternalTrack(id, "")
	require.NoError(t, err)
	return track
}

func TestControllerInitialState(t *testing.T) {
	f := newFixture(t)

	s := f.ctrl.Snapshot()
	assert.Equal(t, -1, s.Cursor)
	assert.Nil(t, s.Current)
	assert.Empty(t, s.Tracks)
	assert.Equal(t, model.StateStopped, s.State)
	assert.False(t, s.Playing)
}

func TestControllerLoadTrackOnEmptyPlaylistIsNoop(t *testing.T) {
	f := newFixture(t)

	f.ctrl.LoadTrack(0)
	f.ctrl.Next()
	f.ctrl.Previous()
	f.ctrl.TogglePlay()

	s := f.ctrl.Snapshot()
	assert.Equal(t, -1, s.Cursor)
	assert.Equal(t, model.StateStopped, s.State)
	assert.Empty(t, f.local.Calls())
	assert.Empty(t, f.external.Calls())
}

func TestControllerFirstAppendLoadsPaused(t *testing.T) {
	f := newFixture(t)
	a := localTrack(t, "a.mp3")
	b := externalTrack(t, "bbb")

	f.ctrl.AppendTracks(a, b)

	s := f.ctrl.Snapshot()
	assert.Equal(t, 0, s.Cursor)
	assert.Same(t, a, s.Current)
	assert.Equal(t, model.SourceLocal, s.Mode)
	assert.False(t, s.Playing)
	assert.Equal(t, model.StatePaused, s.State)
	assert.Equal(t, []string{"load"}, f.local.Calls())

	f.ctrl.AppendTracks(localTrack(t, "c.mp3"))
	s = f.ctrl.Snapshot()
	assert.Equal(t, 0, s.Cursor)
	assert.Len(t, s.Tracks, 3)
	assert.Equal(t, []string{"load"}, f.local.Calls())
}

func TestControllerLoadTrackWraparound(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  int
	}{
		{name: "length wraps to first", index: 3, want: 0},
		{name: "minus one wraps to last", index: -1, want: 2},
		{name: "in range", index: 1, want: 1},
		{name: "far out of range", index: 7, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ctrl.AppendTracks(localTrack(t, "a.mp3"), localTrack(t, "b.mp3"), localTrack(t, "c.mp3"))

			f.ctrl.LoadTrack(tt.index)
			s := f.ctrl.Snapshot()
			assert.Equal(t, tt.want, s.Cursor)
			assert.Same(t, s.Tracks[tt.want], s.Current)
		})
	}
}

func TestControllerNextPreviousWrap(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"), localTrack(t, "b.mp3"))

	f.ctrl.Previous()
	assert.Equal(t, 1, f.ctrl.Snapshot().Cursor)
	f.ctrl.Next()
	assert.Equal(t, 0, f.ctrl.Snapshot().Cursor)
	f.ctrl.Next()
	assert.Equal(t, 1, f.ctrl.Snapshot().Cursor)
}

func TestControllerTogglePlayTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))

	f.ctrl.TogglePlay()
	s := f.ctrl.Snapshot()
	assert.True(t, s.Playing)
	assert.Equal(t, model.StatePlaying, s.State)

	f.ctrl.TogglePlay()
	s = f.ctrl.Snapshot()
	assert.False(t, s.Playing)
	assert.Equal(t, model.StatePaused, s.State)
	assert.Equal(t, []string{"load", "play", "pause"}, f.local.Calls())
}

func TestControllerPlaybackRejected(t *testing.T) {
	f := newFixture(t)
	f.local.playErr = backend.ErrAudioUnavailable
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))

	f.ctrl.TogglePlay()
	s := f.ctrl.Snapshot()
	assert.False(t, s.Playing)
	assert.Equal(t, model.StatePaused, s.State)
}

func TestControllerLocalTrackChangeKeepsPlaying(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"), localTrack(t, "b.mp3"))
	f.ctrl.TogglePlay()

	f.ctrl.Next()
	s := f.ctrl.Snapshot()
	assert.Equal(t, 1, s.Cursor)
	assert.True(t, s.Playing)
	assert.Equal(t, []string{"load", "play", "load", "play"}, f.local.Calls())
}

func TestControllerPausedTrackChangeStaysPaused(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"), localTrack(t, "b.mp3"))

	f.ctrl.Next()
	assert.False(t, f.ctrl.Snapshot().Playing)
	assert.Equal(t, []string{"load", "load"}, f.local.Calls())
}

func TestControllerNextSwitchesToExternal(t *testing.T) {
	f := newFixture(t)
	b := externalTrack(t, "abc123")
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"), b)
	f.ctrl.TogglePlay()
	require.True(t, f.ctrl.Snapshot().Playing)

	f.ctrl.Next()

	s := f.ctrl.Snapshot()
	assert.Equal(t, 1, s.Cursor)
	assert.Equal(t, model.SourceExternal, s.Mode)
	assert.True(t, s.Playing)
	assert.Equal(t, []string{"load", "play", "deactivate"}, f.local.Calls())

	loaded := f.external.Loaded()
	require.Len(t, loaded, 1)
	assert.Equal(t, "abc123", loaded[0].VideoID)
	// the external engine resumes by itself after a load
	assert.NotContains(t, f.external.Calls(), "play")
}

func TestControllerMissingEngineStopsPlayback(t *testing.T) {
	local := newFakeEngine(model.SourceLocal)
	ctrl := New(backend.NewAdapter(nil, local), playlist.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx)
	t.Cleanup(cancel)

	ctrl.AppendTracks(localTrack(t, "a.mp3"), externalTrack(t, "bbb"))
	ctrl.TogglePlay()
	require.True(t, ctrl.Snapshot().Playing)

	ctrl.Next()
	s := ctrl.Snapshot()
	assert.Equal(t, 1, s.Cursor)
	assert.Equal(t, model.SourceExternal, s.Mode)
	assert.False(t, s.Playing)
	assert.Equal(t, model.StatePaused, s.State)
	assert.Equal(t, []string{"load", "play", "deactivate"}, local.Calls())
	assert.False(t, ctrl.Polling())

	local.emit(backend.Event{Kind: backend.EventEnded})
	assert.Equal(t, 1, ctrl.Snapshot().Cursor)
}

func TestControllerExternalToLocalResumesLocal(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(externalTrack(t, "abc123"), localTrack(t, "a.mp3"))
	require.True(t, f.ctrl.Snapshot().Playing)

	f.ctrl.Next()
	s := f.ctrl.Snapshot()
	assert.Equal(t, model.SourceLocal, s.Mode)
	assert.True(t, s.Playing)
	assert.Contains(t, f.external.Calls(), "deactivate")
	assert.Equal(t, []string{"deactivate", "load", "play"}, f.local.Calls())
}

func TestControllerEndedAdvancesByOne(t *testing.T) {
	tests := []struct {
		name   string
		source model.TrackSource
	}{
		{name: "local", source: model.SourceLocal},
		{name: "external", source: model.SourceExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var tracks []*model.Track
			for i := range 3 {
				if tt.source == model.SourceLocal {
					tracks = append(tracks, localTrack(t, "t.mp3"))
				} else {
					tracks = append(tracks, externalTrack(t, string(rune('a'+i))))
				}
			}
			f.ctrl.AppendTracks(tracks...)
			engine := f.local
			if tt.source == model.SourceExternal {
				engine = f.external
			}

			for _, want := range []int{1, 2, 0} {
				engine.emit(backend.Event{Kind: backend.EventEnded})
				assert.Equal(t, want, f.ctrl.Snapshot().Cursor)
			}
		})
	}
}

func TestControllerSingleTrackLoopsOnEnd(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))
	f.ctrl.TogglePlay()

	f.local.emit(backend.Event{Kind: backend.EventEnded})
	s := f.ctrl.Snapshot()
	assert.Equal(t, 0, s.Cursor)
	assert.True(t, s.Playing)
	assert.Equal(t, []string{"load", "play", "load", "play"}, f.local.Calls())
}

func TestControllerIgnoresInactiveEngineEvents(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"), localTrack(t, "b.mp3"))

	f.external.emit(backend.Event{Kind: backend.EventEnded})
	f.external.emit(backend.Event{Kind: backend.EventPlaying})

	s := f.ctrl.Snapshot()
	assert.Equal(t, 0, s.Cursor)
	assert.False(t, s.Playing)
}

func TestControllerPollerLifecycle(t *testing.T) {
	f := newFixture(t, WithPollInterval(time.Hour))
	f.ctrl.AppendTracks(externalTrack(t, "abc"), localTrack(t, "a.mp3"))

	// the external engine autoplays on load and does not push progress
	assert.True(t, f.ctrl.Polling())

	f.external.emit(backend.Event{Kind: backend.EventPaused})
	assert.False(t, f.ctrl.Polling())

	f.external.emit(backend.Event{Kind: backend.EventPlaying})
	assert.True(t, f.ctrl.Polling())

	f.ctrl.Next()
	assert.False(t, f.ctrl.Polling(), "switching to local must cancel polling")

	f.ctrl.Previous()
	assert.True(t, f.ctrl.Polling())
	f.external.emit(backend.Event{Kind: backend.EventEnded})
	assert.False(t, f.ctrl.Polling(), "end of track must cancel polling")

	f.ctrl.Previous()
	require.True(t, f.ctrl.Polling())
	f.ctrl.TogglePlay()
	assert.False(t, f.ctrl.Snapshot().Playing)
	assert.False(t, f.ctrl.Polling(), "pause must cancel polling")
}

func TestControllerPollReportsProgress(t *testing.T) {
	f := newFixture(t, WithPollInterval(5*time.Millisecond))
	f.external.progress = model.Progress{CurrentTime: 30, Duration: 200}

	var (
		mu  sync.Mutex
		got []model.Progress
	)
	f.ctrl.SetProgressCallback(func(p model.Progress) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, p)
	})

	f.ctrl.AppendTracks(externalTrack(t, "abc"))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, 200.0, got[0].Duration)
	mu.Unlock()
}

func TestControllerProgressEventsNeedDuration(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))

	var got []model.Progress
	f.ctrl.SetProgressCallback(func(p model.Progress) { got = append(got, p) })

	f.local.emit(backend.Event{Kind: backend.EventProgress, Progress: model.Progress{CurrentTime: 1, Duration: math.NaN()}})
	f.local.emit(backend.Event{Kind: backend.EventMetadata, Progress: model.Progress{CurrentTime: 0, Duration: 0}})
	f.local.emit(backend.Event{Kind: backend.EventProgress, Progress: model.Progress{CurrentTime: 5, Duration: 100}})
	f.ctrl.Snapshot()

	require.Len(t, got, 1)
	assert.Equal(t, 5.0, got[0].CurrentTime)
}

func TestControllerSeek(t *testing.T) {
	f := newFixture(t)
	f.local.progress = model.Progress{CurrentTime: 0, Duration: 200}
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))

	f.ctrl.Seek(0.5)
	assert.Equal(t, []float64{100}, f.local.Seeks())

	f.local.progress = model.Progress{CurrentTime: 0, Duration: math.NaN()}
	f.ctrl.Seek(0.5)
	assert.Equal(t, []float64{100}, f.local.Seeks())
}

func TestControllerSetVolume(t *testing.T) {
	tests := []struct {
		volume float64
		want   model.VolumeLevel
	}{
		{0, model.VolumeMuted},
		{0.2, model.VolumeLow},
		{0.4999, model.VolumeLow},
		{0.5, model.VolumeHigh},
		{1, model.VolumeHigh},
	}

	f := newFixture(t)
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.ctrl.SetVolume(tt.volume), "volume %v", tt.volume)
		assert.Equal(t, tt.volume, f.local.volume)
		assert.Equal(t, tt.volume, f.external.volume)
	}
	assert.Equal(t, 1.0, f.ctrl.Snapshot().Volume)
}

func TestControllerUpdateCallback(t *testing.T) {
	f := newFixture(t)

	var snapshots []Snapshot
	f.ctrl.SetUpdateCallback(func(s Snapshot) { snapshots = append(snapshots, s) })

	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))
	f.ctrl.AppendTracks(localTrack(t, "b.mp3"))
	f.ctrl.Next()
	f.ctrl.Snapshot()

	require.NotEmpty(t, snapshots)
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 1, last.Cursor)
	assert.Len(t, last.Tracks, 2)
}

type fakeResolver struct {
	playlist *model.RemotePlaylist
	err      error
	calls    int
}

func (r *fakeResolver) Resolve(_ context.Context, url string) (*model.RemotePlaylist, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.playlist, nil
}

func TestControllerAddURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
	}{
		{name: "short link", url: "https://youtu.be/abc123", wantID: "abc123"},
		{name: "watch link with params", url: "https://x.com/watch?v=abc123&t=5", wantID: "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n, err := f.ctrl.AddURL(context.Background(), tt.url)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			s := f.ctrl.Snapshot()
			require.Len(t, s.Tracks, 1)
			assert.Equal(t, tt.wantID, s.Tracks[0].VideoID)
			assert.Equal(t, "YouTube Video "+tt.wantID, s.Tracks[0].Title)
			assert.Equal(t, model.ExternalArtist, s.Tracks[0].Artist)
			assert.Equal(t, 0, s.Cursor)
			assert.Equal(t, model.SourceExternal, s.Mode)
		})
	}
}

func TestControllerAddURLRejected(t *testing.T) {
	f := newFixture(t)
	f.ctrl.AppendTracks(localTrack(t, "a.mp3"))

	_, err := f.ctrl.AddURL(context.Background(), "not a url")
	assert.ErrorIs(t, err, platform.ErrInvalidURL)

	_, err = f.ctrl.AddURL(context.Background(), "   ")
	assert.ErrorIs(t, err, platform.ErrEmptyURL)

	// playlist links need a resolver
	_, err = f.ctrl.AddURL(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	assert.ErrorIs(t, err, platform.ErrInvalidURL)

	s := f.ctrl.Snapshot()
	assert.Len(t, s.Tracks, 1)
	assert.Equal(t, 0, s.Cursor)
}

func TestControllerAddURLExpandsPlaylist(t *testing.T) {
	remote := model.NewRemotePlaylist("https://www.youtube.com/playlist?list=PL1")
	remote.ID = "PL1"
	remote.AddEntry(model.RemoteEntry{VideoID: "v1", Title: "First"})
	remote.AddEntry(model.RemoteEntry{VideoID: "v2", Title: "Second"})
	resolver := &fakeResolver{playlist: remote}

	f := newFixture(t, WithResolver(resolver))
	n, err := f.ctrl.AddURL(context.Background(), remote.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s := f.ctrl.Snapshot()
	require.Len(t, s.Tracks, 2)
	assert.Equal(t, "First", s.Tracks[0].Title)
	assert.Equal(t, "v2", s.Tracks[1].VideoID)
	assert.Equal(t, 0, s.Cursor)

	// a video id wins over the playlist
	_, err = f.ctrl.AddURL(context.Background(), "https://www.youtube.com/watch?v=solo&list=PL1")
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)
}

func TestControllerAddURLPlaylistFailure(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("network down")}
	f := newFixture(t, WithResolver(resolver))

	_, err := f.ctrl.AddURL(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
	assert.Empty(t, f.ctrl.Snapshot().Tracks)
}

func TestControllerAddFiles(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(song, []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	f := newFixture(t)
	n, err := f.ctrl.AddFiles(song, notes, filepath.Join(dir, "missing.wav"))
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrNotAudioFile)

	s := f.ctrl.Snapshot()
	require.Len(t, s.Tracks, 1)
	assert.Equal(t, "song", s.Tracks[0].Title)
	assert.Equal(t, model.StatePaused, s.State)
	assert.NotContains(t, f.local.Calls(), "play")
}

func TestControllerEventsKeepOrderUnderLoad(t *testing.T) {
	local := newFakeEngine(model.SourceLocal)
	ctrl := New(backend.NewAdapter(nil, local), playlist.NewStore())

	// queued before the loop runs, far beyond any buffer
	for i := 0; i < 500; i++ {
		ctrl.Notify(backend.Event{Kind: backend.EventPaused})
		ctrl.Notify(backend.Event{Kind: backend.EventPlaying})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx)
	t.Cleanup(cancel)

	assert.True(t, ctrl.Snapshot().Playing)

	ctrl.Notify(backend.Event{Kind: backend.EventPaused})
	assert.False(t, ctrl.Snapshot().Playing)
}

func TestControllerStopsWithContext(t *testing.T) {
	local := newFakeEngine(model.SourceLocal)
	ctrl := New(backend.NewAdapter(nil, local), playlist.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// operations after shutdown return instead of blocking
	ctrl.Next()
	ctrl.Notify(backend.Event{Kind: backend.EventEnded})
	assert.Equal(t, Snapshot{}, ctrl.Snapshot())
}
