package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/config"
)

func TestNewRootCmdFlags(t *testing.T) {
	cmd := NewRootCmd("1.2.3")
	require.NoError(t, cmd.ParseFlags([]string{
		"--mpv", "/opt/mpv",
		"--socket", "/tmp/s.sock",
		"--log-level", "debug",
		"--log-file", "-",
		"--no-external",
	}))

	flags := cmd.Flags()
	for name, want := range map[string]string{
		"mpv":       "/opt/mpv",
		"socket":    "/tmp/s.sock",
		"log-level": "debug",
		"log-file":  "-",
		"env-file":  ".env",
	} {
		got, err := flags.GetString(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	noExternal, err := flags.GetBool("no-external")
	require.NoError(t, err)
	assert.True(t, noExternal)
	assert.Equal(t, "1.2.3", cmd.Version)
}

func TestResolveConfig(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	settings := config.NewSettings(app)
	settings.SetMPVBinary("/prefs/mpv")
	settings.SetMPVSocket("/prefs.sock")
	settings.SetPollInterval(300 * time.Millisecond)
	settings.SetExternalAutoplay(false)

	tests := []struct {
		name string
		opts Options
		env  config.Env
		want playerConfig
	}{
		{
			name: "preferences",
			want: playerConfig{MPVBinary: "/prefs/mpv", MPVSocket: "/prefs.sock", PollInterval: 300 * time.Millisecond},
		},
		{
			name: "environment overrides preferences",
			env:  config.Env{MPVPath: "/env/mpv", MPVSocket: "/env.sock", PollInterval: time.Second},
			want: playerConfig{MPVBinary: "/env/mpv", MPVSocket: "/env.sock", PollInterval: time.Second},
		},
		{
			name: "flags override environment",
			opts: Options{MPVPath: "/flag/mpv", MPVSocket: "/flag.sock"},
			env:  config.Env{MPVPath: "/env/mpv", MPVSocket: "/env.sock"},
			want: playerConfig{MPVBinary: "/flag/mpv", MPVSocket: "/flag.sock", PollInterval: 300 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveConfig(tt.opts, tt.env, settings))
		})
	}
}

func TestSplitInputs(t *testing.T) {
	files, urls := splitInputs([]string{
		"song.mp3",
		" https://youtu.be/abc123 ",
		"",
		"/music/b.wav",
		"youtube.com/watch?v=xyz",
		"HTTP://example.com/watch?v=q",
	})

	assert.Equal(t, []string{"song.mp3", "/music/b.wav"}, files)
	assert.Equal(t, []string{"https://youtu.be/abc123", "youtube.com/watch?v=xyz", "HTTP://example.com/watch?v=q"}, urls)
}

type fakeAdder struct {
	files []string
	urls  []string
	err   error
}

func (f *fakeAdder) AddFiles(paths ...string) (int, error) {
	f.files = append(f.files, paths...)
	return len(paths), f.err
}

func (f *fakeAdder) AddURL(ctx context.Context, raw string) (int, error) {
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	f.urls = append(f.urls, raw)
	return 1, f.err
}

func TestAddInputs(t *testing.T) {
	adder := &fakeAdder{err: errors.New("partial")}
	addInputs(context.Background(), adder, []string{"https://youtu.be/a", "x.mp3", "https://youtu.be/b"}, zap.NewNop())

	assert.Equal(t, []string{"x.mp3"}, adder.files)
	assert.Equal(t, []string{"https://youtu.be/a", "https://youtu.be/b"}, adder.urls)

	empty := &fakeAdder{}
	addInputs(context.Background(), empty, nil, zap.NewNop())
	assert.Empty(t, empty.files)
	assert.Empty(t, empty.urls)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
