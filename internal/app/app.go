// Package app wires the player together behind the orbit-player command.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/backend"
	"github.com/ytget/orbit-player/internal/config"
	"github.com/ytget/orbit-player/internal/logging"
	"github.com/ytget/orbit-player/internal/platform"
	"github.com/ytget/orbit-player/internal/playlist"
	"github.com/ytget/orbit-player/internal/transport"
	"github.com/ytget/orbit-player/internal/ui"
)

const (
	AppID   = "com.ytget.orbit-player"
	AppName = "Orbit Player"
)

// inputTimeout bounds resolving the command-line inputs, playlists included
const inputTimeout = 2 * time.Minute

// Options are the command-line settings. Empty strings fall back to the
// environment and then to the stored preferences.
type Options struct {
	MPVPath    string
	MPVSocket  string
	LogLevel   string
	LogPath    string
	EnvFile    string
	NoExternal bool
	Inputs     []string
}

// playerConfig is the effective configuration after precedence is applied
type playerConfig struct {
	MPVBinary    string
	MPVSocket    string
	PollInterval time.Duration
	Autoplay     bool
}

// NewRootCmd builds the orbit-player command
func NewRootCmd(version string) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "orbit-player [files or URLs...]",
		Short: "Play local music and YouTube videos from one queue",
		Long: `Orbit Player keeps a single queue of local audio files and YouTube videos.

Local mp3 and wav files are decoded in-process. YouTube videos and playlists
are played by an external mpv process driven over its IPC socket.

Examples:
  orbit-player ~/Music/song.mp3
  orbit-player "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  orbit-player --no-external ~/Music/*.mp3`,
		Version:      version,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			return Run(cmd.Context(), *opts, version)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.MPVPath, "mpv", "", "mpv executable used for YouTube playback")
	flags.StringVar(&opts.MPVSocket, "socket", "", "mpv IPC socket path")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.LogPath, "log-file", "", `log file path, "-" to disable`)
	flags.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load")
	flags.BoolVar(&opts.NoExternal, "no-external", false, "do not start mpv; YouTube tracks stay unplayable")

	return cmd
}

// Execute runs the command and returns the process exit code
func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		return 1
	}
	return 0
}

// Run starts the player and blocks until the window is closed
func Run(ctx context.Context, opts Options, version string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return fmt.Errorf("load %s: %w", opts.EnvFile, err)
	}
	env := config.ReadEnv()

	log := logging.New(logging.Options{
		Level: logging.ParseLevel(firstNonEmpty(opts.LogLevel, env.LogLevel)),
		Path:  firstNonEmpty(opts.LogPath, env.LogPath),
	})
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("version", version), zap.Bool("audio", backend.AudioAvailable))

	fyneApp := fyneapp.NewWithID(AppID)
	settings := config.NewSettings(fyneApp)
	cfg := resolveConfig(opts, env, settings)

	ctx, cancel := context.WithCancel(ctx)

	engines := []backend.Engine{backend.NewLocalEngine(log.Named("backend.local"))}
	if !opts.NoExternal {
		external := backend.NewExternalEngine(log.Named("backend.external"), backend.ExternalOptions{
			Binary:     cfg.MPVBinary,
			SocketPath: cfg.MPVSocket,
			Autoplay:   cfg.Autoplay,
		})
		if err := external.Start(ctx); err != nil {
			log.Warn("youtube playback unavailable", zap.Error(err))
		} else {
			engines = append(engines, external)
		}
	}
	adapter := backend.NewAdapter(log.Named("backend"), engines...)

	controller := transport.New(adapter, playlist.NewStore(),
		transport.WithLogger(log.Named("transport")),
		transport.WithPollInterval(cfg.PollInterval),
		transport.WithResolver(platform.NewPlaylistResolver()),
	)
	go controller.Run(ctx)

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
	if icon, err := ui.LoadLogoResource(); err == nil {
		fyneApp.SetIcon(icon)
	}
	ui.NewRootUI(ctx, window, fyneApp, controller, settings, log.Named("ui"))

	go addInputs(ctx, controller, opts.Inputs, log)

	window.ShowAndRun()

	cancel()
	if err := adapter.Close(); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("stopped")
	return nil
}

// resolveConfig applies flag > environment > preferences precedence
func resolveConfig(opts Options, env config.Env, settings *config.Settings) playerConfig {
	cfg := playerConfig{
		MPVBinary:    firstNonEmpty(opts.MPVPath, env.MPVPath, settings.GetMPVBinary()),
		MPVSocket:    firstNonEmpty(opts.MPVSocket, env.MPVSocket, settings.GetMPVSocket()),
		PollInterval: settings.GetPollInterval(),
		Autoplay:     settings.GetExternalAutoplay(),
	}
	if env.PollInterval > 0 {
		cfg.PollInterval = env.PollInterval
	}
	return cfg
}

// inputAdder is the part of the controller that accepts new tracks
type inputAdder interface {
	AddFiles(paths ...string) (int, error)
	AddURL(ctx context.Context, raw string) (int, error)
}

// addInputs queues command-line files first, then URLs in order
func addInputs(ctx context.Context, player inputAdder, inputs []string, log *zap.Logger) {
	if len(inputs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, inputTimeout)
	defer cancel()

	files, urls := splitInputs(inputs)
	if len(files) > 0 {
		n, err := player.AddFiles(files...)
		if err != nil {
			log.Warn("some files were not added", zap.Error(err))
		}
		log.Info("files added", zap.Int("count", n))
	}
	for _, raw := range urls {
		if _, err := player.AddURL(ctx, raw); err != nil {
			log.Warn("url rejected", zap.String("url", raw), zap.Error(err))
		}
	}
}

// splitInputs separates URLs from file paths
func splitInputs(inputs []string) (files, urls []string) {
	inputs = lo.Compact(lo.Map(inputs, func(s string, _ int) string { return strings.TrimSpace(s) }))
	urls, files = lo.FilterReject(inputs, func(s string, _ int) bool { return isURL(s) })
	return files, urls
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "youtu.be/") ||
		strings.HasPrefix(lower, "www.youtube.com/") ||
		strings.HasPrefix(lower, "youtube.com/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
