package config

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/orbit-player/internal/backend"
	"github.com/ytget/orbit-player/internal/model"
	"github.com/ytget/orbit-player/internal/platform"
)

// ThemeVariant selects the color scheme
type ThemeVariant string

const (
	ThemeDark  ThemeVariant = "dark"
	ThemeLight ThemeVariant = "light"
)

// Settings keys for Fyne preferences
const (
	KeyVolume           = "volume"
	KeyTheme            = "theme"
	KeyLanguage         = "app_language"
	KeyMPVBinary        = "mpv_binary"
	KeyMPVSocket        = "mpv_socket"
	KeyPollInterval     = "poll_interval_ms"
	KeyExternalAutoplay = "external_autoplay"
	KeyLastDirectory    = "last_directory"
)

// Default values
const (
	DefaultVolume           = 1.0
	DefaultTheme            = ThemeDark
	DefaultLanguage         = "system"
	DefaultMPVBinary        = backend.DefaultMPVBinary
	DefaultPollInterval     = backend.DefaultPollInterval
	DefaultExternalAutoplay = true
)

// Poll interval bounds
const (
	MinPollInterval = 100 * time.Millisecond
	MaxPollInterval = 5 * time.Second
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetVolume returns the last volume in [0,1]
func (s *Settings) GetVolume() float64 {
	return model.ClampVolume(s.app.Preferences().FloatWithFallback(KeyVolume, DefaultVolume))
}

// SetVolume stores the volume
func (s *Settings) SetVolume(v float64) {
	s.app.Preferences().SetFloat(KeyVolume, model.ClampVolume(v))
}

// GetTheme returns the configured theme variant
func (s *Settings) GetTheme() ThemeVariant {
	switch v := ThemeVariant(s.app.Preferences().String(KeyTheme)); v {
	case ThemeDark, ThemeLight:
		return v
	default:
		return DefaultTheme
	}
}

// SetTheme sets the theme variant
func (s *Settings) SetTheme(v ThemeVariant) {
	s.app.Preferences().SetString(KeyTheme, string(v))
}

// GetThemeOptions returns available theme variants
func (s *Settings) GetThemeOptions() []ThemeVariant {
	return []ThemeVariant{ThemeDark, ThemeLight}
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetMPVBinary returns the mpv executable used for YouTube playback
func (s *Settings) GetMPVBinary() string {
	return s.app.Preferences().StringWithFallback(KeyMPVBinary, DefaultMPVBinary)
}

// SetMPVBinary sets the mpv executable; empty restores the default
func (s *Settings) SetMPVBinary(path string) {
	if path == "" {
		path = DefaultMPVBinary
	}
	s.app.Preferences().SetString(KeyMPVBinary, path)
}

// GetMPVSocket returns the IPC socket path, or "" for a per-process default
func (s *Settings) GetMPVSocket() string {
	return s.app.Preferences().String(KeyMPVSocket)
}

// SetMPVSocket sets the IPC socket path
func (s *Settings) SetMPVSocket(path string) {
	s.app.Preferences().SetString(KeyMPVSocket, path)
}

// GetPollInterval returns the progress poll interval for YouTube playback
func (s *Settings) GetPollInterval() time.Duration {
	ms := s.app.Preferences().Int(KeyPollInterval)
	if ms <= 0 {
		return DefaultPollInterval
	}
	return clampPollInterval(time.Duration(ms) * time.Millisecond)
}

// SetPollInterval sets the poll interval, clamped to sane bounds
func (s *Settings) SetPollInterval(d time.Duration) {
	s.app.Preferences().SetInt(KeyPollInterval, int(clampPollInterval(d).Milliseconds()))
}

// GetExternalAutoplay returns whether YouTube videos start playing on load
func (s *Settings) GetExternalAutoplay() bool {
	return s.app.Preferences().BoolWithFallback(KeyExternalAutoplay, DefaultExternalAutoplay)
}

// SetExternalAutoplay sets whether YouTube videos start playing on load
func (s *Settings) SetExternalAutoplay(autoplay bool) {
	s.app.Preferences().SetBool(KeyExternalAutoplay, autoplay)
}

// GetLastDirectory returns the folder the file picker opens in
func (s *Settings) GetLastDirectory() string {
	dir := s.app.Preferences().String(KeyLastDirectory)
	if dir == "" {
		defaultDir, err := platform.GetHomeMusicDir()
		if err != nil {
			return ""
		}
		return defaultDir
	}
	return dir
}

// SetLastDirectory remembers the folder of the last picked file
func (s *Settings) SetLastDirectory(dir string) {
	s.app.Preferences().SetString(KeyLastDirectory, dir)
}

func clampPollInterval(d time.Duration) time.Duration {
	return min(max(d, MinPollInterval), MaxPollInterval)
}
