package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvMPVPath      = "ORBIT_MPV_PATH"
	EnvMPVSocket    = "ORBIT_MPV_SOCKET"
	EnvPollInterval = "ORBIT_POLL_INTERVAL"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogPath      = "LOG_PATH"
)

// Env holds overrides read from the environment. Empty fields mean "not set".
type Env struct {
	MPVPath      string
	MPVSocket    string
	PollInterval time.Duration
	LogLevel     string
	LogPath      string
}

// LoadDotEnv loads the given files (".env" when none) into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ReadEnv reads the overrides. An unparsable poll interval is ignored.
func ReadEnv() Env {
	env := Env{
		MPVPath:   os.Getenv(EnvMPVPath),
		MPVSocket: os.Getenv(EnvMPVSocket),
		LogLevel:  os.Getenv(EnvLogLevel),
		LogPath:   os.Getenv(EnvLogPath),
	}
	if raw := os.Getenv(EnvPollInterval); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			env.PollInterval = clampPollInterval(d)
		}
	}
	return env
}
