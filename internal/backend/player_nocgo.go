//go:build !(linux && cgo) && !windows && !darwin

package backend

import (
	"time"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires CGO for native sound libraries.
const AudioAvailable = false

// player is a no-op audio player for builds without cgo. Local tracks can be
// queued but every start is rejected.
type player struct{}

// newPlayer creates a new no-op player.
func newPlayer() audioPlayer {
	return &player{}
}

func (p *player) load(name string, data []byte, onDone func()) (time.Duration, error) {
	return 0, ErrAudioUnavailable
}

func (p *player) resume() error {
	return ErrAudioUnavailable
}

func (p *player) pause() {}

func (p *player) stop() {}

func (p *player) position() time.Duration {
	return 0
}

func (p *player) seek(d time.Duration) error {
	return nil
}

func (p *player) duration() time.Duration {
	return 0
}

func (p *player) setVolume(v float64) {}
