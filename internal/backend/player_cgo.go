//go:build (linux && cgo) || windows || darwin

package backend

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

// speakerSampleRate is the output rate; decoded streams are resampled to it
const speakerSampleRate = beep.SampleRate(44100)

// player handles the actual audio output using beep.
type player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	streamer    beep.StreamSeekCloser
	format      beep.Format
	gain        float64
}

// newPlayer creates a new audio player.
func newPlayer() audioPlayer {
	return &player{
		sampleRate: speakerSampleRate,
		gain:       1,
	}
}

// initSpeakerLocked initializes the speaker if not already done.
func (p *player) initSpeakerLocked() error {
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// load decodes a file from memory and queues it paused on the speaker.
func (p *player) load(name string, data []byte, onDone func()) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	streamer, format, err := decode(name, data)
	if err != nil {
		return 0, err
	}
	if err := p.initSpeakerLocked(); err != nil {
		streamer.Close()
		return 0, err
	}

	p.streamer = streamer
	p.format = format

	resampled := beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	p.ctrl = &beep.Ctrl{Streamer: resampled, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	applyGain(p.volume, p.gain)

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		if onDone != nil {
			// Run callback in separate goroutine to avoid deadlock
			// when the callback loads the next song
			go onDone()
		}
	})))

	return format.SampleRate.D(streamer.Len()), nil
}

// decode picks a decoder by file extension
func decode(name string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	reader := bytes.NewReader(data)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return mp3.Decode(io.NopCloser(reader))
	case ".wav":
		return wav.Decode(reader)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(name))
	}
}

// resume resumes playback.
func (p *player) resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return fmt.Errorf("nothing to play")
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// pause pauses playback.
func (p *player) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
}

// stop stops playback completely.
func (p *player) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked stops playback (must be called with lock held).
func (p *player) stopLocked() {
	if p.initialized {
		speaker.Clear()
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
}

// position returns the current playback position.
func (p *player) position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}

	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()

	return p.format.SampleRate.D(pos)
}

// seek sets the playback position.
func (p *player) seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return nil
	}

	speaker.Lock()
	defer speaker.Unlock()

	samples := p.format.SampleRate.N(d)
	if samples >= p.streamer.Len() {
		samples = p.streamer.Len() - 1
	}
	if samples < 0 {
		samples = 0
	}
	return p.streamer.Seek(samples)
}

// duration returns the total duration of the current song.
func (p *player) duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}

	return p.format.SampleRate.D(p.streamer.Len())
}

// setVolume stores the linear gain and applies it to the current stream.
func (p *player) setVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gain = v
	if p.volume != nil {
		speaker.Lock()
		applyGain(p.volume, v)
		speaker.Unlock()
	}
}

// applyGain converts a linear gain in [0,1] into beep's exponential volume.
func applyGain(vol *effects.Volume, gain float64) {
	if gain <= 0 {
		vol.Silent = true
		return
	}
	vol.Silent = false
	vol.Volume = math.Log2(gain)
}
