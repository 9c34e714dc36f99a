package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrackSource tags which playback engine a track belongs to
type TrackSource string

const (
	// SourceLocal is an audio file picked from disk
	SourceLocal TrackSource = "local"

	// SourceExternal is a YouTube video addressed by its id
	SourceExternal TrackSource = "external"
)

// Display labels
const (
	LocalArtist          = "Local File"
	ExternalArtist       = "YouTube"
	ExternalTitlePattern = "YouTube Video %s"
)

// ErrInconsistentTrack is returned when a track's payload does not match its source tag
var ErrInconsistentTrack = errors.New("track payload does not match source")

// String returns the string representation of TrackSource
func (ts TrackSource) String() string {
	return string(ts)
}

// LocalFile is the in-memory payload of a local track. It is owned by exactly
// one Track.
type LocalFile struct {
	Name string // base name as picked by the user
	Path string // original path, for reference only
	Data []byte // raw encoded audio
}

// Track represents a single playable playlist entry
type Track struct {
	ID      string
	Title   string
	Artist  string
	Source  TrackSource
	File    *LocalFile // set only for SourceLocal
	VideoID string     // set only for SourceExternal
	AddedAt time.Time
}

// NewLocalTrack creates a track backed by an uploaded file
func NewLocalTrack(file *LocalFile) (*Track, error) {
	if file == nil {
		return nil, fmt.Errorf("local track: %w", ErrInconsistentTrack)
	}
	return &Track{
		ID:      uuid.NewString(),
		Title:   TitleFromFilename(file.Name),
		Artist:  LocalArtist,
		Source:  SourceLocal,
		File:    file,
		AddedAt: time.Now(),
	}, nil
}

// NewExternalTrack creates a track backed by a YouTube video id. An empty title
// falls back to the generated "YouTube Video <id>" label.
func NewExternalTrack(videoID, title string) (*Track, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("external track: %w", ErrInconsistentTrack)
	}
	if title == "" {
		title = fmt.Sprintf(ExternalTitlePattern, videoID)
	}
	return &Track{
		ID:      uuid.NewString(),
		Title:   title,
		Artist:  ExternalArtist,
		Source:  SourceExternal,
		VideoID: videoID,
		AddedAt: time.Now(),
	}, nil
}

// Validate checks that the payload fields agree with the source tag
func (t *Track) Validate() error {
	switch t.Source {
	case SourceLocal:
		if t.File == nil || t.VideoID != "" {
			return ErrInconsistentTrack
		}
	case SourceExternal:
		if t.VideoID == "" || t.File != nil {
			return ErrInconsistentTrack
		}
	default:
		return fmt.Errorf("unknown source %q: %w", t.Source, ErrInconsistentTrack)
	}
	return nil
}

// GetDisplayTitle returns the title, falling back to the payload identity
func (t *Track) GetDisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.File != nil {
		return t.File.Name
	}
	return t.VideoID
}

// TitleFromFilename strips directories and the last extension from a file name
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
