package model

import (
	"time"
)

// RemotePlaylistStatus represents the state of a YouTube playlist expansion
type RemotePlaylistStatus string

const (
	RemotePlaylistParsing RemotePlaylistStatus = "parsing"
	RemotePlaylistReady   RemotePlaylistStatus = "ready"
	RemotePlaylistError   RemotePlaylistStatus = "error"
)

// RemoteEntry is a single video listed by a YouTube playlist
type RemoteEntry struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Index   int    `json:"index"`
}

// RemotePlaylist is a YouTube playlist expanded into its entries
type RemotePlaylist struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	URL       string               `json:"url"`
	Entries   []RemoteEntry        `json:"entries"`
	Status    RemotePlaylistStatus `json:"status"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// NewRemotePlaylist creates a playlist in parsing state
func NewRemotePlaylist(url string) *RemotePlaylist {
	now := time.Now()
	return &RemotePlaylist{
		URL:       url,
		Status:    RemotePlaylistParsing,
		Entries:   make([]RemoteEntry, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddEntry appends an entry, skipping ones without a video id
func (p *RemotePlaylist) AddEntry(entry RemoteEntry) {
	if entry.VideoID == "" {
		return
	}
	p.Entries = append(p.Entries, entry)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *RemotePlaylist) UpdateStatus(status RemotePlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// Fail records an error and moves the playlist to error state
func (p *RemotePlaylist) Fail(err error) {
	p.Error = err.Error()
	p.UpdateStatus(RemotePlaylistError)
}

// Tracks converts the entries into external tracks in playlist order
func (p *RemotePlaylist) Tracks() []*Track {
	tracks := make([]*Track, 0, len(p.Entries))
	for _, entry := range p.Entries {
		track, err := NewExternalTrack(entry.VideoID, entry.Title)
		if err != nil {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}
