// Package playlist holds the ordered track list and its wraparound indexing.
package playlist

import (
	"github.com/samber/lo"

	"github.com/ytget/orbit-player/internal/model"
)

// Store is an append-only ordered sequence of tracks. It is not safe for
// concurrent use; the transport controller owns it from a single goroutine.
type Store struct {
	tracks []*model.Track
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{tracks: make([]*model.Track, 0)}
}

// Append adds tracks to the end and reports whether the store went from empty
// to non-empty. Nil entries are ignored.
func (s *Store) Append(tracks ...*model.Track) bool {
	wasEmpty := len(s.tracks) == 0
	s.tracks = append(s.tracks, lo.Compact(tracks)...)
	return wasEmpty && len(s.tracks) > 0
}

// Len returns the number of tracks
func (s *Store) Len() int {
	return len(s.tracks)
}

// Normalize maps any index onto [0, Len). -1 becomes the last index and Len
// becomes 0. It returns -1 for an empty store.
func (s *Store) Normalize(index int) int {
	n := len(s.tracks)
	if n == 0 {
		return -1
	}
	index %= n
	if index < 0 {
		index += n
	}
	return index
}

// Get returns the track at the normalized index
func (s *Store) Get(index int) (*model.Track, bool) {
	i := s.Normalize(index)
	if i < 0 {
		return nil, false
	}
	return s.tracks[i], true
}

// Snapshot returns a copy of the ordered track list
func (s *Store) Snapshot() []*model.Track {
	out := make([]*model.Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}
