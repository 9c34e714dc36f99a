package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/orbit-player/internal/model"
)

func externalTrack(t *testing.T, id string) *model.Track {
	t.Helper()
	track, err := model.NewExternalTrack(id, "")
	require.NoError(t, err)
	return track
}

func TestStore_AppendReportsFirstTransitionOnly(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Append(), "appending nothing is not a transition")
	assert.True(t, s.Append(externalTrack(t, "a"), externalTrack(t, "b")))
	assert.False(t, s.Append(externalTrack(t, "c")))
	assert.False(t, s.Append(externalTrack(t, "d")))
	assert.Equal(t, 4, s.Len())
}

func TestStore_AppendSkipsNil(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Append(nil))
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Append(nil, externalTrack(t, "a")))
	assert.Equal(t, 1, s.Len())
}

func TestStore_DuplicatesAllowed(t *testing.T) {
	s := NewStore()
	track := externalTrack(t, "a")

	s.Append(track, track)
	assert.Equal(t, 2, s.Len())
}

func TestStore_GetWraparound(t *testing.T) {
	s := NewStore()
	a, b, c := externalTrack(t, "a"), externalTrack(t, "b"), externalTrack(t, "c")
	s.Append(a, b, c)

	tests := []struct {
		name     string
		index    int
		expected *model.Track
	}{
		{"first", 0, a},
		{"last", 2, c},
		{"length wraps to first", 3, a},
		{"minus one wraps to last", -1, c},
		{"far positive", 7, b},
		{"far negative", -5, b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Get(tt.index)
			require.True(t, ok)
			assert.Same(t, tt.expected, got)
		})
	}
}

func TestStore_GetEmpty(t *testing.T) {
	s := NewStore()

	got, ok := s.Get(0)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, -1, s.Normalize(0))
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Append(externalTrack(t, "a"))

	snap := s.Snapshot()
	snap[0] = nil

	got, ok := s.Get(0)
	require.True(t, ok)
	assert.NotNil(t, got)
}
