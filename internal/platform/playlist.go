package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/orbit-player/internal/model"
)

// DefaultPlaylistTimeout bounds a single playlist expansion
const DefaultPlaylistTimeout = 60 * time.Second

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
)

// PlaylistFetcher lists the entries of a playlist by id
type PlaylistFetcher func(ctx context.Context, playlistID string) ([]model.RemoteEntry, error)

// PlaylistResolver expands YouTube playlist URLs into their videos
type PlaylistResolver struct {
	timeout time.Duration
	fetch   PlaylistFetcher
}

// NewPlaylistResolver creates a resolver backed by ytdlp
func NewPlaylistResolver() *PlaylistResolver {
	return &PlaylistResolver{
		timeout: DefaultPlaylistTimeout,
		fetch:   fetchWithYTDLP,
	}
}

// NewPlaylistResolverWithFetcher creates a resolver with a custom fetcher
func NewPlaylistResolverWithFetcher(fetch PlaylistFetcher) *PlaylistResolver {
	return &PlaylistResolver{timeout: DefaultPlaylistTimeout, fetch: fetch}
}

// SetTimeout sets the timeout for a single expansion
func (r *PlaylistResolver) SetTimeout(timeout time.Duration) {
	r.timeout = timeout
}

// Resolve expands a playlist URL. The returned playlist is in error state
// when err is not nil.
func (r *PlaylistResolver) Resolve(ctx context.Context, url string) (*model.RemotePlaylist, error) {
	playlist := model.NewRemotePlaylist(url)

	id := ExtractPlaylistID(url)
	if id == "" {
		err := fmt.Errorf("no playlist id in %q: %w", url, ErrInvalidURL)
		playlist.Fail(err)
		return playlist, err
	}
	playlist.ID = id

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	entries, err := r.fetch(ctx, id)
	if err != nil {
		err = fmt.Errorf("failed to get playlist items: %w", err)
		playlist.Fail(err)
		return playlist, err
	}

	for i, entry := range entries {
		entry.Index = i
		playlist.AddEntry(entry)
	}
	playlist.Title = playlistTitle(playlist.Entries)
	playlist.UpdateStatus(model.RemotePlaylistReady)
	return playlist, nil
}

func fetchWithYTDLP(ctx context.Context, playlistID string) ([]model.RemoteEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]model.RemoteEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.RemoteEntry{VideoID: it.VideoID, Title: it.Title})
	}
	return entries, nil
}

// playlistTitle derives a title from the common prefix of the first titles
func playlistTitle(entries []model.RemoteEntry) string {
	if len(entries) == 0 {
		return DefaultPlaylistName
	}
	if len(entries) > 1 {
		prefix := commonPrefix(entries[0].Title, entries[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return entries[0].Title + PlaylistSuffix
}

func commonPrefix(s1, s2 string) string {
	n := min(len(s1), len(s2))
	for i := 0; i < n; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:n]
}
