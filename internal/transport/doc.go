// Package transport owns the playlist cursor and play state and drives the
// playback backend from a single event loop.
package transport
