// Package platform contains OS and external service integration: local audio
// file intake, YouTube URL parsing, playlist expansion via ytdlp and OS reveal.
package platform
