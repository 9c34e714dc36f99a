package backend

// Package backend implements the playback engines behind the transport: a local
// engine that decodes audio files with beep and an external engine that drives
// an mpv process for YouTube videos. Adapter presents both through one facade
// and guarantees that only one of them is active at a time.
