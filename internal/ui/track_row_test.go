package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/orbit-player/internal/model"
)

func TestRevealPath(t *testing.T) {
	local, _ := model.NewLocalTrack(&model.LocalFile{Name: "song.mp3", Path: "/music/song.mp3", Data: []byte{1}})
	bare, _ := model.NewLocalTrack(&model.LocalFile{Name: "song.mp3", Path: "song.mp3", Data: []byte{1}})
	external, _ := model.NewExternalTrack("abc123", "")

	tests := []struct {
		name  string
		track *model.Track
		want  string
	}{
		{"local with directory", local, "/music/song.mp3"},
		{"local without directory", bare, ""},
		{"external", external, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := revealPath(tt.track); got != tt.want {
				t.Errorf("revealPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  a\tb\nc\r "); got != "a b c" {
		t.Errorf("cleanText() = %q", got)
	}
}

func TestTrackRow(t *testing.T) {
	test.NewApp()

	var revealed []string
	row := NewTrackRow(func(path string) { revealed = append(revealed, path) })

	local, _ := model.NewLocalTrack(&model.LocalFile{Name: "song.mp3", Path: "/music/song.mp3", Data: []byte{1}})
	row.SetTrack(local, false)
	if row.titleLabel.Text != "song" || row.artistLabel.Text != model.LocalArtist {
		t.Errorf("Unexpected labels %q / %q", row.titleLabel.Text, row.artistLabel.Text)
	}
	if row.iconLabel.Text != IconMusic {
		t.Errorf("Expected music icon, got %q", row.iconLabel.Text)
	}
	if !row.revealBtn.Visible() {
		t.Error("Reveal should be visible for a local file")
	}
	test.Tap(row.revealBtn)
	if len(revealed) != 1 || revealed[0] != "/music/song.mp3" {
		t.Errorf("Expected reveal of the file path, got %v", revealed)
	}

	external, _ := model.NewExternalTrack("abc123", "")
	row.SetTrack(external, true)
	if row.iconLabel.Text != IconPlay || !row.titleLabel.TextStyle.Bold {
		t.Error("Current track should be marked and bold")
	}
	if row.revealBtn.Visible() {
		t.Error("Reveal should be hidden for a video")
	}
}
