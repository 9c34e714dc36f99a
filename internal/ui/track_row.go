package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/orbit-player/internal/model"
)

// TrackRow renders one queue entry
type TrackRow struct {
	widget.BaseWidget

	track   *model.Track
	current bool

	iconLabel   *widget.Label
	titleLabel  *widget.Label
	artistLabel *widget.Label
	revealBtn   *widget.Button

	onReveal func(path string)
}

// NewTrackRow creates a row; SetTrack fills it in
func NewTrackRow(onReveal func(path string)) *TrackRow {
	tr := &TrackRow{onReveal: onReveal}
	tr.createUI()
	tr.ExtendBaseWidget(tr)
	return tr
}

// SetTrack shows track, highlighted when current
func (tr *TrackRow) SetTrack(track *model.Track, current bool) {
	tr.track = track
	tr.current = current
	tr.updateFromTrack()
	tr.Refresh()
}

func (tr *TrackRow) createUI() {
	tr.iconLabel = widget.NewLabel("")

	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.artistLabel = widget.NewLabel("")
	tr.artistLabel.Truncation = fyne.TextTruncateEllipsis
	tr.artistLabel.Importance = widget.LowImportance
	tr.artistLabel.SizeName = theme.SizeNameCaptionText

	tr.revealBtn = widget.NewButton(IconFolder, func() {
		if tr.onReveal == nil || revealPath(tr.track) == "" {
			return
		}
		tr.onReveal(revealPath(tr.track))
	})
	tr.revealBtn.Importance = widget.LowImportance
}

func (tr *TrackRow) updateFromTrack() {
	if tr.track == nil {
		tr.iconLabel.SetText("")
		tr.titleLabel.SetText("")
		tr.artistLabel.SetText("")
		tr.revealBtn.Hide()
		return
	}

	icon := IconMusic
	if tr.track.Source == model.SourceExternal {
		icon = IconVideo
	}
	if tr.current {
		icon = IconPlay
	}
	tr.iconLabel.SetText(icon)

	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: tr.current}
	tr.titleLabel.SetText(cleanText(tr.track.GetDisplayTitle()))
	tr.artistLabel.SetText(tr.track.Artist)

	if revealPath(tr.track) != "" {
		tr.revealBtn.Show()
	} else {
		tr.revealBtn.Hide()
	}
}

// CreateRenderer implements fyne.Widget
func (tr *TrackRow) CreateRenderer() fyne.WidgetRenderer {
	text := container.NewVBox(tr.titleLabel, tr.artistLabel)
	content := container.NewBorder(nil, nil, tr.iconLabel, tr.revealBtn, text)
	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows tall enough for two lines
func (tr *TrackRow) MinSize() fyne.Size {
	size := tr.BaseWidget.MinSize()
	return fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight))
}

// revealPath is the on-disk path of a local track, or "" when there is none
func revealPath(track *model.Track) string {
	if track == nil || track.Source != model.SourceLocal || track.File == nil {
		return ""
	}
	path := track.File.Path
	if !strings.ContainsAny(path, `/\`) {
		return ""
	}
	return path
}

// cleanText flattens whitespace that would break a single-line label
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
