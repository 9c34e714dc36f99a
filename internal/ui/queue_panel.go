package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/orbit-player/internal/model"
)

// QueuePanel lists the playlist next to the orbit view
type QueuePanel struct {
	localization *Localization

	tracks []*model.Track
	cursor int

	container  *fyne.Container
	header     *widget.Label
	emptyLabel *widget.Label
	list       *widget.List

	onSelect func(index int)
	onReveal func(path string)
}

// NewQueuePanel creates the panel
func NewQueuePanel(localization *Localization, onSelect func(index int), onReveal func(path string)) *QueuePanel {
	qp := &QueuePanel{
		localization: localization,
		cursor:       -1,
		onSelect:     onSelect,
		onReveal:     onReveal,
	}
	qp.createUI()
	return qp
}

func (qp *QueuePanel) createUI() {
	qp.list = widget.NewList(
		func() int {
			return len(qp.tracks)
		},
		func() fyne.CanvasObject {
			return NewTrackRow(qp.onReveal)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row, ok := obj.(*TrackRow)
			if !ok || id < 0 || id >= len(qp.tracks) {
				return
			}
			row.SetTrack(qp.tracks[id], id == qp.cursor)
		},
	)
	qp.list.OnSelected = func(id widget.ListItemID) {
		qp.list.UnselectAll()
		if qp.onSelect != nil {
			qp.onSelect(id)
		}
	}

	qp.header = widget.NewLabel("")
	qp.header.TextStyle = fyne.TextStyle{Bold: true}
	qp.emptyLabel = widget.NewLabel("")
	qp.emptyLabel.Alignment = fyne.TextAlignCenter
	qp.emptyLabel.Importance = widget.LowImportance

	qp.container = container.NewBorder(
		qp.header,
		nil,
		nil,
		nil,
		container.NewStack(qp.list, container.NewCenter(qp.emptyLabel)),
	)
	qp.refreshTexts()
}

// Container returns the panel's root object
func (qp *QueuePanel) Container() *fyne.Container {
	return qp.container
}

// SetTracks shows tracks with cursor highlighted
func (qp *QueuePanel) SetTracks(tracks []*model.Track, cursor int) {
	qp.tracks = tracks
	qp.cursor = cursor
	qp.refreshTexts()
	qp.list.Refresh()
	if cursor >= 0 && cursor < len(tracks) {
		qp.list.ScrollTo(cursor)
	}
}

// Len returns the number of listed tracks
func (qp *QueuePanel) Len() int {
	return len(qp.tracks)
}

// refreshTexts applies the current language
func (qp *QueuePanel) refreshTexts() {
	qp.header.SetText(qp.localization.GetText(KeyQueue))
	qp.emptyLabel.SetText(qp.localization.GetText(KeyQueueEmpty))
	if len(qp.tracks) == 0 {
		qp.emptyLabel.Show()
	} else {
		qp.emptyLabel.Hide()
	}
}
