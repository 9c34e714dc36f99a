package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/orbit-player/internal/config"
	"github.com/ytget/orbit-player/internal/model"
	"github.com/ytget/orbit-player/internal/platform"
	"github.com/ytget/orbit-player/internal/transport"
)

const actionQueueSize = 32

// Player is the transport surface driven by the window
type Player interface {
	LoadTrack(index int)
	TogglePlay()
	Next()
	Previous()
	Seek(fraction float64)
	SetVolume(v float64) model.VolumeLevel
	AddFiles(paths ...string) (int, error)
	AddURL(ctx context.Context, raw string) (int, error)
	SetUpdateCallback(fn func(transport.Snapshot))
	SetProgressCallback(fn func(model.Progress))
}

// RootUI represents the main UI structure
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	app          fyne.App
	player       Player
	settings     *config.Settings
	localization *Localization
	mobile       *MobileUI
	log          *zap.Logger

	// transport actions run in order off the UI goroutine
	actions chan func()

	// Now playing
	titleLabel  *widget.Label
	artistLabel *widget.Label
	current     *model.Track

	// Controls
	prevBtn      *widget.Button
	playBtn      *widget.Button
	nextBtn      *widget.Button
	seekBar      *SeekBar
	timeLabel    *widget.Label
	volumeIcon   *widget.Label
	volumeSlider *widget.Slider

	// Add tracks
	urlEntry    *widget.Entry
	addURLBtn   *widget.Button
	addFilesBtn *widget.Button

	orbitView *OrbitView
	queue     *QueuePanel

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationGen       int
}

// NewRootUI creates the player window content and subscribes to player updates.
// Actions run until ctx is done.
func NewRootUI(ctx context.Context, window fyne.Window, app fyne.App, player Player, settings *config.Settings, log *zap.Logger) *RootUI {
	if log == nil {
		log = zap.NewNop()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		ctx:          ctx,
		window:       window,
		app:          app,
		player:       player,
		settings:     settings,
		localization: localization,
		mobile:       NewMobileUI(),
		log:          log,
		actions:      make(chan func(), actionQueueSize),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	ui.applyTheme()

	go ui.runActions()

	player.SetUpdateCallback(ui.onSnapshot)
	player.SetProgressCallback(ui.onProgress)

	volume := settings.GetVolume()
	ui.dispatch(func() { ui.player.SetVolume(volume) })

	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	// Now playing
	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.SizeName = theme.SizeNameHeadingText
	ui.titleLabel.Alignment = fyne.TextAlignCenter
	ui.titleLabel.Truncation = fyne.TextTruncateEllipsis
	ui.artistLabel = widget.NewLabel("")
	ui.artistLabel.Alignment = fyne.TextAlignCenter
	ui.artistLabel.Importance = widget.LowImportance
	ui.showTrackInfo(nil)

	// Transport
	ui.prevBtn = widget.NewButton(IconPrevious, ui.onPrevious)
	ui.playBtn = widget.NewButton(IconPlay, ui.onTogglePlay)
	ui.playBtn.Importance = widget.HighImportance
	ui.nextBtn = widget.NewButton(IconNext, ui.onNext)
	transportRow := container.NewCenter(
		container.NewGridWrap(ui.mobile.ControlSize(), ui.prevBtn, ui.playBtn, ui.nextBtn),
	)

	ui.seekBar = NewSeekBar(ui.onSeek)
	ui.timeLabel = widget.NewLabel(formatPosition(model.UnknownProgress))
	ui.timeLabel.TextStyle = fyne.TextStyle{Monospace: true}

	volume := ui.settings.GetVolume()
	ui.volumeIcon = widget.NewLabel(volumeIcon(model.VolumeLevelFor(volume)))
	ui.volumeSlider = widget.NewSlider(0, VolumeSliderMax)
	ui.volumeSlider.Step = VolumeSliderStep
	ui.volumeSlider.SetValue(volume * VolumeSliderMax)
	ui.volumeSlider.OnChanged = ui.onVolumeChanged
	ui.volumeSlider.OnChangeEnded = ui.onVolumeChangeEnded
	volumeBox := container.NewBorder(nil, nil, ui.volumeIcon, nil,
		container.NewGridWrap(fyne.NewSize(VolumeSliderWidth, ui.volumeSlider.MinSize().Height), ui.volumeSlider))

	progressRow := container.NewBorder(nil, nil, nil, container.NewHBox(ui.timeLabel, volumeBox), ui.seekBar)
	controls := container.NewVBox(ui.titleLabel, ui.artistLabel, progressRow, transportRow)

	// URL row
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onAddURL()
	}
	ui.addURLBtn = widget.NewButton(ui.localization.GetText(KeyAddURL), ui.onAddURL)
	ui.addFilesBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyAddFiles), ui.onAddFiles)
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
		left = container.NewHBox(logoImage, settingsBtn)
	}
	topPanel := container.NewBorder(nil, nil, left, container.NewHBox(ui.addURLBtn, ui.addFilesBtn), ui.urlEntry)

	// Notification panel under URL input (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()
	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	// Orbit and queue
	ui.orbitView = NewOrbitView(ui.onSelectTrack, ui.onSwipe)
	ui.queue = NewQueuePanel(ui.localization, ui.onSelectTrack, ui.onRevealFile)
	center := ui.mobile.MainSplit(ui.orbitView, ui.queue.Container())

	content := container.NewBorder(
		topCombined, // top
		controls,    // bottom
		nil,         // left
		nil,         // right
		center,
	)

	ui.window.SetContent(content)
	ui.window.Canvas().SetOnTypedKey(ui.onTypedKey)
	ui.window.SetOnDropped(ui.onDropped)
	ui.orbitView.StartAnimation()

	ui.log.Debug("ui setup completed")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	addFilesItem := fyne.NewMenuItem(t(KeyAddFiles), ui.onAddFiles)
	settingsItem := fyne.NewMenuItem(t(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	themeMenu := fyne.NewMenu(t(KeyTheme))
	for _, variant := range ui.settings.GetThemeOptions() {
		v := variant
		label := t(KeyThemeDark)
		if v == config.ThemeLight {
			label = t(KeyThemeLight)
		}
		item := fyne.NewMenuItem(label, func() {
			ui.onThemeChange(v)
		})
		item.Checked = ui.settings.GetTheme() == v
		themeMenu.Items = append(themeMenu.Items, item)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(t(KeyFile), addFilesItem, settingsItem),
		languageMenu,
		themeMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// onThemeChange switches and persists the color scheme
func (ui *RootUI) onThemeChange(v config.ThemeVariant) {
	ui.settings.SetTheme(v)
	ui.applyTheme()
	ui.createMenu()
}

func (ui *RootUI) applyTheme() {
	th := NewPlayerTheme(ui.settings.GetTheme())
	ui.app.Settings().SetTheme(th)
	if pt, ok := th.(*PlayerTheme); ok {
		ui.orbitView.SetOrbitColor(pt.OrbitColor())
	}
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.addURLBtn.SetText(ui.localization.GetText(KeyAddURL))
	ui.addFilesBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyAddFiles))
	ui.showTrackInfo(ui.current)
	ui.queue.refreshTexts()
}

// dispatch queues a transport action; it never blocks the caller
func (ui *RootUI) dispatch(fn func()) {
	select {
	case ui.actions <- fn:
	default:
		ui.log.Warn("action queue full, dropping input")
	}
}

func (ui *RootUI) runActions() {
	for {
		select {
		case <-ui.ctx.Done():
			return
		case fn := <-ui.actions:
			fn()
		}
	}
}

func (ui *RootUI) onTogglePlay() {
	ui.dispatch(ui.player.TogglePlay)
}

func (ui *RootUI) onNext() {
	ui.dispatch(ui.player.Next)
}

func (ui *RootUI) onPrevious() {
	ui.dispatch(ui.player.Previous)
}

func (ui *RootUI) onSelectTrack(index int) {
	ui.dispatch(func() { ui.player.LoadTrack(index) })
}

func (ui *RootUI) onSeek(fraction float64) {
	ui.dispatch(func() { ui.player.Seek(fraction) })
}

// onSwipe steps through the queue: swiping left brings the next track in
func (ui *RootUI) onSwipe(g GestureType) {
	switch g {
	case GestureSwipeLeft:
		ui.onNext()
	case GestureSwipeRight:
		ui.onPrevious()
	}
}

// onTypedKey handles shortcuts when no entry has focus
func (ui *RootUI) onTypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace:
		ui.onTogglePlay()
	case fyne.KeyRight:
		ui.onNext()
	case fyne.KeyLeft:
		ui.onPrevious()
	}
}

func (ui *RootUI) onVolumeChanged(value float64) {
	v := model.ClampVolume(value / VolumeSliderMax)
	ui.volumeIcon.SetText(volumeIcon(model.VolumeLevelFor(v)))
	ui.dispatch(func() { ui.player.SetVolume(v) })
}

func (ui *RootUI) onVolumeChangeEnded(value float64) {
	ui.settings.SetVolume(model.ClampVolume(value / VolumeSliderMax))
}

// onAddURL adds the video or playlist typed in the URL entry
func (ui *RootUI) onAddURL() {
	raw := strings.TrimSpace(ui.urlEntry.Text)
	if raw == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}

	ui.log.Info("adding url", zap.String("url", raw))
	ui.showNotification(ui.localization.GetText(KeyResolvingPlaylist), true)

	go func() {
		n, err := ui.player.AddURL(ui.ctx, raw)
		if err != nil {
			ui.log.Warn("url rejected", zap.String("url", raw), zap.Error(err))
			ui.showNotification(ui.localization.GetText(KeyInvalidURL)+": "+err.Error(), false)
			return
		}
		fyne.Do(func() {
			if strings.TrimSpace(ui.urlEntry.Text) == raw {
				ui.urlEntry.SetText("")
			}
		})
		ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyTracksAdded), n), false)
	}()
}

// onAddFiles opens a file picker in the last used directory
func (ui *RootUI) onAddFiles() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error(), false)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		ui.settings.SetLastDirectory(filepath.Dir(path))
		ui.addPaths([]string{path})
	}, ui.window)

	fd.SetFilter(storage.NewExtensionFileFilter(platform.AudioExtensions))
	if dir := ui.settings.GetLastDirectory(); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

// onDropped adds audio files dropped onto the window
func (ui *RootUI) onDropped(_ fyne.Position, uris []fyne.URI) {
	paths := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri.Scheme() == "file" && platform.IsAudioFile(uri.Path()) {
			paths = append(paths, uri.Path())
		}
	}
	if len(paths) == 0 {
		ui.showNotification(ui.localization.GetText(KeyErrorAddingFiles), false)
		return
	}
	ui.addPaths(paths)
}

func (ui *RootUI) addPaths(paths []string) {
	go func() {
		n, err := ui.player.AddFiles(paths...)
		if err != nil {
			ui.log.Warn("some files were not added", zap.Strings("paths", paths), zap.Error(err))
			ui.showNotification(ui.localization.GetText(KeyErrorAddingFiles)+": "+err.Error(), false)
			return
		}
		ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyTracksAdded), n), false)
	}()
}

// onRevealFile opens the folder containing a local track
func (ui *RootUI) onRevealFile(path string) {
	if err := platform.OpenFileInManager(path); err != nil {
		ui.log.Warn("reveal failed", zap.String("path", path), zap.Error(err))
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error(), false)
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.onLanguageChange(ui.settings.GetLanguage())
		ui.applyTheme()
	})
}

// onSnapshot is called on the transport loop
func (ui *RootUI) onSnapshot(s transport.Snapshot) {
	fyne.Do(func() {
		ui.applySnapshot(s)
	})
}

// onProgress is called on the transport loop
func (ui *RootUI) onProgress(p model.Progress) {
	fyne.Do(func() {
		ui.seekBar.SetValue(p.Fraction())
		ui.timeLabel.SetText(formatPosition(p))
	})
}

func (ui *RootUI) applySnapshot(s transport.Snapshot) {
	if s.Current != ui.current {
		ui.current = s.Current
		ui.showTrackInfo(s.Current)
		ui.seekBar.SetValue(0)
		ui.timeLabel.SetText(formatPosition(model.UnknownProgress))
	}

	if s.Playing {
		ui.playBtn.SetText(IconPause)
	} else {
		ui.playBtn.SetText(IconPlay)
	}

	ui.volumeIcon.SetText(volumeIcon(model.VolumeLevelFor(s.Volume)))
	ui.orbitView.SetTracks(s.Tracks, s.Cursor, s.Playing)
	ui.queue.SetTracks(s.Tracks, s.Cursor)
}

// showTrackInfo shows the current track, or the welcome text without one
func (ui *RootUI) showTrackInfo(track *model.Track) {
	if track == nil {
		ui.titleLabel.SetText(ui.localization.GetText(KeyDropMusic))
		ui.artistLabel.SetText(ui.localization.GetText(KeyStartJourney))
		return
	}
	ui.titleLabel.SetText(cleanText(track.GetDisplayTitle()))
	ui.artistLabel.SetText(track.Artist)
}

// showNotification displays a message in the notification panel under the URL input.
// When spinning is true, a spinner is shown to indicate background activity.
// Messages without a spinner hide themselves after a while.
func (ui *RootUI) showNotification(message string, spinning bool) {
	fyne.Do(func() {
		ui.notificationGen++
		gen := ui.notificationGen

		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()

		if !spinning {
			time.AfterFunc(NotificationAutoHide, func() {
				ui.hideNotification(gen)
			})
		}
	})
}

// hideNotification hides the panel unless a newer message replaced it
func (ui *RootUI) hideNotification(gen int) {
	fyne.Do(func() {
		if gen != ui.notificationGen {
			return
		}
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// volumeIcon returns the symbol for a volume level
func volumeIcon(level model.VolumeLevel) string {
	switch level {
	case model.VolumeMuted:
		return IconVolumeMuted
	case model.VolumeLow:
		return IconVolumeLow
	default:
		return IconVolumeHigh
	}
}

// formatPosition renders "m:ss / m:ss"
func formatPosition(p model.Progress) string {
	return model.FormatTime(p.CurrentTime) + TimeSeparator + model.FormatTime(p.Duration)
}
