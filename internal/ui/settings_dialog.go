package ui

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/orbit-player/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	mpvBinaryEntry    *widget.Entry
	mpvSocketEntry    *widget.Entry
	pollIntervalEntry *widget.Entry
	autoplayCheck     *widget.Check
	themeSelect       *widget.Select
	languageSelect    *widget.Select
}

// ShowSettingsDialog builds and shows the dialog; onSaved runs after a save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window, onSaved)
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.mpvBinaryEntry = widget.NewEntry()
	sd.mpvBinaryEntry.SetPlaceHolder(config.DefaultMPVBinary)
	browseBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseBinary)
	mpvBinaryRow := container.NewBorder(nil, nil, nil, browseBtn, sd.mpvBinaryEntry)

	sd.mpvSocketEntry = widget.NewEntry()
	sd.pollIntervalEntry = widget.NewEntry()
	sd.pollIntervalEntry.SetPlaceHolder(strconv.FormatInt(config.DefaultPollInterval.Milliseconds(), 10))
	sd.autoplayCheck = widget.NewCheck(t(KeyExternalAutoplay), nil)

	sd.themeSelect = widget.NewSelect(sd.themeLabels(), nil)

	languageOptions := make([]string, 0)
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	restartNote := widget.NewLabel(t(KeyRestartRequired))
	restartNote.Importance = widget.LowImportance

	form := container.NewVBox(
		widget.NewLabel(t(KeyPlaybackSection)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyMPVBinary)+":"),
		mpvBinaryRow,

		widget.NewLabel(t(KeyMPVSocket)+":"),
		sd.mpvSocketEntry,

		widget.NewLabel(t(KeyPollInterval)+":"),
		sd.pollIntervalEntry,

		sd.autoplayCheck,
		restartNote,

		widget.NewSeparator(),
		widget.NewLabel(t(KeyInterfaceSection)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyTheme)+":"),
		sd.themeSelect,

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(500, 460))
}

// themeLabels returns localized labels in settings option order
func (sd *SettingsDialog) themeLabels() []string {
	labels := make([]string, 0)
	for _, v := range sd.settings.GetThemeOptions() {
		labels = append(labels, sd.themeLabel(v))
	}
	return labels
}

func (sd *SettingsDialog) themeLabel(v config.ThemeVariant) string {
	if v == config.ThemeLight {
		return sd.localization.GetText(KeyThemeLight)
	}
	return sd.localization.GetText(KeyThemeDark)
}

func (sd *SettingsDialog) themeFromLabel(label string) (config.ThemeVariant, bool) {
	for _, v := range sd.settings.GetThemeOptions() {
		if sd.themeLabel(v) == label {
			return v, true
		}
	}
	return "", false
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.mpvBinaryEntry.SetText(sd.settings.GetMPVBinary())
	sd.mpvSocketEntry.SetText(sd.settings.GetMPVSocket())
	sd.pollIntervalEntry.SetText(strconv.FormatInt(sd.settings.GetPollInterval().Milliseconds(), 10))
	sd.autoplayCheck.SetChecked(sd.settings.GetExternalAutoplay())
	sd.themeSelect.SetSelected(sd.themeLabel(sd.settings.GetTheme()))
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseBinary picks the mpv executable
func (sd *SettingsDialog) onBrowseBinary() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		sd.mpvBinaryEntry.SetText(reader.URI().Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply writes the form into settings, skipping empty or invalid fields
func (sd *SettingsDialog) apply() {
	if binary := strings.TrimSpace(sd.mpvBinaryEntry.Text); binary != "" {
		sd.settings.SetMPVBinary(binary)
	}

	sd.settings.SetMPVSocket(strings.TrimSpace(sd.mpvSocketEntry.Text))

	if ms, err := strconv.Atoi(strings.TrimSpace(sd.pollIntervalEntry.Text)); err == nil {
		sd.settings.SetPollInterval(time.Duration(ms) * time.Millisecond)
	}

	sd.settings.SetExternalAutoplay(sd.autoplayCheck.Checked)

	if v, ok := sd.themeFromLabel(sd.themeSelect.Selected); ok {
		sd.settings.SetTheme(v)
	}

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}
}
