package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Default and pseudo language codes
const (
	LanguageEnglish = "en"
	LanguageSystem  = "system"
)

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFile              = "file"
	KeySettings          = "settings"
	KeyLanguage          = "language"
	KeyTheme             = "theme"
	KeyThemeDark         = "theme_dark"
	KeyThemeLight        = "theme_light"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyAddFiles          = "add_files"
	KeyAddURL            = "add_url"
	KeyEnterURL          = "enter_url"
	KeyDropMusic         = "drop_music"
	KeyStartJourney      = "start_journey"
	KeyQueue             = "queue"
	KeyQueueEmpty        = "queue_empty"
	KeyReveal            = "reveal"
	KeyPlaybackSection   = "playback_section"
	KeyInterfaceSection  = "interface_section"
	KeyMPVBinary         = "mpv_binary"
	KeyMPVSocket         = "mpv_socket"
	KeyPollInterval      = "poll_interval"
	KeyExternalAutoplay  = "external_autoplay"
	KeyRestartRequired   = "restart_required"
	KeySettingsSaved     = "settings_saved"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyResolvingPlaylist = "resolving_playlist"
	KeyTracksAdded       = "tracks_added"
	KeyErrorAddingFiles  = "error_adding_files"
	KeyErrorOpeningFile  = "error_opening_file"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LanguageEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == LanguageSystem {
		// Use system locale - simplified to English for now
		lang = LanguageEnglish
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LanguageEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Orbit Player",
		KeyFile:              "File",
		KeySettings:          "Settings",
		KeyLanguage:          "Language",
		KeyTheme:             "Theme",
		KeyThemeDark:         "Dark",
		KeyThemeLight:        "Light",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyAddFiles:          "Add files",
		KeyAddURL:            "Add",
		KeyEnterURL:          "Paste a YouTube video or playlist URL",
		KeyDropMusic:         "Drop music or paste URL",
		KeyStartJourney:      "Start your journey",
		KeyQueue:             "Queue",
		KeyQueueEmpty:        "The queue is empty",
		KeyReveal:            "Show in folder",
		KeyPlaybackSection:   "Playback",
		KeyInterfaceSection:  "Interface",
		KeyMPVBinary:         "mpv executable",
		KeyMPVSocket:         "mpv IPC socket",
		KeyPollInterval:      "Progress poll interval (ms)",
		KeyExternalAutoplay:  "Start videos automatically",
		KeyRestartRequired:   "Player changes apply after restart",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyResolvingPlaylist: "Loading...",
		KeyTracksAdded:       "Tracks added: %d",
		KeyErrorAddingFiles:  "Some files could not be added",
		KeyErrorOpeningFile:  "Error opening file",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Orbit Player",
		KeyFile:              "Файл",
		KeySettings:          "Настройки",
		KeyLanguage:          "Язык",
		KeyTheme:             "Тема",
		KeyThemeDark:         "Тёмная",
		KeyThemeLight:        "Светлая",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyAddFiles:          "Добавить файлы",
		KeyAddURL:            "Добавить",
		KeyEnterURL:          "Вставьте ссылку на видео или плейлист YouTube",
		KeyDropMusic:         "Перетащите музыку или вставьте ссылку",
		KeyStartJourney:      "Начните путешествие",
		KeyQueue:             "Очередь",
		KeyQueueEmpty:        "Очередь пуста",
		KeyReveal:            "Показать в папке",
		KeyPlaybackSection:   "Воспроизведение",
		KeyInterfaceSection:  "Интерфейс",
		KeyMPVBinary:         "Исполняемый файл mpv",
		KeyMPVSocket:         "IPC-сокет mpv",
		KeyPollInterval:      "Интервал опроса прогресса (мс)",
		KeyExternalAutoplay:  "Запускать видео автоматически",
		KeyRestartRequired:   "Настройки плеера применятся после перезапуска",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyResolvingPlaylist: "Загрузка...",
		KeyTracksAdded:       "Добавлено треков: %d",
		KeyErrorAddingFiles:  "Некоторые файлы не удалось добавить",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Orbit Player",
		KeyFile:              "Arquivo",
		KeySettings:          "Configurações",
		KeyLanguage:          "Idioma",
		KeyTheme:             "Tema",
		KeyThemeDark:         "Escuro",
		KeyThemeLight:        "Claro",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyAddFiles:          "Adicionar arquivos",
		KeyAddURL:            "Adicionar",
		KeyEnterURL:          "Cole a URL de um vídeo ou playlist do YouTube",
		KeyDropMusic:         "Solte músicas ou cole uma URL",
		KeyStartJourney:      "Comece sua jornada",
		KeyQueue:             "Fila",
		KeyQueueEmpty:        "A fila está vazia",
		KeyReveal:            "Mostrar na pasta",
		KeyPlaybackSection:   "Reprodução",
		KeyInterfaceSection:  "Interface",
		KeyMPVBinary:         "Executável do mpv",
		KeyMPVSocket:         "Socket IPC do mpv",
		KeyPollInterval:      "Intervalo de consulta do progresso (ms)",
		KeyExternalAutoplay:  "Iniciar vídeos automaticamente",
		KeyRestartRequired:   "Alterações do player valem após reiniciar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyResolvingPlaylist: "Carregando...",
		KeyTracksAdded:       "Faixas adicionadas: %d",
		KeyErrorAddingFiles:  "Alguns arquivos não puderam ser adicionados",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
	}
}
