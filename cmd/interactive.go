package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipwave/clipwave-cli/internal/config"
	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
	"github.com/clipwave/clipwave-cli/internal/history"
	"github.com/clipwave/clipwave-cli/internal/timefield"
	"github.com/clipwave/clipwave-cli/internal/watch"
)

// ========================================
// Renk Paleti ve Stiller
// ========================================

var (
	// Ana renk paleti
	primaryColor   = lipgloss.Color("#7C3AED") // Mor
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	accentColor    = lipgloss.Color("#10B981") // Yeşil
	warningColor   = lipgloss.Color("#F59E0B") // Sarı
	dangerColor    = lipgloss.Color("#EF4444") // Kırmızı
	textColor      = lipgloss.Color("#E2E8F0") // Açık gri
	dimTextColor   = lipgloss.Color("#64748B") // Koyu gri

	// Gradient renkleri (banner için)
	gradientColors = []lipgloss.Color{
		"#818CF8", "#A78BFA", "#C084FC", "#E879F9", "#F472B6",
	}

	// Stiller
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2).
			MarginBottom(1)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(secondaryColor).
				PaddingLeft(2)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(4)

	descStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 3).
			MarginTop(1)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			PaddingLeft(2)

	folderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// Desteklenen video uzantıları (dosya tarayıcı filtresi)
var videoExtensions = []string{
	".mp4", ".mov", ".mkv", ".avi", ".webm", ".m4v", ".wmv", ".flv", ".ts", ".mts", ".m2ts", ".3gp",
}

func isVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range videoExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ========================================
// State Machine
// ========================================

type screenState int

const (
	stateMainMenu screenState = iota
	stateFileBrowser
	stateTrimEditor
	statePreflight
	stateCutting
	stateCutDone
	stateHistory
	stateDependencies
	stateSettings
	stateSettingsBrowser
)

// Preflight ekranının alt durumları
type preflightPhase int

const (
	preflightChecking preflightPhase = iota
	preflightMisaligned
	preflightAligned
	preflightFailed
)

// Trim editöründe odaklanılabilir satırlar
const (
	focusInField = iota
	focusOutField
	focusMode
	focusAudio
	focusSubtitle
	focusCount
)

// ========================================
// Model
// ========================================

type cutBypassKey struct {
	inputPath string
	inText    string
	outText   string
	binDir    string
}

type interactiveModel struct {
	state  screenState
	cursor int

	// Menü
	choices     []string
	choiceIcons []string
	choiceDescs []string

	// Araçlar ve yapılandırma
	tools        ffmpeg.Tools
	dependencies []ffmpeg.ToolStatus
	toolsOK      bool

	// Dosya tarayıcı
	browserDir   string
	browserItems []browserEntry

	// Trim editörü
	selectedFile  string
	inField       timefield.Field
	outField      timefield.Field
	editorFocus   int
	mode          ffmpeg.CutMode
	media         *ffmpeg.MediaInfo
	audioIdx      int // media.Audio index'i, -1 = ses yok
	subtitleIdx   int // media.Subtitles index'i, -1 = altyazı yok
	validationErr string
	sessionLog    []string
	subsLoaded    bool

	// In noktası milisaniye taşıyabilir (keyframe'e hizalama sonrası);
	// mask alanı değiştiğinde sıfırlanır.
	inOverrideText    string
	inOverrideSeconds float64

	// Ön kontrol (keyframe hizalama)
	preflight      *ffmpeg.PreflightResult
	preflightPhase preflightPhase
	preflightErr   string
	preflightSeq   int

	// Dosya açma probe oturumu
	openSeq int

	// Aynı anda tek kesim
	busy       bool
	pendingCut *ffmpeg.CutRequest
	bypassKey  *cutBypassKey

	// Dosya izleme
	watcher *watch.FileWatcher

	// Kesim geçmişi
	histStore   *history.Store
	histEntries []history.Entry
	histErr     string

	// Sonuçlar
	resultMsg      string
	resultErr      bool
	resultWarning  string
	actualDuration float64
	hasActual      bool
	duration       time.Duration

	// Spinner
	spinnerIdx  int
	spinnerTick int
	showCursor  bool

	// Pencere
	width  int
	height int

	// Çıkış
	quitting bool

	// Ayarlar
	settingsBrowserDir    string
	settingsBrowserItems  []browserEntry
	settingsBrowserTarget int
}

// Ayarlar dizin tarayıcısının hedefi
const (
	settingsTargetFFmpeg = iota
	settingsTargetOutput
)

type browserEntry struct {
	name  string
	path  string
	isDir bool
}

// Mesajlar
type openProbeDoneMsg struct {
	seq  int
	info *ffmpeg.MediaInfo
	err  error
}

type subtitlesDoneMsg struct {
	seq  int
	subs []ffmpeg.SubtitleStream
	err  error
}

type preflightDoneMsg struct {
	seq    int
	result *ffmpeg.PreflightResult
	err    error
}

type cutDoneMsg struct {
	err      error
	result   ffmpeg.CutResult
	duration time.Duration
}

type fileChangedMsg struct{}

type tickMsg time.Time

func newInteractiveModel(tools ffmpeg.Tools, deps []ffmpeg.ToolStatus, hist *history.Store) interactiveModel {
	homeDir := getHomeDir()

	// Son kullanılan dizinden devam et
	browserDir := config.GetLastOpenDir()
	if browserDir == "" {
		browserDir = homeDir
	}
	if info, err := os.Stat(browserDir); err != nil || !info.IsDir() {
		browserDir = homeDir
	}

	mode := ffmpeg.ModeLossless
	if cfg, err := config.LoadConfig(); err == nil && cfg.DefaultMode == string(ffmpeg.ModeExact) {
		mode = ffmpeg.ModeExact
	}

	m := interactiveModel{
		state:  stateMainMenu,
		cursor: 0,
		choices: []string{
			"Video Kes",
			"Kesim Geçmişi",
			"Sistem Kontrolü",
			"Ayarlar",
			"Çıkış",
		},
		choiceIcons: []string{"✂️ ", "🕘", "🔧", "⚙️ ", "👋"},
		choiceDescs: []string{
			"Bir video seç, in/out noktalarını ayarla ve kes",
			"Önceki kesimlerin kaydını gör",
			"FFmpeg ve FFprobe durumunu kontrol et",
			"FFmpeg dizini ve varsayılan kesim modu",
			"Uygulamadan çık",
		},
		tools:        tools,
		dependencies: deps,
		browserDir:   browserDir,
		mode:         mode,
		audioIdx:     -1,
		subtitleIdx:  -1,
		histStore:    hist,
		width:        80,
		height:       24,
		showCursor:   true,
	}
	m.inField = timefield.New()
	m.outField = timefield.New()

	// Açılıştaki denetim sonucu; Ayarlar'dan dizin değişince yenilenir
	m.toolsOK = true
	for _, d := range deps {
		if !d.Available {
			m.toolsOK = false
		}
	}
	return m
}

// ========================================
// bubbletea Interface
// ========================================

func (m interactiveModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Spinner animasyonu
		if m.state == stateCutting || (m.state == statePreflight && m.preflightPhase == preflightChecking) {
			m.spinnerTick++
			m.spinnerIdx = m.spinnerTick % len(spinnerFrames)
			// Progress bar pulsing efekti
			if m.spinnerTick%5 == 0 {
				m.showCursor = !m.showCursor
			}
		}
		return m, tickCmd()

	case openProbeDoneMsg:
		return m.handleOpenProbeDone(msg)

	case subtitlesDoneMsg:
		return m.handleSubtitlesDone(msg)

	case preflightDoneMsg:
		return m.handlePreflightDone(msg)

	case cutDoneMsg:
		return m.handleCutDone(msg)

	case fileChangedMsg:
		return m.handleFileChanged()

	case tea.MouseMsg:
		if m.state == stateTrimEditor {
			return m.handleEditorMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		// Trim editörü tuşları kendisi tüketir (maskeli alanlar vs.)
		if m.state == stateTrimEditor {
			return m.handleEditorKey(msg)
		}
		if m.state == statePreflight {
			return m.handlePreflightKey(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m = m.stopWatcher()
			return m, tea.Quit

		case "q":
			if m.state == stateMainMenu {
				m.quitting = true
				m = m.stopWatcher()
				return m, tea.Quit
			}

		case "esc":
			if m.state == stateCutting {
				// Devam eden kesim beklenir, ekrandan çıkılmaz
				return m, nil
			}
			return m.goBack(), nil

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "j":
			maxCursor := m.getMaxCursor()
			if m.cursor < maxCursor {
				m.cursor++
			}
			return m, nil

		case "enter":
			return m.handleEnter()
		}
	}

	return m, nil
}

func (m interactiveModel) getMaxCursor() int {
	switch m.state {
	case stateMainMenu, stateSettings:
		return len(m.choices) - 1
	case stateFileBrowser:
		return len(m.browserItems) - 1
	case stateSettingsBrowser:
		// Son satır "Bu dizini seç" butonu
		return len(m.settingsBrowserItems)
	case statePreflight:
		return len(m.preflightChoices()) - 1
	default:
		return 0
	}
}

// ========================================
// Enter İşleme
// ========================================

func (m interactiveModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMainMenu:
		switch m.cursor {
		case 0: // Video Kes
			m.state = stateFileBrowser
			m.cursor = 0
			m.loadBrowserItems()
			return m, nil
		case 1: // Kesim Geçmişi
			return m.goToHistory(), nil
		case 2: // Sistem Kontrolü
			m.state = stateDependencies
			m.cursor = 0
			return m, nil
		case 3: // Ayarlar
			return m.goToSettings(), nil
		case 4: // Çıkış
			m.quitting = true
			m = m.stopWatcher()
			return m, tea.Quit
		}

	case stateFileBrowser:
		if len(m.browserItems) == 0 {
			return m, nil
		}
		item := m.browserItems[m.cursor]
		if item.isDir {
			m.browserDir = item.path
			m.cursor = 0
			m.loadBrowserItems()
			return m, nil
		}
		return m.openFileForTrim(item.path)

	case stateCutDone:
		return m.goToMainMenu(), nil

	case stateSettings:
		return m.handleSettingsEnter()

	case stateSettingsBrowser:
		return m.handleSettingsBrowserEnter()
	}

	return m, nil
}

// ========================================
// Geri Gitme
// ========================================

func (m interactiveModel) goBack() interactiveModel {
	switch m.state {
	case stateFileBrowser, stateHistory, stateDependencies, stateSettings, stateCutDone:
		return m.goToMainMenu()
	case stateTrimEditor:
		m = m.stopWatcher()
		m.selectedFile = ""
		m.media = nil
		m.state = stateFileBrowser
		m.cursor = 0
		m.loadBrowserItems()
		return m
	case stateSettingsBrowser:
		m.state = stateSettings
		m.cursor = 0
		return m
	}
	return m
}

func (m interactiveModel) goToMainMenu() interactiveModel {
	m = m.stopWatcher()
	m.state = stateMainMenu
	m.cursor = 0
	m.choices = []string{
		"Video Kes",
		"Kesim Geçmişi",
		"Sistem Kontrolü",
		"Ayarlar",
		"Çıkış",
	}
	m.choiceIcons = []string{"✂️ ", "🕘", "🔧", "⚙️ ", "👋"}
	m.choiceDescs = []string{
		"Bir video seç, in/out noktalarını ayarla ve kes",
		"Önceki kesimlerin kaydını gör",
		"FFmpeg ve FFprobe durumunu kontrol et",
		"FFmpeg dizini ve varsayılan kesim modu",
		"Uygulamadan çık",
	}
	m.selectedFile = ""
	m.media = nil
	m.validationErr = ""
	m.resultMsg = ""
	m.resultErr = false
	m.resultWarning = ""
	m.sessionLog = nil
	m.preflight = nil
	m.pendingCut = nil
	return m
}

func (m interactiveModel) goToHistory() interactiveModel {
	m.state = stateHistory
	m.cursor = 0
	m.histEntries = nil
	m.histErr = ""
	if m.histStore == nil {
		m.histErr = "geçmiş veritabanı kullanılamıyor"
		return m
	}
	entries, err := m.histStore.Recent(20)
	if err != nil {
		m.histErr = err.Error()
		return m
	}
	m.histEntries = entries
	return m
}

// ========================================
// Dosya Tarayıcı
// ========================================

func (m *interactiveModel) loadBrowserItems() {
	m.browserItems = nil

	entries, err := os.ReadDir(m.browserDir)
	if err != nil {
		return
	}

	// Üst dizin girişi
	parent := filepath.Dir(m.browserDir)
	if parent != m.browserDir {
		m.browserItems = append(m.browserItems, browserEntry{
			name:  ".. (üst dizin)",
			path:  parent,
			isDir: true,
		})
	}

	var dirs, files []browserEntry
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(m.browserDir, name)
		if entry.IsDir() {
			dirs = append(dirs, browserEntry{name: name, path: full, isDir: true})
			continue
		}
		if isVideoFile(name) {
			files = append(files, browserEntry{name: name, path: full, isDir: false})
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	m.browserItems = append(m.browserItems, dirs...)
	m.browserItems = append(m.browserItems, files...)
}

// ========================================
// View
// ========================================

func (m interactiveModel) View() string {
	if m.quitting {
		return successStyle.Render("\n  Görüşürüz! 👋\n\n")
	}

	switch m.state {
	case stateMainMenu:
		return m.viewMainMenu()
	case stateFileBrowser:
		return m.viewFileBrowser()
	case stateTrimEditor:
		return m.viewTrimEditor()
	case statePreflight:
		return m.viewPreflight()
	case stateCutting:
		return m.viewCutting()
	case stateCutDone:
		return m.viewCutDone()
	case stateHistory:
		return m.viewHistory()
	case stateDependencies:
		return m.viewDependencies()
	case stateSettings:
		return m.viewSettings()
	case stateSettingsBrowser:
		return m.viewSettingsBrowser()
	}

	return ""
}

var clipwaveArt = []string{
	"  ██████╗██╗     ██╗██████╗ ██╗    ██╗ █████╗ ██╗   ██╗███████╗",
	" ██╔════╝██║     ██║██╔══██╗██║    ██║██╔══██╗██║   ██║██╔════╝",
	" ██║     ██║     ██║██████╔╝██║ █╗ ██║███████║██║   ██║█████╗  ",
	" ██║     ██║     ██║██╔═══╝ ██║███╗██║██╔══██║╚██╗ ██╔╝██╔══╝  ",
	" ╚██████╗███████╗██║██║     ╚███╔███╔╝██║  ██║ ╚████╔╝ ███████╗",
	"  ╚═════╝╚══════╝╚═╝╚═╝      ╚══╝╚══╝ ╚═╝  ╚═╝  ╚═══╝  ╚══════╝",
}

func (m interactiveModel) viewMainMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	for i, line := range clipwaveArt {
		color := gradientColors[i%len(gradientColors)]
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("  Kayıpsız ve hassas video kesme aracı"))
	b.WriteString("\n\n")

	b.WriteString(menuTitleStyle.Render(" ◆ Ana Menü "))
	b.WriteString("\n")

	for i, choice := range m.choices {
		icon := ""
		if i < len(m.choiceIcons) {
			icon = m.choiceIcons[i]
		}
		label := menuLine(icon, choice)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + label))
			b.WriteString("\n")
			if i < len(m.choiceDescs) && m.choiceDescs[i] != "" {
				b.WriteString(lipgloss.NewStyle().PaddingLeft(7).Foreground(dimTextColor).Italic(true).Render(m.choiceDescs[i]))
				b.WriteString("\n")
			}
		} else {
			b.WriteString(normalItemStyle.Render("  " + label))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑↓ Gezin  •  Enter Seç  •  q Çıkış"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewFileBrowser() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ◆ Video Seç "))
	b.WriteString("\n\n")

	b.WriteString(pathStyle.Render(fmt.Sprintf("  📁 %s", shortenPath(m.browserDir))))
	b.WriteString("\n\n")

	if len(m.browserItems) == 0 {
		b.WriteString(dimStyle.Render("  (bu dizinde video dosyası yok)"))
		b.WriteString("\n")
	}

	// 15 satırlık pencere, imleç etrafında kaydırılır
	const pageSize = 15
	start := 0
	if m.cursor >= pageSize {
		start = m.cursor - pageSize + 1
	}
	end := start + pageSize
	if end > len(m.browserItems) {
		end = len(m.browserItems)
	}

	for i := start; i < end; i++ {
		item := m.browserItems[i]
		var line string
		if item.isDir {
			line = folderStyle.Render("📁 " + item.name)
		} else {
			line = "🎬 " + item.name
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(normalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	dirCount, fileCount := 0, 0
	for _, item := range m.browserItems {
		if item.isDir {
			dirCount++
		} else {
			fileCount++
		}
	}
	b.WriteString("\n")
	b.WriteString(breadcrumbStyle.Render(fmt.Sprintf("%d dizin, %d video", dirCount, fileCount)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  ↑↓ Gezin  •  Enter Aç/Seç  •  Esc Geri"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewCutting() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ◆ Kesiliyor "))
	b.WriteString("\n\n")

	if m.selectedFile != "" {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  Dosya: %s", filepath.Base(m.selectedFile))))
		b.WriteString("\n")
	}
	if m.pendingCut != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  Aralık: %s → %s  (%s)", m.pendingCut.InText, m.pendingCut.OutText, m.pendingCut.Mode)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	spinner := lipgloss.NewStyle().Foreground(secondaryColor).Bold(true).Render(spinnerFrames[m.spinnerIdx])
	b.WriteString(fmt.Sprintf("  %s ffmpeg çalışıyor...\n\n", spinner))

	// Gerçek ilerleme ffmpeg pipe'ından CLI modunda okunur; burada
	// görsel bir nabız gösterilir.
	barWidth := 40
	progress := (m.spinnerTick * 2) % 100
	if progress > 95 {
		progress = 95
	}
	filled := barWidth * progress / 100
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		if i < filled {
			color := gradientColors[(i*len(gradientColors))/barWidth]
			bar.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
		} else if i == filled && m.showCursor {
			bar.WriteString(lipgloss.NewStyle().Foreground(secondaryColor).Render("▓"))
		} else {
			bar.WriteString(dimStyle.Render("░"))
		}
	}
	b.WriteString("  " + bar.String())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  Kesim tamamlanana kadar bekleyin"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewCutDone() string {
	var b strings.Builder
	b.WriteString("\n")

	var content strings.Builder
	if m.resultErr {
		content.WriteString(errorStyle.Render("❌ Kesim başarısız"))
		content.WriteString("\n\n")
		content.WriteString(fmt.Sprintf("Hata: %s", m.resultMsg))
	} else {
		content.WriteString(successStyle.Render("✅ Kesim tamamlandı"))
		content.WriteString("\n\n")
		content.WriteString(fmt.Sprintf("Çıktı:  %s", shortenPath(m.resultMsg)))
		if m.hasActual {
			content.WriteString(fmt.Sprintf("\nSüre:   %s", ffmpegDurationLabel(m.actualDuration)))
		}
		content.WriteString(fmt.Sprintf("\nGeçen:  %s", formatDuration(m.duration)))
		if m.resultWarning != "" {
			content.WriteString("\n\n")
			content.WriteString(lipgloss.NewStyle().Foreground(warningColor).Render("⚠ " + m.resultWarning))
		}
	}

	b.WriteString(resultBoxStyle.Render(content.String()))
	b.WriteString("\n\n")

	if len(m.sessionLog) > 0 {
		b.WriteString(dimStyle.Render("  ── Oturum ──"))
		b.WriteString("\n")
		for _, line := range m.sessionLog {
			b.WriteString(dimStyle.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("  Enter Ana Menü  •  Esc Geri"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewHistory() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ◆ Kesim Geçmişi "))
	b.WriteString("\n\n")

	if m.histErr != "" {
		b.WriteString(errorStyle.Render("  Hata: " + m.histErr))
		b.WriteString("\n")
	} else if len(m.histEntries) == 0 {
		b.WriteString(dimStyle.Render("  Henüz kayıtlı kesim yok."))
		b.WriteString("\n")
	}

	for _, e := range m.histEntries {
		statusIcon := "✅"
		if e.Status != "ok" {
			statusIcon = "❌"
		}
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %s %s  %s → %s  [%s]",
			statusIcon, e.CreatedAt.Format("2006-01-02 15:04"), e.InTime, e.OutTime, e.Mode)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("     %s", shortenPath(e.InputPath))))
		b.WriteString("\n")
		if e.Status == "ok" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("     → %s", shortenPath(e.OutputPath))))
		} else if e.Message != "" {
			b.WriteString(errorStyle.Render(fmt.Sprintf("     %s", e.Message)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Esc Geri"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewDependencies() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ◆ Sistem Kontrolü "))
	b.WriteString("\n\n")

	for _, dep := range m.dependencies {
		status := errorStyle.Render("✗ bulunamadı")
		detail := ""
		if dep.Available {
			status = successStyle.Render("✓ hazır")
			detail = dimStyle.Render("  " + dep.Version)
		}
		b.WriteString(fmt.Sprintf("  %-12s %s%s\n", dep.Name, status, detail))
		if dep.Available {
			b.WriteString(dimStyle.Render(fmt.Sprintf("               %s", shortenPath(dep.Path))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  FFmpeg dizinini Ayarlar menüsünden değiştirebilirsiniz."))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  Esc Geri"))
	b.WriteString("\n")
	return b.String()
}

// ========================================
// Ayarlar
// ========================================

func (m interactiveModel) goToSettings() interactiveModel {
	m.state = stateSettings
	m.cursor = 0
	m.choices = m.settingsChoices()
	m.choiceIcons = []string{"📁", "💾", "🎯", "↩"}
	m.choiceDescs = []string{
		"ffmpeg/ffprobe ikililerinin bulunduğu dizini seç",
		"Kesimlerin yazılacağı dizin; boşsa girdinin yanına yazılır",
		"Yeni kesimler için başlangıç modu",
		"Ana menüye dön",
	}
	return m
}

func (m interactiveModel) settingsChoices() []string {
	binDir := config.GetFFmpegBinDir()
	if binDir == "" {
		binDir = "(PATH üzerinden)"
	}
	outDir := config.GetDefaultOutputDir()
	if outDir == "" {
		outDir = "(girdinin yanına)"
	}
	return []string{
		fmt.Sprintf("FFmpeg dizini: %s", shortenPath(binDir)),
		fmt.Sprintf("Çıktı dizini: %s", shortenPath(outDir)),
		fmt.Sprintf("Varsayılan mod: %s", m.mode),
		"Geri",
	}
}

func (m interactiveModel) openSettingsBrowser(target int) interactiveModel {
	m.state = stateSettingsBrowser
	m.settingsBrowserTarget = target
	m.cursor = 0
	if m.settingsBrowserDir == "" {
		m.settingsBrowserDir = getHomeDir()
	}
	m.loadSettingsBrowserItems()
	return m
}

func (m interactiveModel) handleSettingsEnter() (tea.Model, tea.Cmd) {
	switch m.cursor {
	case 0: // FFmpeg dizini seç
		return m.openSettingsBrowser(settingsTargetFFmpeg), nil
	case 1: // Çıktı dizini seç
		return m.openSettingsBrowser(settingsTargetOutput), nil
	case 2: // Varsayılan modu değiştir
		if m.mode == ffmpeg.ModeLossless {
			m.mode = ffmpeg.ModeExact
		} else {
			m.mode = ffmpeg.ModeLossless
		}
		if cfg, err := config.LoadConfig(); err == nil {
			cfg.DefaultMode = string(m.mode)
			config.SaveConfig(cfg)
		}
		m.choices = m.settingsChoices()
		return m, nil
	case 3:
		return m.goToMainMenu(), nil
	}
	return m, nil
}

func (m *interactiveModel) loadSettingsBrowserItems() {
	m.settingsBrowserItems = nil

	entries, err := os.ReadDir(m.settingsBrowserDir)
	if err != nil {
		return
	}

	parent := filepath.Dir(m.settingsBrowserDir)
	if parent != m.settingsBrowserDir {
		m.settingsBrowserItems = append(m.settingsBrowserItems, browserEntry{
			name:  ".. (üst dizin)",
			path:  parent,
			isDir: true,
		})
	}

	var dirs []browserEntry
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirs = append(dirs, browserEntry{
			name:  entry.Name(),
			path:  filepath.Join(m.settingsBrowserDir, entry.Name()),
			isDir: true,
		})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	m.settingsBrowserItems = append(m.settingsBrowserItems, dirs...)
}

func (m interactiveModel) handleSettingsBrowserEnter() (tea.Model, tea.Cmd) {
	// Son satır "Bu dizini seç"
	if m.cursor == len(m.settingsBrowserItems) {
		if m.settingsBrowserTarget == settingsTargetOutput {
			config.SetDefaultOutputDir(m.settingsBrowserDir)
			m.validationErr = ""
			return m.goToSettings(), nil
		}
		if err := ffmpeg.ValidateBinDir(m.settingsBrowserDir); err != nil {
			m.validationErr = err.Error()
			return m, nil
		}
		config.SetFFmpegBinDir(m.settingsBrowserDir)
		m.tools = ffmpeg.Resolve(m.settingsBrowserDir)
		m.dependencies = m.tools.Check()
		m.toolsOK = true
		for _, d := range m.dependencies {
			if !d.Available {
				m.toolsOK = false
			}
		}
		m.validationErr = ""
		return m.goToSettings(), nil
	}
	if m.cursor < len(m.settingsBrowserItems) {
		item := m.settingsBrowserItems[m.cursor]
		if item.isDir {
			m.settingsBrowserDir = item.path
			m.cursor = 0
			m.validationErr = ""
			m.loadSettingsBrowserItems()
		}
	}
	return m, nil
}

func (m interactiveModel) viewSettings() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ◆ Ayarlar "))
	b.WriteString("\n\n")

	for i, choice := range m.choices {
		icon := ""
		if i < len(m.choiceIcons) {
			icon = m.choiceIcons[i]
		}
		label := menuLine(icon, choice)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + label))
			b.WriteString("\n")
			if i < len(m.choiceDescs) && m.choiceDescs[i] != "" {
				b.WriteString(lipgloss.NewStyle().PaddingLeft(7).Foreground(dimTextColor).Italic(true).Render(m.choiceDescs[i]))
				b.WriteString("\n")
			}
		} else {
			b.WriteString(normalItemStyle.Render("  " + label))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑↓ Gezin  •  Enter Seç  •  Esc Geri"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewSettingsBrowser() string {
	var b strings.Builder
	b.WriteString("\n")
	title := " ◆ FFmpeg Dizini Seç "
	if m.settingsBrowserTarget == settingsTargetOutput {
		title = " ◆ Çıktı Dizini Seç "
	}
	b.WriteString(menuTitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(pathStyle.Render(fmt.Sprintf("  📁 %s", shortenPath(m.settingsBrowserDir))))
	b.WriteString("\n\n")

	for i, item := range m.settingsBrowserItems {
		line := folderStyle.Render("📁 " + item.name)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(normalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	selectLabel := "✔ Bu dizini seç"
	if m.cursor == len(m.settingsBrowserItems) {
		b.WriteString(selectedItemStyle.Render("▸ " + selectLabel))
	} else {
		b.WriteString(normalItemStyle.Render("  " + selectLabel))
	}
	b.WriteString("\n")

	if m.validationErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  Hata: " + m.validationErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑↓ Gezin  •  Enter Aç/Seç  •  Esc Geri"))
	b.WriteString("\n")
	return b.String()
}

// ========================================
// Yardımcılar
// ========================================

func (m interactiveModel) stopWatcher() interactiveModel {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	return m
}

func menuLine(icon, label string) string {
	if icon == "" {
		return label
	}
	return fmt.Sprintf("%s %s", icon, label)
}

func getHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	return "."
}

func shortenPath(path string) string {
	home := getHomeDir()
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

func gradientText(text string) string {
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		color := gradientColors[(i*len(gradientColors))/maxInt(len(runes), 1)]
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(r)))
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func ffmpegDurationLabel(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1f sn", seconds)
	}
	mins := int(seconds) / 60
	secs := seconds - float64(mins*60)
	return fmt.Sprintf("%d dk %.0f sn", mins, secs)
}

// ========================================
// Başlatma
// ========================================

// RunInteractive TUI'yi başlatır
func RunInteractive() error {
	tools := ffmpeg.Resolve(config.GetFFmpegBinDir())
	deps := tools.Check()

	var hist *history.Store
	if dbPath, err := config.HistoryDBPath(); err == nil {
		if store, err := history.Open(dbPath); err == nil {
			hist = store
			defer store.Close()
		}
	}

	m := newInteractiveModel(tools, deps, hist)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
