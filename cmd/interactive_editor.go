package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clipwave/clipwave-cli/internal/config"
	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
	"github.com/clipwave/clipwave-cli/internal/timecode"
	"github.com/clipwave/clipwave-cli/internal/timefield"
	"github.com/clipwave/clipwave-cli/internal/watch"
)

// Editör ekranındaki zaman alanlarının sabit konumları (fare tıklaması
// eşlemesi için). viewTrimEditor satır düzeniyle birlikte güncellenmeli.
const (
	editorInFieldRow  = 6
	editorOutFieldRow = 7
	editorFieldCol    = 12
	editorLogMax      = 8
)

// ========================================
// Dosya Açma
// ========================================

func (m interactiveModel) openFileForTrim(path string) (tea.Model, tea.Cmd) {
	m = m.stopWatcher()

	m.selectedFile = path
	m.media = nil
	m.audioIdx = -1
	m.subtitleIdx = -1
	m.subsLoaded = false
	m.validationErr = ""
	m.sessionLog = nil
	m.preflight = nil
	m.pendingCut = nil
	m.bypassKey = nil
	m.inOverrideText = ""
	m.inOverrideSeconds = 0

	m.inField = timefield.New()
	m.outField = timefield.New()
	// Süre öğrenilene kadar çıkış noktası 10 sn varsayılır
	m.outField.SetValue("000010")
	m.editorFocus = focusInField
	m.inField.Focus()

	m.state = stateTrimEditor
	m.cursor = 0
	m.openSeq++

	config.SetLastOpenDir(filepath.Dir(path))

	m = m.logLine(fmt.Sprintf("Dosya açıldı: %s", filepath.Base(path)))

	cmds := []tea.Cmd{doOpenProbe(m.tools, path, m.openSeq)}

	// Dosya dışarıdan değişirse bilgiler yenilenir
	if w, err := watch.NewFileWatcher(path); err == nil {
		m.watcher = w
		cmds = append(cmds, listenForFileChange(w.Events()))
	}

	return m, tea.Batch(cmds...)
}

func doOpenProbe(tools ffmpeg.Tools, path string, seq int) tea.Cmd {
	return func() tea.Msg {
		info, err := tools.Probe(path)
		if err != nil {
			return openProbeDoneMsg{seq: seq, err: err}
		}
		return openProbeDoneMsg{seq: seq, info: &info}
	}
}

// doSubtitleProbe altyazıları ayrı ve gecikmeli yükler; mkv
// dosyalarında çok akış olabildiğinden açılış sondajını bekletmez.
func doSubtitleProbe(tools ffmpeg.Tools, path string, seq int) tea.Cmd {
	return func() tea.Msg {
		subs, err := tools.ProbeSubtitles(path)
		return subtitlesDoneMsg{seq: seq, subs: subs, err: err}
	}
}

func listenForFileChange(events <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-events
		return fileChangedMsg{}
	}
}

func (m interactiveModel) handleOpenProbeDone(msg openProbeDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.openSeq || m.state != stateTrimEditor {
		// Eski oturumdan kalan sonuç
		return m, nil
	}
	if msg.err != nil {
		m = m.logLine("Probe hatası: " + msg.err.Error())
		return m, nil
	}

	m.media = msg.info

	if msg.info.HasDuration {
		m.inField.MaxSeconds = msg.info.DurationSeconds
		m.outField.MaxSeconds = msg.info.DurationSeconds
		// Çıkış noktası varsayılan olarak dosya sonu
		m.outField.SetValue(timecode.MaskFromSeconds(math.Floor(msg.info.DurationSeconds), msg.info.DurationSeconds))
		m = m.logLine(fmt.Sprintf("Süre: %s", timecode.FormatWithMillis(msg.info.DurationSeconds)))
	} else {
		m = m.logLine("Süre okunamadı; çıkış noktasını elle girin")
	}

	if len(msg.info.Audio) > 0 {
		m.audioIdx = 0
	}
	m = m.logLine(fmt.Sprintf("%d ses akışı bulundu", len(msg.info.Audio)))
	return m, doSubtitleProbe(m.tools, m.selectedFile, m.openSeq)
}

func (m interactiveModel) handleSubtitlesDone(msg subtitlesDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.openSeq || m.state != stateTrimEditor || m.media == nil {
		return m, nil
	}
	if msg.err != nil {
		m = m.logLine("Altyazılar okunamadı: " + msg.err.Error())
		return m, nil
	}
	m.media.Subtitles = msg.subs
	m.subsLoaded = true
	if m.subtitleIdx >= len(msg.subs) {
		m.subtitleIdx = -1
	}
	if len(msg.subs) > 0 {
		m = m.logLine(fmt.Sprintf("%d altyazı akışı bulundu", len(msg.subs)))
	}
	return m, nil
}

func (m interactiveModel) handleFileChanged() (tea.Model, tea.Cmd) {
	if m.watcher == nil {
		return m, nil
	}
	cmds := []tea.Cmd{listenForFileChange(m.watcher.Events())}

	if m.state == stateTrimEditor && m.selectedFile != "" {
		ffmpeg.InvalidateProbe(m.selectedFile)
		m.openSeq++
		m.subsLoaded = false
		m = m.logLine("Dosya değişti, bilgiler yenileniyor...")
		cmds = append(cmds, doOpenProbe(m.tools, m.selectedFile, m.openSeq))
	}
	return m, tea.Batch(cmds...)
}

// ========================================
// In/Out Değerleri
// ========================================

// currentInSeconds in noktasını döndürür; keyframe'e hizalama sonrası
// milisaniyeli değer mask alanını ezer.
func (m interactiveModel) currentInSeconds() float64 {
	if m.inOverrideText != "" {
		return m.inOverrideSeconds
	}
	return m.inField.Seconds()
}

func (m interactiveModel) currentInText() string {
	if m.inOverrideText != "" {
		return m.inOverrideText
	}
	return timecode.Display(m.inField.Value())
}

func (m interactiveModel) currentOutSeconds() float64 {
	return m.outField.Seconds()
}

func (m interactiveModel) currentOutText() string {
	return timecode.Display(m.outField.Value())
}

// setInPointMillis in noktasını milisaniye hassasiyetiyle ayarlar
// (keyframe'e hizalama kararından gelir).
func (m interactiveModel) setInPointMillis(seconds float64) interactiveModel {
	m.inOverrideSeconds = seconds
	m.inOverrideText = timecode.FormatWithMillis(seconds)
	m.inField.SetValue(timecode.MaskFromSeconds(math.Floor(seconds), m.inField.MaxSeconds))
	return m
}

// ========================================
// Tuş İşleme
// ========================================

func (m interactiveModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Yapıştırma maskeye mevcut grubun başından yazılır
	if msg.Paste && msg.Type == tea.KeyRunes {
		if f := m.focusedField(); f != nil {
			if f.Paste(string(msg.Runes)) {
				m = m.afterFieldEdit()
			}
			return m, nil
		}
	}

	if f := m.focusedField(); f != nil {
		consumed, changed := f.HandleKey(msg)
		if consumed {
			if changed {
				m = m.afterFieldEdit()
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m = m.stopWatcher()
		return m, tea.Quit

	case "esc":
		return m.goBack(), nil

	case "enter":
		return m.requestCut()

	case "tab", "down", "j":
		return m.moveEditorFocus(1), nil

	case "shift+tab", "up", "k":
		return m.moveEditorFocus(-1), nil

	case "left", "h":
		return m.cycleEditorValue(-1), nil

	case "right", "l":
		return m.cycleEditorValue(1), nil
	}

	return m, nil
}

func (m *interactiveModel) focusedField() *timefield.Field {
	switch m.editorFocus {
	case focusInField:
		return &m.inField
	case focusOutField:
		return &m.outField
	}
	return nil
}

func (m interactiveModel) afterFieldEdit() interactiveModel {
	// Elle düzenleme milisaniyeli in noktasını geçersiz kılar
	if m.editorFocus == focusInField && m.inOverrideText != "" {
		m.inOverrideText = ""
		m.inOverrideSeconds = 0
	}
	m.validationErr = ""
	return m
}

func (m interactiveModel) moveEditorFocus(delta int) interactiveModel {
	m.inField.Blur()
	m.outField.Blur()

	m.editorFocus += delta
	if m.editorFocus < 0 {
		m.editorFocus = focusCount - 1
	}
	if m.editorFocus >= focusCount {
		m.editorFocus = 0
	}

	switch m.editorFocus {
	case focusInField:
		m.inField.Focus()
	case focusOutField:
		m.outField.Focus()
	}
	return m
}

// cycleEditorValue odaktaki seçim satırının değerini değiştirir
func (m interactiveModel) cycleEditorValue(delta int) interactiveModel {
	switch m.editorFocus {
	case focusMode:
		if m.mode == ffmpeg.ModeLossless {
			m.mode = ffmpeg.ModeExact
		} else {
			m.mode = ffmpeg.ModeLossless
		}
		m.validationErr = ""

	case focusAudio:
		if m.media == nil || len(m.media.Audio) == 0 {
			return m
		}
		// -1 = ses yok seçeneği de döngüye dahil
		m.audioIdx += delta
		if m.audioIdx >= len(m.media.Audio) {
			m.audioIdx = -1
		}
		if m.audioIdx < -1 {
			m.audioIdx = len(m.media.Audio) - 1
		}

	case focusSubtitle:
		if m.media == nil || len(m.media.Subtitles) == 0 {
			return m
		}
		m.subtitleIdx += delta
		if m.subtitleIdx >= len(m.media.Subtitles) {
			m.subtitleIdx = -1
		}
		if m.subtitleIdx < -1 {
			m.subtitleIdx = len(m.media.Subtitles) - 1
		}
	}
	return m
}

// ========================================
// Fare İşleme
// ========================================

func (m interactiveModel) handleEditorMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	pos := msg.X - editorFieldCol
	if pos < 0 || pos > 7 {
		return m, nil
	}

	switch msg.Y {
	case editorInFieldRow:
		m = m.focusEditorRow(focusInField)
		m.inField.ClickAt(pos)
	case editorOutFieldRow:
		m = m.focusEditorRow(focusOutField)
		m.outField.ClickAt(pos)
	}
	return m, nil
}

func (m interactiveModel) focusEditorRow(focus int) interactiveModel {
	m.inField.Blur()
	m.outField.Blur()
	m.editorFocus = focus
	switch focus {
	case focusInField:
		m.inField.Focus()
	case focusOutField:
		m.outField.Focus()
	}
	return m
}

// ========================================
// Oturum Günlüğü
// ========================================

func (m interactiveModel) logLine(line string) interactiveModel {
	m.sessionLog = append(m.sessionLog, line)
	if len(m.sessionLog) > editorLogMax {
		m.sessionLog = m.sessionLog[len(m.sessionLog)-editorLogMax:]
	}
	return m
}

// ========================================
// View
// ========================================

func padLabel(label string, width int) string {
	n := utf8.RuneCountInString(label)
	if n >= width {
		return label
	}
	return label + strings.Repeat(" ", width-n)
}

func (m interactiveModel) editorMarker(focus int) string {
	if m.editorFocus == focus {
		return selectedItemStyle.Render("▸")
	}
	return " "
}

// viewTrimEditor satır düzeni editorInFieldRow/editorOutFieldRow
// sabitleriyle eşleşmek zorundadır.
func (m interactiveModel) viewTrimEditor() string {
	var b strings.Builder

	// satır 0-2: boşluk, başlık, boşluk
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.MarginBottom(0).Render(" ◆ Kesim Editörü "))
	b.WriteString("\n")
	b.WriteString("\n")

	// satır 3-4: dosya ve süre
	b.WriteString(infoStyle.Render("  Dosya: " + filepath.Base(m.selectedFile)))
	b.WriteString("\n")

	durLine := "  Süre: okunuyor..."
	if m.media != nil {
		if m.media.HasDuration {
			durLine = fmt.Sprintf("  Süre: %s", timecode.FormatWithMillis(m.media.DurationSeconds))
		} else {
			durLine = "  Süre: bilinmiyor"
		}
	}
	b.WriteString(dimStyle.Render(durLine))
	b.WriteString("\n")
	b.WriteString("\n")

	// satır 6: giriş alanı (editorInFieldRow)
	b.WriteString(fmt.Sprintf("  %s %s", m.editorMarker(focusInField), padLabel("Giriş", 8)))
	b.WriteString(m.inField.View())
	if m.inOverrideText != "" {
		b.WriteString(dimStyle.Render("  = " + m.inOverrideText))
	}
	b.WriteString("\n")

	// satır 7: çıkış alanı (editorOutFieldRow)
	b.WriteString(fmt.Sprintf("  %s %s", m.editorMarker(focusOutField), padLabel("Çıkış", 8)))
	b.WriteString(m.outField.View())
	b.WriteString("\n")
	b.WriteString("\n")

	// mod
	modeLabel := "Kayıpsız (keyframe hizalı, yeniden kodlama yok)"
	if m.mode == ffmpeg.ModeExact {
		modeLabel = "Hassas (kareye tam, yeniden kodlar)"
	}
	b.WriteString(fmt.Sprintf("  %s %s%s\n", m.editorMarker(focusMode), padLabel("Mod", 8), infoStyle.Render(modeLabel)))

	// ses akışı
	b.WriteString(fmt.Sprintf("  %s %s%s\n", m.editorMarker(focusAudio), padLabel("Ses", 8), m.audioLabel()))

	// altyazı akışı
	b.WriteString(fmt.Sprintf("  %s %s%s\n", m.editorMarker(focusSubtitle), padLabel("Altyazı", 8), m.subtitleLabel()))
	b.WriteString("\n")

	if m.validationErr != "" {
		b.WriteString(errorStyle.Render("  Hata: " + m.validationErr))
		b.WriteString("\n\n")
	}

	if len(m.sessionLog) > 0 {
		b.WriteString(dimStyle.Render("  ── Oturum ──"))
		b.WriteString("\n")
		for _, line := range m.sessionLog {
			b.WriteString(dimStyle.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("  Tab Odak  •  ↑↓ Değer/Odak  •  ←→ Seçenek  •  Enter Kes  •  Esc Geri"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Zaman alanında: rakam yaz, ↑↓ ayarla, :/boşluk grup atla, tıkla seç"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) audioLabel() string {
	if m.media == nil {
		return dimStyle.Render("(okunuyor...)")
	}
	if len(m.media.Audio) == 0 {
		return dimStyle.Render("(ses akışı yok)")
	}
	if m.audioIdx < 0 || m.audioIdx >= len(m.media.Audio) {
		return dimStyle.Render("Ses yok (-an)")
	}
	a := m.media.Audio[m.audioIdx]
	label := fmt.Sprintf("#%d %s %s (%d kanal)", a.Order+1, a.Language, a.Codec, a.Channels)
	if a.Title != "" {
		label += " - " + a.Title
	}
	return infoStyle.Render(label)
}

func (m interactiveModel) subtitleLabel() string {
	if m.media == nil || !m.subsLoaded {
		return dimStyle.Render("(okunuyor...)")
	}
	if len(m.media.Subtitles) == 0 {
		return dimStyle.Render("(altyazı yok)")
	}
	if m.mode == ffmpeg.ModeLossless {
		return dimStyle.Render("kayıpsız modda altyazı kopyalanmaz")
	}
	if m.subtitleIdx < 0 || m.subtitleIdx >= len(m.media.Subtitles) {
		return dimStyle.Render("Altyazı yok")
	}
	s := m.media.Subtitles[m.subtitleIdx]
	label := fmt.Sprintf("%s %s", s.Language, s.Codec)
	if s.Title != "" {
		label += " - " + s.Title
	}
	return infoStyle.Render(label)
}
