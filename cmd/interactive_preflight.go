package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
	"github.com/clipwave/clipwave-cli/internal/timecode"
)

// ========================================
// Keyframe Ön Kontrolü
// ========================================

func doPreflight(tools ffmpeg.Tools, input string, inSec, outSec float64, seq int) tea.Cmd {
	return func() tea.Msg {
		result, err := tools.Preflight(input, inSec, outSec)
		if err != nil {
			return preflightDoneMsg{seq: seq, err: err}
		}
		return preflightDoneMsg{seq: seq, result: &result}
	}
}

func (m interactiveModel) handlePreflightDone(msg preflightDoneMsg) (tea.Model, tea.Cmd) {
	// İptal edilmiş ya da yenilenmiş oturumun sonucu yok sayılır
	if msg.seq != m.preflightSeq || m.state != statePreflight {
		return m, nil
	}

	if msg.err != nil {
		m.preflightPhase = preflightFailed
		m.preflightErr = msg.err.Error()
		m.cursor = 0
		return m, nil
	}

	m.preflight = msg.result

	if msg.result.Aligned() {
		// Hizalıysa modal gösterilmez, kesim doğrudan başlar
		if m.pendingCut != nil {
			m = m.logLine("Giriş noktası keyframe hizalı")
			return m.startCut(*m.pendingCut)
		}
		m.state = stateTrimEditor
		return m, nil
	}

	m.preflightPhase = preflightMisaligned
	m.cursor = 0
	return m, nil
}

func (m interactiveModel) preflightChoices() []string {
	switch m.preflightPhase {
	case preflightMisaligned:
		choices := []string{}
		if m.preflight != nil && m.preflight.NextKeyframe != nil {
			choices = append(choices, fmt.Sprintf("Sonraki keyframe'i kullan (%s)",
				timecode.FormatWithMillis(*m.preflight.NextKeyframe)))
		}
		return append(choices,
			"Hassas moda geç",
			"Yine de devam et (başlangıç keyframe'e kayar)",
			"Vazgeç",
		)
	case preflightAligned:
		return []string{
			"Kes",
			"Editöre dön",
		}
	case preflightFailed:
		return []string{
			"Tekrar dene",
			"Hassas moda geç",
			"Yine de devam et (keyframe denetimi yapılamadı)",
			"Vazgeç",
		}
	default:
		return nil
	}
}

func (m interactiveModel) handlePreflightKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m = m.stopWatcher()
		return m, tea.Quit

	case "esc":
		return m.cancelPreflight(), nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.preflightChoices())-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		return m.handlePreflightDecision()
	}
	return m, nil
}

// cancelPreflight oturum sayacını ilerletir; yolda olan sonuç artık
// eski sayıyı taşıdığı için düşer.
func (m interactiveModel) cancelPreflight() interactiveModel {
	m.preflightSeq++
	m.pendingCut = nil
	m.preflight = nil
	m.state = stateTrimEditor
	m = m.logLine("Ön kontrol iptal edildi")
	return m
}

func (m interactiveModel) handlePreflightDecision() (tea.Model, tea.Cmd) {
	if m.preflightPhase == preflightChecking {
		return m, nil
	}

	choices := m.preflightChoices()
	if m.cursor >= len(choices) {
		return m, nil
	}
	choice := choices[m.cursor]

	switch {
	case strings.HasPrefix(choice, "Sonraki keyframe'i kullan"):
		// In noktası sonraki keyframe'e taşınır ve yeni aralık için
		// tek seferlik atlama anahtarı kaydedilir. Kesim otomatik
		// BAŞLAMAZ: modal hizalı onay durumuna geçer, kullanıcı
		// Kes'i kendisi seçer.
		if m.preflight != nil && m.preflight.NextKeyframe != nil {
			m = m.setInPointMillis(*m.preflight.NextKeyframe)
			m = m.logLine("Giriş noktası keyframe'e taşındı: " + m.inOverrideText)
		}
		key := m.currentBypassKey()
		m.bypassKey = &key
		m.preflightSeq++
		m.pendingCut = nil
		m.preflightPhase = preflightAligned
		m.cursor = 0
		return m, nil

	case strings.HasPrefix(choice, "Hassas moda geç"):
		// Yalnızca kip değişir; kesim kullanıcının yeni bir Enter'ına kalır
		m.mode = ffmpeg.ModeExact
		m.preflightSeq++
		m.pendingCut = nil
		m.state = stateTrimEditor
		m = m.logLine("Hassas moda geçildi")
		return m, nil

	case strings.HasPrefix(choice, "Yine de devam et"):
		// Karar tek seferlik: aynı dosya/aralık/araç dizini için bir
		// sonraki kesim çağrısı ön kontrolü atlar ve hemen kullanılır.
		key := m.currentBypassKey()
		m.bypassKey = &key
		m.preflightSeq++
		m.state = stateTrimEditor
		m = m.logLine("Keyframe uyarısı atlandı, kesim başlıyor")
		return m.requestCut()

	case choice == "Kes":
		m.state = stateTrimEditor
		return m.requestCut()

	case choice == "Editöre dön":
		m.state = stateTrimEditor
		return m, nil

	case choice == "Tekrar dene":
		req := m.pendingCut
		if req == nil {
			return m.cancelPreflight(), nil
		}
		m.preflightSeq++
		m.preflightPhase = preflightChecking
		m.preflightErr = ""
		m.cursor = 0
		return m, doPreflight(m.tools, req.InputPath, req.InSeconds, req.OutSeconds, m.preflightSeq)

	case choice == "Vazgeç":
		return m.cancelPreflight(), nil
	}

	return m, nil
}

// ========================================
// View
// ========================================

func (m interactiveModel) viewPreflight() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ◆ Keyframe Kontrolü "))
	b.WriteString("\n\n")

	if m.pendingCut != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  Aralık: %s → %s", m.pendingCut.InText, m.pendingCut.OutText)))
		b.WriteString("\n\n")
	}

	switch m.preflightPhase {
	case preflightChecking:
		spinner := lipgloss.NewStyle().Foreground(secondaryColor).Bold(true).Render(spinnerFrames[m.spinnerIdx])
		b.WriteString(fmt.Sprintf("  %s Keyframe hizası denetleniyor...\n\n", spinner))
		b.WriteString(dimStyle.Render("  Esc Vazgeç"))
		b.WriteString("\n")
		return b.String()

	case preflightFailed:
		b.WriteString(errorStyle.Render("  Keyframe analizi başarısız"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + m.preflightErr))
		b.WriteString("\n\n")

	case preflightAligned:
		b.WriteString(successStyle.Render("  ✔ Giriş noktası keyframe'e hizalandı"))
		b.WriteString("\n\n")
		b.WriteString(infoStyle.Render("  Yeni giriş: " + m.currentInText()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Kayma: 0.000 sn"))
		b.WriteString("\n\n")

	case preflightMisaligned:
		b.WriteString(lipgloss.NewStyle().Foreground(warningColor).Bold(true).Render("  ⚠ Giriş noktası keyframe üzerinde değil"))
		b.WriteString("\n\n")
		if p := m.preflight; p != nil {
			if p.NearestKeyframe != nil {
				b.WriteString(infoStyle.Render(fmt.Sprintf("  Önceki keyframe: %s", timecode.FormatWithMillis(*p.NearestKeyframe))))
				b.WriteString("\n")
			}
			if p.NextKeyframe != nil {
				b.WriteString(infoStyle.Render(fmt.Sprintf("  Sonraki keyframe: %s", timecode.FormatWithMillis(*p.NextKeyframe))))
				b.WriteString("\n")
			}
			if p.StartShift != nil {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  Kayıpsız kesimde başlangıç %.3f sn geriye kayar", *p.StartShift)))
				b.WriteString("\n")
			}
			if p.EndShift != nil {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  Bitiş bir sonraki keyframe'e %.3f sn uzar", *p.EndShift)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	for i, choice := range m.preflightChoices() {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + choice))
		} else {
			b.WriteString(normalItemStyle.Render("  " + choice))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑↓ Gezin  •  Enter Seç  •  Esc Vazgeç"))
	b.WriteString("\n")
	return b.String()
}
