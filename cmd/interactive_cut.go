package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clipwave/clipwave-cli/internal/config"
	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
	"github.com/clipwave/clipwave-cli/internal/history"
)

// ========================================
// Kesim Orkestrasyonu
// ========================================

// buildCutExecution editör durumundan ffmpeg isteğini üretir; dosya
// sistemi veya harici araç çağrısı yapmaz.
func (m interactiveModel) buildCutExecution() (ffmpeg.CutRequest, error) {
	req := ffmpeg.CutRequest{}

	if m.selectedFile == "" {
		return req, fmt.Errorf("kesim için video seçilmedi")
	}

	inSec := m.currentInSeconds()
	outSec := m.currentOutSeconds()
	if outSec <= inSec {
		return req, fmt.Errorf("çıkış noktası giriş noktasından büyük olmalı")
	}
	if m.media != nil && m.media.HasDuration && inSec >= m.media.DurationSeconds {
		return req, fmt.Errorf("giriş noktası video süresinin dışında")
	}

	audioOrder := -1
	if m.media != nil && m.audioIdx >= 0 && m.audioIdx < len(m.media.Audio) {
		audioOrder = m.media.Audio[m.audioIdx].Order
	}

	subtitleIndex := -1
	if m.mode == ffmpeg.ModeExact && m.media != nil && m.subtitleIdx >= 0 && m.subtitleIdx < len(m.media.Subtitles) {
		subtitleIndex = m.media.Subtitles[m.subtitleIdx].Index
	}

	req = ffmpeg.CutRequest{
		InputPath:     m.selectedFile,
		InText:        m.currentInText(),
		OutText:       m.currentOutText(),
		InSeconds:     inSec,
		OutSeconds:    outSec,
		Mode:          m.mode,
		AudioOrder:    audioOrder,
		SubtitleIndex: subtitleIndex,
	}
	return req, nil
}

func (m interactiveModel) currentBypassKey() cutBypassKey {
	return cutBypassKey{
		inputPath: m.selectedFile,
		inText:    m.currentInText(),
		outText:   m.currentOutText(),
		binDir:    config.GetFFmpegBinDir(),
	}
}

// requestCut Enter'a basıldığında çağrılır: doğrulama, ön kontrol
// kapısı ve tek kesim kuralını uygular.
func (m interactiveModel) requestCut() (tea.Model, tea.Cmd) {
	if m.busy {
		m = m.logLine("Devam eden bir kesim var, bekleyin")
		return m, nil
	}

	req, err := m.buildCutExecution()
	if err != nil {
		m.validationErr = err.Error()
		return m, nil
	}
	m.validationErr = ""

	if !m.toolsOK {
		m.validationErr = "ffmpeg/ffprobe bulunamadı; Ayarlar menüsünden dizin seçin"
		return m, nil
	}

	// Hassas mod keyframe hizasına bakmaz
	if req.Mode == ffmpeg.ModeExact {
		return m.startCut(req)
	}

	// "Yine de devam et" kararı aynı parametrelerle tek seferlik geçerlidir
	if m.bypassKey != nil && *m.bypassKey == m.currentBypassKey() {
		m.bypassKey = nil
		return m.startCut(req)
	}

	m.preflightSeq++
	m.pendingCut = &req
	m.state = statePreflight
	m.preflightPhase = preflightChecking
	m.preflightErr = ""
	m.preflight = nil
	m.cursor = 0
	return m, doPreflight(m.tools, req.InputPath, req.InSeconds, req.OutSeconds, m.preflightSeq)
}

// startCut kesimi başlatır; aynı anda tek kesim çalışır.
func (m interactiveModel) startCut(req ffmpeg.CutRequest) (tea.Model, tea.Cmd) {
	if req.OutputDir == "" {
		req.OutputDir = config.GetDefaultOutputDir()
	}
	m.busy = true
	m.pendingCut = &req
	m.state = stateCutting
	m.spinnerTick = 0
	return m, doCut(m.tools, req)
}

func doCut(tools ffmpeg.Tools, req ffmpeg.CutRequest) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		result, err := tools.Cut(req, nil)
		return cutDoneMsg{err: err, result: result, duration: time.Since(started)}
	}
}

func (m interactiveModel) handleCutDone(msg cutDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.state = stateCutDone
	m.cursor = 0
	m.duration = msg.duration
	m.resultWarning = msg.result.DurationWarning
	m.actualDuration = msg.result.ActualDuration
	m.hasActual = msg.result.HasActual

	if msg.err != nil {
		m.resultErr = true
		m.resultMsg = msg.err.Error()
		m = m.logLine("Kesim başarısız: " + msg.err.Error())
	} else {
		m.resultErr = false
		m.resultMsg = msg.result.OutputPath
		m = m.logLine("Kesim tamamlandı: " + msg.result.OutputPath)
	}

	m = m.recordCut(msg)
	return m, nil
}

func (m interactiveModel) recordCut(msg cutDoneMsg) interactiveModel {
	if m.histStore == nil || m.pendingCut == nil {
		return m
	}
	req := m.pendingCut
	entry := history.Entry{
		InputPath:     req.InputPath,
		InTime:        req.InText,
		OutTime:       req.OutText,
		Mode:          string(req.Mode),
		AudioOrder:    req.AudioOrder,
		SubtitleIndex: req.SubtitleIndex,
		OutputPath:    msg.result.OutputPath,
		Status:        "ok",
	}
	if msg.err != nil {
		entry.Status = "error"
		entry.Message = msg.err.Error()
	}
	// Günlük kaydı kesimin sonucunu değiştirmez
	if err := m.histStore.Record(entry); err != nil {
		m = m.logLine("Geçmiş kaydı yazılamadı: " + err.Error())
	}
	return m
}
