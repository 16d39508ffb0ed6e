package cmd

import (
	"fmt"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
)

func testEditorModel() interactiveModel {
	m := newInteractiveModel(ffmpeg.Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe"}, nil, nil)
	m.state = stateTrimEditor
	m.selectedFile = "/tmp/film.mp4"
	m.mode = ffmpeg.ModeLossless
	m.media = &ffmpeg.MediaInfo{
		InputPath:       "/tmp/film.mp4",
		DurationSeconds: 120,
		HasDuration:     true,
		Audio:           []ffmpeg.AudioStream{{Order: 0, Index: 1, Codec: "aac", Channels: 2, Language: "und"}},
	}
	m.audioIdx = 0
	m.inField.Focus()
	return m
}

func pressKey(t *testing.T, m interactiveModel, msg tea.KeyMsg) (interactiveModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(interactiveModel)
	if !ok {
		t.Fatalf("Update returned unexpected model type %T", next)
	}
	return model, cmd
}

func enterKey() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func escKey() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }
func downKey() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyDown} }

func TestDeferredSubtitleLoadMergesIntoMedia(t *testing.T) {
	m := testEditorModel()

	next, _ := m.Update(subtitlesDoneMsg{
		seq:  m.openSeq,
		subs: []ffmpeg.SubtitleStream{{Order: 0, Index: 2, Codec: "subrip", Language: "tur"}},
	})
	m = next.(interactiveModel)
	if !m.subsLoaded || len(m.media.Subtitles) != 1 {
		t.Fatalf("subtitle probe result not merged: loaded=%v n=%d", m.subsLoaded, len(m.media.Subtitles))
	}

	// Eski oturumun sonucu yok sayılır
	m2 := testEditorModel()
	next, _ = m2.Update(subtitlesDoneMsg{
		seq:  m2.openSeq - 1,
		subs: []ffmpeg.SubtitleStream{{Order: 0, Index: 2, Codec: "subrip", Language: "tur"}},
	})
	m2 = next.(interactiveModel)
	if m2.subsLoaded || len(m2.media.Subtitles) != 0 {
		t.Fatalf("stale subtitle result must be discarded")
	}
}

func TestCutRejectedWhenOutNotAfterIn(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000005")
	m.editorFocus = focusMode // alan tuşu yutmasın

	m, cmd := pressKey(t, m, enterKey())
	if cmd != nil {
		t.Fatalf("expected no command for invalid range")
	}
	if m.state != stateTrimEditor {
		t.Fatalf("expected to stay in editor, got state %d", m.state)
	}
	if m.validationErr == "" {
		t.Fatalf("expected validation error")
	}
	if m.busy {
		t.Fatalf("cut must not start for invalid range")
	}
}

func TestCutBlockedWhileBusy(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000005")
	m.outField.SetValue("000030")
	m.busy = true

	m, cmd := pressKey(t, m, enterKey())
	if cmd != nil {
		t.Fatalf("expected no command while a cut is running")
	}
	if m.state != stateTrimEditor {
		t.Fatalf("expected to stay in editor, got state %d", m.state)
	}
}

func TestLosslessCutRunsPreflightFirst(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")

	m, cmd := pressKey(t, m, enterKey())
	if cmd == nil {
		t.Fatalf("expected preflight command")
	}
	if m.state != statePreflight || m.preflightPhase != preflightChecking {
		t.Fatalf("expected checking phase, got state=%d phase=%d", m.state, m.preflightPhase)
	}
	if m.pendingCut == nil || m.pendingCut.InSeconds != 10 {
		t.Fatalf("pending request not captured: %+v", m.pendingCut)
	}
}

func TestAlignedPreflightStartsCutWithoutModal(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())

	next, cmd := m.Update(preflightDoneMsg{
		seq:    m.preflightSeq,
		result: &ffmpeg.PreflightResult{InTimeSeconds: 10, NearestKeyframe: floatPtr(10)},
	})
	m = next.(interactiveModel)

	if m.state != stateCutting {
		t.Fatalf("aligned result must start the cut, got state %d", m.state)
	}
	if !m.busy {
		t.Fatalf("busy flag must be set while cutting")
	}
	if cmd == nil {
		t.Fatalf("expected cut command")
	}
}

func TestMisalignedContinueAnywayCutsWithOriginalInPoint(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())

	next, _ := m.Update(preflightDoneMsg{
		seq: m.preflightSeq,
		result: &ffmpeg.PreflightResult{
			InTimeSeconds:   10,
			NearestKeyframe: floatPtr(9.5),
			NextKeyframe:    floatPtr(12),
			StartShift:      floatPtr(0.5),
		},
	})
	m = next.(interactiveModel)
	if m.state != statePreflight || m.preflightPhase != preflightMisaligned {
		t.Fatalf("expected misaligned modal, got state=%d phase=%d", m.state, m.preflightPhase)
	}

	// seçenekler: keyframe kullan / hassas / yine de devam / vazgeç
	m, _ = pressKey(t, m, downKey())
	m, _ = pressKey(t, m, downKey())
	m, cmd := pressKey(t, m, enterKey())

	if m.state != stateCutting {
		t.Fatalf("continue-anyway must start the cut, got state %d", m.state)
	}
	if cmd == nil {
		t.Fatalf("expected cut command")
	}
	if m.pendingCut == nil || m.pendingCut.InSeconds != 10 {
		t.Fatalf("continue-anyway must keep the original in point, got %+v", m.pendingCut)
	}
	if m.pendingCut.Mode != ffmpeg.ModeLossless {
		t.Fatalf("continue-anyway must stay lossless, got %s", m.pendingCut.Mode)
	}
	if m.bypassKey != nil {
		t.Fatalf("bypass decision is one-shot and must be consumed")
	}
}

func TestStalePreflightResultIsDiscardedAfterCancel(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())
	staleSeq := m.preflightSeq

	// Kullanıcı beklemeden vazgeçti
	m, _ = pressKey(t, m, escKey())
	if m.state != stateTrimEditor {
		t.Fatalf("cancel must return to editor, got state %d", m.state)
	}

	// Yolda kalan eski sonuç artık işlenmemeli
	next, cmd := m.Update(preflightDoneMsg{
		seq: staleSeq,
		result: &ffmpeg.PreflightResult{
			InTimeSeconds:   10,
			NearestKeyframe: floatPtr(9.5),
			StartShift:      floatPtr(0.5),
		},
	})
	m = next.(interactiveModel)

	if m.state != stateTrimEditor {
		t.Fatalf("stale preflight result must be ignored, got state %d", m.state)
	}
	if m.busy || cmd != nil {
		t.Fatalf("stale result must not start anything")
	}
}

func TestUseKeyframeSetsMillisecondInPoint(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000013")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())

	next, _ := m.Update(preflightDoneMsg{
		seq: m.preflightSeq,
		result: &ffmpeg.PreflightResult{
			InTimeSeconds:   13,
			NearestKeyframe: floatPtr(12.0),
			NextKeyframe:    floatPtr(14.345),
			StartShift:      floatPtr(1.0),
		},
	})
	m = next.(interactiveModel)
	if m.preflightPhase != preflightMisaligned {
		t.Fatalf("expected misaligned modal")
	}

	// İlk seçenek in noktasını SONRAKİ keyframe'e (ileri) taşır:
	// modal hizalı onaya geçer, kesim kendiliğinden başlamaz.
	m, cmd := pressKey(t, m, enterKey())
	if m.state != statePreflight || m.preflightPhase != preflightAligned {
		t.Fatalf("use-keyframe must show the aligned confirmation, got state %d phase %d", m.state, m.preflightPhase)
	}
	if cmd != nil || m.busy {
		t.Fatalf("use-keyframe must not auto-start a cut")
	}
	if m.inOverrideText != "00:00:14.345" {
		t.Fatalf("expected the next keyframe time, got %q", m.inOverrideText)
	}
	if math.Abs(m.currentInSeconds()-14.345) > 1e-9 {
		t.Fatalf("in point seconds mismatch: %f", m.currentInSeconds())
	}
	if m.inField.Value() != "000014" {
		t.Fatalf("mask must show whole seconds, got %q", m.inField.Value())
	}
	if m.bypassKey == nil || m.bypassKey.inText != "00:00:14.345" {
		t.Fatalf("bypass key must be recorded for the shifted in point, got %+v", m.bypassKey)
	}

	req, err := m.buildCutExecution()
	if err != nil {
		t.Fatalf("buildCutExecution failed: %v", err)
	}
	if req.InText != "00:00:14.345" {
		t.Fatalf("cut request must carry millisecond text, got %q", req.InText)
	}

	// Kes seçilir; atlama anahtarı eşleşir, ikinci ön kontrol yapılmaz
	m, cmd = pressKey(t, m, enterKey())
	if m.state != stateCutting || !m.busy || cmd == nil {
		t.Fatalf("cut from the aligned confirmation must start immediately")
	}
	if m.bypassKey != nil {
		t.Fatalf("bypass key must be consumed on use")
	}
}

func TestUseKeyframeHiddenWithoutNextKeyframe(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())

	next, _ := m.Update(preflightDoneMsg{
		seq: m.preflightSeq,
		result: &ffmpeg.PreflightResult{
			InTimeSeconds:   10,
			NearestKeyframe: floatPtr(9.5),
			StartShift:      floatPtr(0.5),
		},
	})
	m = next.(interactiveModel)

	choices := m.preflightChoices()
	for _, c := range choices {
		if strings.HasPrefix(c, "Sonraki keyframe'i kullan") {
			t.Fatalf("use-keyframe must be offered only when a next keyframe exists")
		}
	}
	if choices[0] != "Hassas moda geç" {
		t.Fatalf("unexpected first choice %q", choices[0])
	}
}

func TestSwitchToExactReturnsToEditorWithoutCut(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())

	next, _ := m.Update(preflightDoneMsg{
		seq: m.preflightSeq,
		result: &ffmpeg.PreflightResult{
			InTimeSeconds:   10,
			NearestKeyframe: floatPtr(9.5),
			NextKeyframe:    floatPtr(12),
			StartShift:      floatPtr(0.5),
		},
	})
	m = next.(interactiveModel)
	if m.preflightPhase != preflightMisaligned {
		t.Fatalf("expected misaligned modal")
	}

	// İkinci seçenek: hassas moda geç
	m, _ = pressKey(t, m, downKey())
	m, cmd := pressKey(t, m, enterKey())

	if m.mode != ffmpeg.ModeExact {
		t.Fatalf("mode must switch to exact, got %s", m.mode)
	}
	if m.state != stateTrimEditor {
		t.Fatalf("switch-to-exact must return to the editor, got state %d", m.state)
	}
	if cmd != nil || m.busy {
		t.Fatalf("switch-to-exact must not trigger a cut")
	}
}

func TestFailedPreflightOffersContinueAnyway(t *testing.T) {
	m := testEditorModel()
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")
	m, _ = pressKey(t, m, enterKey())

	next, _ := m.Update(preflightDoneMsg{
		seq: m.preflightSeq,
		err: fmt.Errorf("ffprobe hatası"),
	})
	m = next.(interactiveModel)
	if m.preflightPhase != preflightFailed {
		t.Fatalf("expected failed phase")
	}

	// Tekrar dene / hassas / yine de devam / vazgeç
	m, _ = pressKey(t, m, downKey())
	m, _ = pressKey(t, m, downKey())
	m, cmd := pressKey(t, m, enterKey())

	if m.state != stateCutting || !m.busy || cmd == nil {
		t.Fatalf("continue-anyway from failed preflight must start the cut")
	}
	if m.pendingCut == nil || m.pendingCut.Mode != ffmpeg.ModeLossless {
		t.Fatalf("continue-anyway must stay lossless, got %+v", m.pendingCut)
	}
	if m.bypassKey != nil {
		t.Fatalf("bypass decision is one-shot and must be consumed")
	}
}

func TestOpenSeedsTenSecondOutPoint(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m := testEditorModel()
	next, _ := m.openFileForTrim("/tmp/yeni.mp4")
	m = next.(interactiveModel)

	if m.outField.Value() != "000010" {
		t.Fatalf("out must default to 10s before the duration is known, got %q", m.outField.Value())
	}

	// Süre öğrenilemezse varsayılan korunur
	next, _ = m.Update(openProbeDoneMsg{
		seq:  m.openSeq,
		info: &ffmpeg.MediaInfo{InputPath: "/tmp/yeni.mp4"},
	})
	m = next.(interactiveModel)
	if m.outField.Value() != "000010" {
		t.Fatalf("out default must survive an unknown duration, got %q", m.outField.Value())
	}
}

func TestFieldEditClearsMillisecondOverride(t *testing.T) {
	m := testEditorModel()
	m = m.setInPointMillis(12.345)
	if m.inOverrideText == "" {
		t.Fatalf("override not set")
	}

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	if m.inOverrideText != "" {
		t.Fatalf("manual edit must clear the millisecond override")
	}
}

func TestExactModeSkipsPreflight(t *testing.T) {
	m := testEditorModel()
	m.mode = ffmpeg.ModeExact
	m.inField.SetValue("000010")
	m.outField.SetValue("000100")

	m, cmd := pressKey(t, m, enterKey())
	if m.state != stateCutting {
		t.Fatalf("exact mode must cut directly, got state %d", m.state)
	}
	if cmd == nil {
		t.Fatalf("expected cut command")
	}
}

func TestMouseClickFocusesOutField(t *testing.T) {
	m := testEditorModel()
	if m.editorFocus != focusInField {
		t.Fatalf("editor must start on the in field")
	}

	next, _ := m.Update(tea.MouseMsg{
		X:      editorFieldCol + 4,
		Y:      editorOutFieldRow,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(interactiveModel)

	if m.editorFocus != focusOutField {
		t.Fatalf("click on the out row must move focus, got %d", m.editorFocus)
	}
	if !m.outField.Focused() || m.inField.Focused() {
		t.Fatalf("field focus flags out of sync")
	}
}

func TestCutDoneReturnsToResultScreen(t *testing.T) {
	m := testEditorModel()
	m.busy = true
	m.state = stateCutting
	req := ffmpeg.CutRequest{InputPath: "/tmp/film.mp4", InText: "00:00:10", OutText: "00:01:00", Mode: ffmpeg.ModeLossless}
	m.pendingCut = &req

	next, _ := m.Update(cutDoneMsg{result: ffmpeg.CutResult{OutputPath: "/tmp/film_clip.mp4"}})
	m = next.(interactiveModel)

	if m.state != stateCutDone {
		t.Fatalf("expected result screen, got state %d", m.state)
	}
	if m.busy {
		t.Fatalf("busy flag must clear when the cut finishes")
	}
	if m.resultErr || m.resultMsg != "/tmp/film_clip.mp4" {
		t.Fatalf("unexpected result: err=%v msg=%q", m.resultErr, m.resultMsg)
	}
}

func floatPtr(v float64) *float64 { return &v }
