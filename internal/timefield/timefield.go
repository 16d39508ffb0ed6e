// Package timefield, terminalde SS:DD:ss maskesiyle çalışan segmentli
// zaman giriş alanını sağlar. Alan her zaman tam 6 rakam gösterir;
// seçim, 8 karakterlik görünüm üzerinde bir [start, end) aralığıdır.
package timefield

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipwave/clipwave-cli/internal/timecode"
)

var (
	frameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Field sıfır değeriyle kullanılabilir; New makul varsayılanları kurar.
type Field struct {
	digits   [6]byte
	selStart int // görünüm üzerinde, [0,8)
	selEnd   int
	focused  bool
	disabled bool

	// MaxSeconds sadece ok tuşu artırma/azaltmasını kırpar; elle
	// yazılan rakamları reddetmez. 0 sınırsız demektir.
	MaxSeconds float64
}

func New() Field {
	f := Field{}
	f.SetValue("000000")
	f.selectGroupOfIndex(4)
	return f
}

// Value kanonik 6 haneli gövdeyi döner.
func (f *Field) Value() string {
	return string(f.digits[:])
}

// Seconds mevcut değeri toplam saniye olarak döner.
func (f *Field) Seconds() float64 {
	return timecode.MaskSeconds(f.Value())
}

// SetValue ham metni normalize edip alana yazar; seçime dokunmaz.
func (f *Field) SetValue(raw string) {
	norm := timecode.NormalizeMask(raw)
	copy(f.digits[:], norm)
}

// Focus alanı etkinleştirir ve varsayılan olarak saniye grubunu seçer.
func (f *Field) Focus() {
	f.focused = true
	f.selectGroupOfIndex(4)
}

func (f *Field) Blur()         { f.focused = false }
func (f *Field) Focused() bool { return f.focused }

func (f *Field) SetDisabled(v bool) { f.disabled = v }
func (f *Field) Disabled() bool     { return f.disabled }

// SelectGroup 0 (saat), 1 (dakika) ya da 2 (saniye) grubunu seçer.
func (f *Field) SelectGroup(group int) {
	if group < 0 {
		group = 0
	}
	if group > 2 {
		group = 2
	}
	f.selectGroupOfIndex(group * 2)
}

func (f *Field) selectGroupOfIndex(idx int) {
	f.selStart, f.selEnd = timecode.GroupSpan(idx)
}

func (f *Field) selectDigit(idx int) {
	caret := timecode.CaretFromIndex(idx)
	f.selStart, f.selEnd = caret, caret+1
}

func (f *Field) currentIndex() int {
	return timecode.IndexFromCaret(f.selStart)
}

// groupFullySelected, seçimin mevcut grubun iki karakterlik alanını
// birebir kapladığını söyler.
func (f *Field) groupFullySelected() bool {
	lo, hi := timecode.GroupSpan(f.currentIndex())
	return f.selStart == lo && f.selEnd == hi
}

// secondDigitSelected, seçimin grubun yalnızca ikinci rakamı olduğunu söyler.
func (f *Field) secondDigitSelected() bool {
	idx := f.currentIndex()
	if idx%2 == 0 {
		return false
	}
	caret := timecode.CaretFromIndex(idx)
	return f.selStart == caret && f.selEnd == caret+1
}

// ClickAt görünümdeki ham karakter konumuna tıklamayı işler. İki
// nokta karakterlerinin üstü (2 ve 5) solundaki grubun ikinci
// rakamına yapışır.
func (f *Field) ClickAt(pos int) {
	var idx int
	switch pos {
	case 2:
		idx = 1
	case 5:
		idx = 3
	default:
		idx = timecode.IndexFromCaret(pos)
	}
	f.selectGroupOfIndex(idx)
}

// TypeDigit tek bir rakam girişini işler ve değer değiştiyse true döner.
func (f *Field) TypeDigit(d byte) bool {
	if d < '0' || d > '9' || f.disabled {
		return false
	}
	idx := f.currentIndex()
	before := f.digits

	switch {
	case f.groupFullySelected():
		lo, _ := timecode.GroupSpan(idx)
		first := timecode.IndexFromCaret(lo)
		f.digits[first] = d
		f.selectDigit(first + 1)
	case f.secondDigitSelected():
		f.digits[idx] = d
		next := idx + 1
		if next > 5 {
			next = 5
		}
		f.selectGroupOfIndex(next)
	default:
		f.digits[idx] = d
		next := idx + 1
		if next > 5 {
			next = 5
		}
		f.selectGroupOfIndex(next)
	}
	return f.digits != before
}

// shift ok tuşlarıyla grup bazlı artırma/azaltmayı uygular; taşmalar
// toplam saniye üzerinden yeniden hesaplanır.
func (f *Field) shift(delta float64) bool {
	before := f.digits
	group := timecode.GroupOfIndex(f.currentIndex())
	var step float64
	switch group {
	case 0:
		step = 3600
	case 1:
		step = 60
	default:
		step = 1
	}
	total := f.Seconds() + delta*step
	f.SetValue(timecode.MaskFromSeconds(total, f.MaxSeconds))
	f.SelectGroup(group)
	return f.digits != before
}

func (f *Field) moveIndex(delta int) {
	idx := f.currentIndex() + delta
	if idx < 0 {
		idx = 0
	}
	if idx > 5 {
		idx = 5
	}
	f.selectGroupOfIndex(idx)
}

// jumpNextGroup ':' ya da boşlukla bir sonraki gruba atlar, rakamlar değişmez.
func (f *Field) jumpNextGroup() {
	idx := f.currentIndex()
	switch {
	case idx <= 1:
		f.selectGroupOfIndex(2)
	case idx <= 3:
		f.selectGroupOfIndex(4)
	default:
		f.selectGroupOfIndex(5)
	}
}

// Paste yapıştırılan metinden en çok 6 rakam çıkarır, mevcut grubun
// başından itibaren sırayla yazar (5'te kırpılır) ve son yazılan
// indeksin sonrasındaki grubu seçer.
func (f *Field) Paste(text string) bool {
	if f.disabled {
		return false
	}
	var ds []byte
	for i := 0; i < len(text) && len(ds) < 6; i++ {
		if text[i] >= '0' && text[i] <= '9' {
			ds = append(ds, text[i])
		}
	}
	if len(ds) == 0 {
		return false
	}
	before := f.digits
	lo, _ := timecode.GroupSpan(f.currentIndex())
	idx := timecode.IndexFromCaret(lo)
	last := idx
	for _, d := range ds {
		f.digits[idx] = d
		last = idx
		if idx < 5 {
			idx++
		}
	}
	next := last + 1
	if next > 5 {
		next = 5
	}
	f.selectGroupOfIndex(next)
	return f.digits != before
}

// HandleKey bir tuş olayını işler. consumed alanın tuşu yuttuğunu,
// changed değerin değiştiğini bildirir. Esc/Enter/Tab alana ait
// değildir ve üst bileşene bırakılır.
func (f *Field) HandleKey(msg tea.KeyMsg) (consumed, changed bool) {
	if f.disabled || !f.focused {
		return false, false
	}
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter, tea.KeyTab, tea.KeyShiftTab:
		return false, false
	case tea.KeyLeft:
		f.moveIndex(-1)
		return true, false
	case tea.KeyRight:
		f.moveIndex(1)
		return true, false
	case tea.KeyUp:
		return true, f.shift(1)
	case tea.KeyDown:
		return true, f.shift(-1)
	case tea.KeyBackspace:
		return true, f.backspace()
	case tea.KeyDelete:
		return true, f.deleteAtCaret()
	case tea.KeySpace:
		f.jumpNextGroup()
		return true, false
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, false
		}
		ch := false
		for _, r := range msg.Runes {
			switch {
			case r >= '0' && r <= '9':
				if f.TypeDigit(byte(r)) {
					ch = true
				}
			case r == ':':
				f.jumpNextGroup()
			}
		}
		return true, ch
	}
	// kopyala/yapıştır gibi ctrl kombinasyonları üst bileşene kalır
	return false, false
}

func (f *Field) backspace() bool {
	before := f.digits
	if f.selEnd-f.selStart >= 2 {
		// grup seçiliyken grubun ilk rakamı sıfırlanır, seçim yerinde kalır
		lo, _ := timecode.GroupSpan(f.currentIndex())
		f.digits[timecode.IndexFromCaret(lo)] = '0'
	} else {
		idx := f.currentIndex() - 1
		if idx < 0 {
			idx = 0
		}
		f.digits[idx] = '0'
		f.selectGroupOfIndex(idx)
	}
	return f.digits != before
}

func (f *Field) deleteAtCaret() bool {
	before := f.digits
	f.digits[f.currentIndex()] = '0'
	return f.digits != before
}

// View alanı "SS:DD:ss" olarak çizer; odaktayken seçili aralık vurgulanır.
func (f *Field) View() string {
	display := timecode.Display(f.Value())
	if f.disabled {
		return disabledStyle.Render(display)
	}
	if !f.focused {
		return frameStyle.Render(display)
	}
	lo, hi := f.selStart, f.selEnd
	if lo < 0 {
		lo = 0
	}
	if hi > len(display) {
		hi = len(display)
	}
	return focusStyle.Render(display[:lo]) +
		selectedStyle.Render(display[lo:hi]) +
		focusStyle.Render(display[hi:])
}
