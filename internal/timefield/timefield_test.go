package timefield

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func digitKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTypingFillsMaskLeftToRight(t *testing.T) {
	f := New()
	f.Focus()
	f.SelectGroup(0)
	for _, r := range "123456" {
		consumed, _ := f.HandleKey(digitKey(r))
		if !consumed {
			t.Fatalf("digit %q should be consumed", r)
		}
	}
	if got := f.Value(); got != "123456" {
		t.Fatalf("after typing 1-6 value = %q, want \"123456\"", got)
	}
}

func TestArrowUpCarriesAcrossGroups(t *testing.T) {
	f := New()
	f.Focus()
	f.SetValue("000059")
	f.SelectGroup(2)
	_, changed := f.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
	if !changed {
		t.Fatalf("arrow up should change the value")
	}
	if got := f.Value(); got != "000100" {
		t.Fatalf("00:00:59 + 1s = %q, want \"000100\"", got)
	}
}

func TestArrowUpClampsToMaxSeconds(t *testing.T) {
	f := New()
	f.Focus()
	f.MaxSeconds = 90
	f.SetValue("000130")
	f.SelectGroup(2)
	if _, changed := f.HandleKey(tea.KeyMsg{Type: tea.KeyUp}); changed {
		t.Fatalf("value at the bound should not change")
	}
	if got := f.Value(); got != "000130" {
		t.Fatalf("value = %q, want \"000130\"", got)
	}
}

func TestArrowDownStopsAtZero(t *testing.T) {
	f := New()
	f.Focus()
	f.SelectGroup(2)
	if _, changed := f.HandleKey(tea.KeyMsg{Type: tea.KeyDown}); changed {
		t.Fatalf("zero value should not go negative")
	}
}

func TestBackspaceWithGroupSelection(t *testing.T) {
	f := New()
	f.Focus()
	f.SetValue("123456")
	f.SelectGroup(1)
	if _, changed := f.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace}); !changed {
		t.Fatalf("backspace should zero the group's first digit")
	}
	if got := f.Value(); got != "120456" {
		t.Fatalf("value = %q, want \"120456\"", got)
	}
}

func TestColonJumpsToNextGroup(t *testing.T) {
	f := New()
	f.Focus()
	f.SelectGroup(0)
	f.HandleKey(digitKey(':'))
	f.HandleKey(digitKey('7'))
	if got := f.Value(); got != "007000" {
		t.Fatalf("after colon jump + 7, value = %q, want \"007000\"", got)
	}
}

func TestClickOnColonSticksToLeftGroup(t *testing.T) {
	f := New()
	f.Focus()
	f.ClickAt(2)
	if f.selStart != 0 || f.selEnd != 2 {
		t.Fatalf("click on first colon should select hours, got [%d,%d)", f.selStart, f.selEnd)
	}
	f.ClickAt(5)
	if f.selStart != 3 || f.selEnd != 5 {
		t.Fatalf("click on second colon should select minutes, got [%d,%d)", f.selStart, f.selEnd)
	}
	f.ClickAt(7)
	if f.selStart != 6 || f.selEnd != 8 {
		t.Fatalf("click on last digit should select seconds, got [%d,%d)", f.selStart, f.selEnd)
	}
}

func TestPasteWritesFromCurrentGroup(t *testing.T) {
	f := New()
	f.Focus()
	f.SelectGroup(0)
	if !f.Paste("ab1:2 34x5") {
		t.Fatalf("paste with digits should report a change")
	}
	if got := f.Value(); got != "123450" {
		t.Fatalf("value = %q, want \"123450\"", got)
	}

	f.SetValue("000000")
	f.SelectGroup(2)
	f.Paste("789")
	// writing past the last index keeps overwriting it
	if got := f.Value(); got != "000079" {
		t.Fatalf("value = %q, want \"000079\"", got)
	}
}

func TestUnknownKeysAreNotConsumed(t *testing.T) {
	f := New()
	f.Focus()
	if consumed, _ := f.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); consumed {
		t.Fatalf("enter should pass through to the parent")
	}
	if consumed, _ := f.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}); consumed {
		t.Fatalf("ctrl+c should pass through to the parent")
	}
	if consumed, _ := f.HandleKey(digitKey('x')); !consumed {
		t.Fatalf("stray letters should be swallowed by the field")
	}
	if got := f.Value(); got != "000000" {
		t.Fatalf("value should be untouched, got %q", got)
	}
}

func TestFocusSelectsSecondsGroup(t *testing.T) {
	f := New()
	f.Focus()
	if f.selStart != 6 || f.selEnd != 8 {
		t.Fatalf("focus default selection = [%d,%d), want [6,8)", f.selStart, f.selEnd)
	}
}
