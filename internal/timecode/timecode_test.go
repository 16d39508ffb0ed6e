package timecode

import (
	"math"
	"testing"
)

func TestNormalizeMaskPadsAndStrips(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "000000"},
		{"1", "100000"},
		{"12:34:56", "123456"},
		{"1a2b3c", "123000"},
		{"1234567890", "123456"},
		{"00:00:59", "000059"},
	}
	for _, c := range cases {
		got := NormalizeMask(c.in)
		if got != c.want {
			t.Fatalf("NormalizeMask(%q) = %q, want %q", c.in, got, c.want)
		}
		if again := NormalizeMask(got); again != got {
			t.Fatalf("NormalizeMask not idempotent: %q -> %q", got, again)
		}
	}
}

func TestCaretIndexRoundTrip(t *testing.T) {
	for idx := 0; idx <= 5; idx++ {
		caret := CaretFromIndex(idx)
		back := IndexFromCaret(caret)
		want := idx
		if idx == 5 {
			// field end (caret 7) still addresses the last digit
			want = 5
		}
		if back != want {
			t.Fatalf("IndexFromCaret(CaretFromIndex(%d)) = %d, want %d", idx, back, want)
		}
	}
	if IndexFromCaret(-3) != 0 {
		t.Fatalf("negative caret should clamp to index 0")
	}
	if IndexFromCaret(42) != 5 {
		t.Fatalf("oversized caret should clamp to index 5")
	}
	if IndexFromCaret(2) != 2 {
		t.Fatalf("caret on first colon should land on minutes group")
	}
	if IndexFromCaret(5) != 4 {
		t.Fatalf("caret on second colon should land on seconds group")
	}
}

func TestGroupSpan(t *testing.T) {
	cases := []struct {
		idx, lo, hi int
	}{
		{0, 0, 2}, {1, 0, 2},
		{2, 3, 5}, {3, 3, 5},
		{4, 6, 8}, {5, 6, 8},
	}
	for _, c := range cases {
		lo, hi := GroupSpan(c.idx)
		if lo != c.lo || hi != c.hi {
			t.Fatalf("GroupSpan(%d) = [%d,%d), want [%d,%d)", c.idx, lo, hi, c.lo, c.hi)
		}
	}
}

func TestParseAndFormatWhole(t *testing.T) {
	sec, err := Parse("01:02:03")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sec != 3723 {
		t.Fatalf("Parse(\"01:02:03\") = %v, want 3723", sec)
	}
	if got := FormatWhole(3723); got != "1:02:03" {
		t.Fatalf("FormatWhole(3723) = %q, want \"1:02:03\"", got)
	}
}

func TestParseRejectsBadShapes(t *testing.T) {
	bad := []string{"", "1:2:3", "01:60:00", "00:00:60", "01:02", "1:023:04", "01:02:03.1234", "aa:bb:cc",
		"0:00:01.-12", "0:00:01.+5", "0:00:01.1a"}
	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Fatalf("Parse(%q) should fail", s)
		}
	}
}

func TestParseMillis(t *testing.T) {
	sec, err := Parse("00:00:12.345")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if math.Abs(sec-12.345) > 1e-9 {
		t.Fatalf("Parse millis = %v, want 12.345", sec)
	}
	if got := FormatWithMillis(12.345); got != "00:00:12.345" {
		t.Fatalf("FormatWithMillis(12.345) = %q", got)
	}
	// keyframe timestamps survive a full render/parse cycle
	back, err := Parse(FormatWithMillis(12.345))
	if err != nil || math.Abs(back-12.345) > 1e-9 {
		t.Fatalf("round trip = %v (%v), want 12.345", back, err)
	}
}

func TestFormatWholeRejectsNegative(t *testing.T) {
	if got := FormatWhole(-1); got != "" {
		t.Fatalf("FormatWhole(-1) = %q, want empty", got)
	}
}

func TestMaskSecondsConversions(t *testing.T) {
	if got := MaskSeconds("123456"); got != 12*3600+34*60+56 {
		t.Fatalf("MaskSeconds = %v", got)
	}
	if got := MaskFromSeconds(60, 0); got != "000100" {
		t.Fatalf("MaskFromSeconds(60) = %q, want \"000100\"", got)
	}
	if got := MaskFromSeconds(1e9, 0); got != "995959" {
		t.Fatalf("MaskFromSeconds should clamp to 99:59:59, got %q", got)
	}
	if got := MaskFromSeconds(100, 90); got != "000130" {
		t.Fatalf("MaskFromSeconds should honor maxSeconds, got %q", got)
	}
}
