package ffmpeg

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestPreflightAligned(t *testing.T) {
	cases := []struct {
		name   string
		result PreflightResult
		want   bool
	}{
		{"no keyframe info", PreflightResult{}, true},
		{"zero shift", PreflightResult{StartShift: floatPtr(0)}, true},
		{"below epsilon", PreflightResult{StartShift: floatPtr(0.0004)}, true},
		{"above epsilon", PreflightResult{StartShift: floatPtr(0.5)}, false},
	}
	for _, c := range cases {
		if got := c.result.Aligned(); got != c.want {
			t.Fatalf("%s: Aligned() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRoundMillis(t *testing.T) {
	if got := roundMillis(12.34499); got != 12.345 {
		t.Fatalf("roundMillis = %v, want 12.345", got)
	}
	if got := roundMillis(0.0004); got != 0 {
		t.Fatalf("roundMillis = %v, want 0", got)
	}
}
