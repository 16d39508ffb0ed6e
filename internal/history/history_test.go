package history

import (
	"path/filepath"
	"testing"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	entries := []Entry{
		{InputPath: "/v/a.mp4", InTime: "00:00:01", OutTime: "00:00:05", Mode: "lossless", AudioOrder: 0, SubtitleIndex: -1, OutputPath: "/v/a_clip.mp4", Status: "ok"},
		{InputPath: "/v/b.mkv", InTime: "00:01:00", OutTime: "00:02:00", Mode: "exact", AudioOrder: -1, SubtitleIndex: 2, Status: "error", Message: "ffmpeg hatası"},
	}
	for _, e := range entries {
		if err := store.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(got))
	}
	// en yeni kayıt önce gelir
	if got[0].InputPath != "/v/b.mkv" || got[0].Status != "error" {
		t.Fatalf("newest entry = %+v", got[0])
	}
	if got[1].Mode != "lossless" || got[1].OutputPath != "/v/a_clip.mp4" {
		t.Fatalf("oldest entry = %+v", got[1])
	}
}

func TestRecentDefaultsLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Recent(0); err != nil {
		t.Fatalf("Recent with zero limit failed: %v", err)
	}
}
