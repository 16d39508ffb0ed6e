package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.mp4")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	w, err := NewFileWatcher(path)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("v2 with more bytes"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatalf("expected a change signal after writing the file")
	}
}

func TestFileWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.mp4")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	w, err := NewFileWatcher(path)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.mp4"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-w.Events():
		t.Fatalf("sibling file changes should not signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcherRejectsDirectories(t *testing.T) {
	if _, err := NewFileWatcher(t.TempDir()); err == nil {
		t.Fatalf("directories should be rejected")
	}
}
