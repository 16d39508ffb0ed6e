// Package watch açık girdi dosyasını fsnotify ile izler; dosya diskte
// değiştiğinde editörün sondaj önbelleğini tazelemesi için sinyal üretir.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher tek bir dosyayı izler. Dizin izlenir ve olaylar dosya
// adına göre süzülür; yeniden adlandırma/silme olayları dosyanın
// kendisi izlendiğinde kaçabiliyor.
type FileWatcher struct {
	fs   *fsnotify.Watcher
	path string

	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewFileWatcher verilen dosya için izleyici kurar ve döngüyü başlatır.
func NewFileWatcher(path string) (*FileWatcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("izlenecek yol dosya olmalı: %s", path)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, err
	}

	w := &FileWatcher{
		fs:     fs,
		path:   filepath.Clean(path),
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events bir değişiklik sinyali kanalı döner; kanal birikmez, en çok
// bir bekleyen sinyal tutar.
func (w *FileWatcher) Events() <-chan struct{} {
	return w.events
}

func (w *FileWatcher) Close() error {
	w.once.Do(func() {
		close(w.done)
	})
	return w.fs.Close()
}

func (w *FileWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Rename) || evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Create) {
				w.signal()
			}
		case <-w.fs.Errors:
			// izleme hatası ölümcül değil; editör sondajı elle tazeleyebilir
		}
	}
}

func (w *FileWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
