// monitor.go
package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor watches the directory holding the survey spreadsheet and
// fires a handler whenever the file is rewritten.
type FileMonitor struct {
	watchFile string
	watcher   *fsnotify.Watcher
	lastMod   time.Time
	mu        sync.Mutex
}

func NewFileMonitor(watchFile string) (*FileMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(watchFile)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &FileMonitor{
		watchFile: watchFile,
		watcher:   watcher,
	}, nil
}

func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}

// Watch blocks, invoking handler with the file path on each rewrite.
func (m *FileMonitor) Watch(handler func(string)) error {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.watchFile) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			m.mu.Lock()
			if info.ModTime().After(m.lastMod) {
				m.lastMod = info.ModTime()
				go handler(event.Name)
			}
			m.mu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
