// Package watch reports writes to a single file.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher signals on Changes whenever the watched file is written,
// created or renamed into place. The parent directory is watched rather
// than the file, so atomic replace-by-rename is seen too.
type FileWatcher struct {
	mu      sync.Mutex
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New starts watching path. The file itself does not need to exist yet.
func New(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	fw := &FileWatcher{
		path:    abs,
		watcher: w,
		changes: make(chan struct{}, 1),
	}
	fw.wg.Add(1)
	go fw.loop()
	return fw, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.path
}

// Retarget switches the watcher to path, moving the directory watch when
// path lives elsewhere. On error the old target stays in place.
func (fw *FileWatcher) Retarget(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if abs == fw.path {
		return nil
	}
	oldDir, newDir := filepath.Dir(fw.path), filepath.Dir(abs)
	if newDir != oldDir {
		if err := fw.watcher.Add(newDir); err != nil {
			return fmt.Errorf("watch %s: %w", newDir, err)
		}
		_ = fw.watcher.Remove(oldDir)
	}
	fw.path = abs
	return nil
}

// Changes delivers one value per burst of events; signals are coalesced
// while nobody is receiving. It is closed after Close.
func (fw *FileWatcher) Changes() <-chan struct{} { return fw.changes }

// Close stops the watcher and waits for the event loop to exit.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}

func (fw *FileWatcher) loop() {
	defer fw.wg.Done()
	defer close(fw.changes)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.Path() {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				select {
				case fw.changes <- struct{}{}:
				default:
				}
			}
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
