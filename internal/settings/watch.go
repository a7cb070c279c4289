package settings

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events an editor save produces.
const debounceDelay = 100 * time.Millisecond

// Watch calls onChange after the settings file is written, created or
// replaced. The parent directory is watched so atomic renames are seen.
// onChange runs on the watcher goroutine. Watch may be called once.
func (s *Store) Watch(onChange func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.watcher != nil {
		return fmt.Errorf("settings: already watching %s", s.path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.watchLoop(watcher, s.done, onChange)
	return nil
}

func (s *Store) watchLoop(watcher *fsnotify.Watcher, done <-chan struct{}, onChange func()) {
	defer s.wg.Done()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	base := filepath.Base(s.path)

	for {
		select {
		case <-done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case <-done:
				default:
					onChange()
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("settings watcher error", "path", s.path, "error", err)
		}
	}
}
