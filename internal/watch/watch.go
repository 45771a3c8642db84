// Package watch re-triggers generation when the source image changes on
// disk.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// debounceDelay collapses the burst of events an editor save produces
// into one change notification.
const debounceDelay = 500 * time.Millisecond

// Watcher reports changes to a single source file.
type Watcher struct {
	source  string
	fs      *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// New watches the directory containing sourcePath and reports changes to
// that file on the Changes channel.
func New(sourcePath string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	src := filepath.Clean(sourcePath)
	dir := filepath.Dir(src)
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		source:  src,
		fs:      fs,
		changes: make(chan string, 8),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers the source path once per debounced change burst.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.source {
				continue
			}

			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Warn().Str("source", w.source).Msg("source file removed")
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: wait for the write burst to settle before firing.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case w.changes <- w.source:
				case <-w.done:
				}
			})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
