package reference

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileWatcher reloads a Store when its reference file changes on disk.
type FileWatcher struct {
	store    *Store
	path     string
	debounce time.Duration
	timeout  time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// WatchFile starts watching path. The parent directory is watched so that
// editors replacing the file by rename are noticed too. Bursts of events
// collapse into one reload after debounce.
func WatchFile(store *Store, path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{
		store:    store,
		path:     abs,
		debounce: debounce,
		timeout:  30 * time.Second,
		watcher:  w,
		done:     make(chan struct{}),
	}
	go fw.run()

	log.Info().Str("path", abs).Msg("watching reference file")
	return fw, nil
}

func (fw *FileWatcher) run() {
	defer close(fw.done)

	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(fw.debounce)

		case <-timer.C:
			fw.reload()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", fw.path).Msg("reference watch error")
		}
	}
}

func (fw *FileWatcher) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), fw.timeout)
	defer cancel()
	if err := fw.store.Load(ctx); err != nil {
		log.Error().Err(err).Str("path", fw.path).Msg("reference reload failed, keeping previous names")
	}
}

// Close stops watching and waits for the event loop to exit.
func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()
	<-fw.done
	return err
}
