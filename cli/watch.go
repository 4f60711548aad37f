package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nedpals/hlasmls/helpers"
)

const watchDebounce = 100 * time.Millisecond

// checkWatcher re-runs the line-length check on files matching the given
// patterns whenever they are written.
type checkWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	sfs      *helpers.SharedFS
	maxLen   int
}

func newCheckWatcher(sfs *helpers.SharedFS, patterns []string, maxLen int) (*checkWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cw := &checkWatcher{watcher: watcher, sfs: sfs, maxLen: maxLen}
	dirs := []string{}

	for _, pattern := range patterns {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			watcher.Close()
			return nil, err
		}

		cw.patterns = append(cw.patterns, absPattern)

		dir := filepath.Dir(absPattern)
		if slices.Contains(dirs, dir) {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("unable to watch %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	return cw, nil
}

func (cw *checkWatcher) matches(path string) bool {
	for _, pattern := range cw.patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Run blocks until ctx is done. Changes are batched so an editor saving a
// file in several steps triggers a single check.
func (cw *checkWatcher) Run(ctx context.Context, w io.Writer) error {
	defer cw.watcher.Close()

	pending := []string{}
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if !cw.matches(event.Name) || slices.Contains(pending, event.Name) {
				continue
			}

			pending = append(pending, event.Name)
			timer.Reset(watchDebounce)
		case <-timer.C:
			slices.Sort(pending)
			for _, path := range pending {
				// drop the cached copy so the new contents are read
				_ = cw.sfs.Remove(path)

				if _, err := checkFile(w, cw.sfs, path, cw.maxLen); err != nil {
					fmt.Fprintf(w, "%s: %v\n", path, err)
				}
			}
			pending = pending[:0]
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
