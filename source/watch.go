package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ezachrisen/cohort"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the cohort file on each Write or Create event for its path,
// and calls fn with the result. fn is called with the load error
// if the file cannot be read or parsed. Watch blocks until ctx is done.
//
// The directory is watched rather than the file, so that a file replaced by
// a rename is still seen: inotify reports the new name as a Create event.
func Watch(ctx context.Context, path string, fn func([]*cohort.Rule, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fn(LoadCohorts(path))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("watching %s: %w", path, err))
		}
	}
}
