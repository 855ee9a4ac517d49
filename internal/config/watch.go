package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the events of one save into a single reload.
const reloadDelay = 100 * time.Millisecond

// Watch calls onChange with the reloaded configuration, or the load error,
// every time path is written or replaced. It blocks until ctx is done.
// The parent directory is watched so editors that save by rename still
// trigger a reload. Events are coalesced for reloadDelay, and a file left
// empty by a truncating save is not reloaded until it is written again.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending == nil {
				pending = time.After(reloadDelay)
			}
		case <-pending:
			pending = nil
			if info, err := os.Stat(path); err == nil && info.Size() == 0 {
				continue
			}
			onChange(Load(path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
