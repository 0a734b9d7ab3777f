package config

import (
	"context"
	"path/filepath"

	"resolvemcp/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it changes and hands each valid
// new configuration to apply. Invalid edits are logged and skipped; the
// last good configuration stays in effect. Watch blocks until ctx ends.
//
// The watch is on the directory, not the file: editors that write via
// rename would otherwise silently detach the watch.
func Watch(ctx context.Context, path string, apply func(Config)) error {
	if path == "" {
		path = DefaultPath()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logging.Debug("Config", "watching %s for changes", path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logging.Warn("Config", "ignoring invalid config change: %v", err)
				continue
			}
			logging.Info("Config", "configuration reloaded from %s", path)
			apply(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Config", err, "config watcher error")
		}
	}
}
