package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/scout/pkg/log"
)

// LoadFunc builds a new [Snapshot], typically by reading the configuration
// file again.
type LoadFunc func(ctx context.Context) (*Snapshot, error)

// Watch reloads the snapshot with load whenever the file at path changes.
// It returns once the watch is established; reloading continues in the
// background until ctx is canceled. A failed reload is logged and the
// previous snapshot stays active.
func (s *Server) Watch(ctx context.Context, path string, load LoadFunc) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	// Watch the directory, since editors often replace files by renaming.
	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		closeErr := watcher.Close()
		if closeErr != nil {
			log.WithContext(ctx).WarnContext(ctx, "close watcher", slog.Any("error", closeErr))
		}

		return fmt.Errorf("watch %q: %w", filepath.Dir(absPath), err)
	}

	go s.reloadOnEvent(ctx, watcher, absPath, load)

	return nil
}

func (s *Server) reloadOnEvent(ctx context.Context, watcher *fsnotify.Watcher, path string, load LoadFunc) {
	logger := log.WithContext(ctx).With(slog.String("path", path))

	defer func() {
		err := watcher.Close()
		if err != nil {
			logger.WarnContext(ctx, "close watcher", slog.Any("error", err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(evt.Name) != path {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) || evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
				continue
			}

			snap, err := load(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "reload configuration", slog.Any("error", err))

				continue
			}

			s.Swap(snap)
			logger.InfoContext(ctx, "reloaded configuration")

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			logger.ErrorContext(ctx, "watch configuration", slog.Any("error", err))
		}
	}
}
