package seolint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/foomo/seolint/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before calling back
const DefaultDebounce = 250 * time.Millisecond

// Watch calls onChange when one of paths was written, created, removed or
// renamed. Paths can be files or directories. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, paths []string, onChange func(names []string)) error {
	return WatchDebounced(ctx, paths, DefaultDebounce, onChange)
}

// WatchDebounced is Watch with a custom quiet period, a burst of events
// results in one call of onChange with all changed names, sorted
func WatchDebounced(ctx context.Context, paths []string, debounce time.Duration, onChange func(names []string)) error {
	if len(paths) == 0 {
		return errors.New("nothing to watch")
	}
	watcher, errWatcher := fsnotify.NewWatcher()
	if errWatcher != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", errWatcher)
	}
	defer watcher.Close()

	logger := logging.FromContext(ctx)
	files := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, errAbs := filepath.Abs(p)
		if errAbs != nil {
			return errAbs
		}
		info, errStat := os.Stat(abs)
		if errStat != nil {
			return errStat
		}
		dir := abs
		if info.IsDir() {
			dirs[abs] = true
		} else {
			// editors replace files, the directory sees those events
			files[abs] = true
			dir = filepath.Dir(abs)
		}
		errAdd := watcher.Add(dir)
		if errAdd != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, errAdd)
		}
		logger.Debug("watching", logging.FieldPath, abs)
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := map[string]bool{}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Clean(event.Name)
			if !files[name] && !dirs[filepath.Dir(name)] {
				continue
			}
			logger.Debug("file event", logging.FieldPath, name, "op", event.Op.String())
			pending[name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			sort.Strings(names)
			pending = map[string]bool{}
			onChange(names)
		case errEvent, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Error("file watcher error", logging.FieldError, errEvent)
		}
	}
}
