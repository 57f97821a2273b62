// Package watch re-runs a merge whenever the sources of a local directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/utils"
)

// DefaultDelay is the quiet period after the last change before merging again
const DefaultDelay = 300 * time.Millisecond

// RunFunc performs one merge
type RunFunc func(ctx context.Context) error

// Config describes what to watch
type Config struct {
	Directory  string
	Recurse    bool
	MaxDepth   int
	Ignore     []string
	Extensions []string
	Output     string // changes to the merged output itself are ignored
	Delay      time.Duration
	Logger     *slog.Logger
}

// Watcher watches a source tree and calls its RunFunc after changes settle
type Watcher struct {
	cfg     Config
	run     RunFunc
	ignored map[string]bool
	logger  *slog.Logger
}

// New creates a Watcher
func New(cfg Config, run RunFunc) *Watcher {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = utils.DefaultMaxDepth
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{cfg: cfg, run: run, ignored: utils.IgnoreSet(cfg.Ignore), logger: logger}
}

// Run watches until ctx is done. Merge failures are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.cfg.Directory); err != nil {
		return err
	}
	w.logger.Info(errors.InfoMsgWatching, "directory", w.cfg.Directory, "recurse", w.cfg.Recurse)

	rerun := make(chan struct{}, 1)
	debouncer := NewDebouncer(w.cfg.Delay)
	defer debouncer.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(watcher, event)
			if !w.isRelevant(event) {
				continue
			}
			debouncer.Trigger(func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		case <-rerun:
			w.logger.Info(errors.InfoMsgChangeDetected)
			if err := w.run(ctx); err != nil {
				w.logger.Error(errors.ErrMsgFailedToMergeFiles, "error", err)
			}
		}
	}
}

// handle starts watching directories created below the root
func (w *Watcher) handle(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !w.cfg.Recurse || !event.Has(fsnotify.Create) {
		return
	}
	if isDir, err := utils.IsDirectory(event.Name); err == nil && isDir {
		if err := w.addTree(watcher, event.Name); err != nil {
			w.logger.Warn("watch directory", "directory", event.Name, "error", err)
		}
	}
}

// isRelevant reports whether an event touches a source file other than the output
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.cfg.Output != "" && filepath.Clean(event.Name) == filepath.Clean(w.cfg.Output) {
		return false
	}
	return utils.IsSourceFile(event.Name, w.cfg.Extensions)
}

// addTree watches dir and, when recursive, the directories below it that a merge would search
func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir {
			if !w.cfg.Recurse || !w.searched(path) {
				return filepath.SkipDir
			}
		}
		w.logger.Debug("watching directory", "directory", path)
		return watcher.Add(path)
	})
}

// searched reports whether a merge would look for sources in path
func (w *Watcher) searched(path string) bool {
	relative, err := filepath.Rel(w.cfg.Directory, path)
	if err != nil || strings.HasPrefix(relative, "..") {
		return false
	}
	relative = filepath.ToSlash(relative)
	if utils.IsSkippedDirectory(relative, filepath.Base(path), w.ignored) {
		return false
	}
	return strings.Count(relative, "/")+1 < w.cfg.MaxDepth
}
