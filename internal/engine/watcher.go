package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher keeps the engine's documents in sync with the file system. Writes
// and creates re-add the file; removes and renames drop it. Events are
// debounced so an editor's burst of writes triggers one reindex.
type Watcher struct {
	engine   *Engine
	watcher  *fsnotify.Watcher
	root     string
	include  []string
	debounce time.Duration
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]fsnotify.Op
	timer   *time.Timer
}

// NewWatcher creates a watcher over root for files matching the include
// globs (doublestar patterns, matched against the root-relative path).
func NewWatcher(e *Engine, root string, include []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		engine:   e,
		watcher:  fsw,
		root:     root,
		include:  include,
		debounce: debounce,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

// Start adds watches for every directory under root and begins processing
// events.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.root); err != nil {
		return fmt.Errorf("failed to add watches under %s: %w", w.root, err)
	}
	w.wg.Add(1)
	go w.run()
	w.log.Info("file watcher started", zap.String("root", w.root))
	return nil
}

// Stop cancels event processing and closes the underlying watcher. Events
// pending in the debouncer at shutdown are dropped.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if err := w.watcher.Add(path); err != nil {
			w.log.Warn("failed to watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		// New directories get their own watch so nested files are seen.
		if event.Op&fsnotify.Create != 0 {
			if err := w.watcher.Add(path); err != nil {
				w.log.Warn("failed to watch new directory", zap.String("path", path), zap.Error(err))
			}
		}
		return
	}

	if !w.matches(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] |= event.Op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
	w.mu.Unlock()
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) flush() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.mu.Unlock()

	if len(batch) == 0 || w.ctx.Err() != nil {
		return
	}
	w.log.Debug("processing debounced file events", zap.Int("count", len(batch)))

	for path, op := range batch {
		if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.engine.RemoveDocument(path)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			w.log.Warn("failed to read changed file", zap.String("path", path), zap.Error(err))
			continue
		}
		w.engine.AddDocument(w.ctx, path, string(data))
	}
}
