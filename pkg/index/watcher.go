package index

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/sorcerai/packfs/pkg/sandbox"
)

// Watcher translates filesystem notifications into coarse dirty markers the
// engine consumes at operation boundaries. On any watcher trouble it flips a
// stale flag instead, forcing the next reconciliation to do a full scan.
// Only disk-backed engines can attach one.
type Watcher struct {
	root string
	fw   *fsnotify.Watcher

	mu    sync.Mutex
	dirty map[string]struct{}
	stale bool

	done chan struct{}
}

// NewWatcher installs recursive watches over the sandbox root, honoring the
// exclusion set and the depth cap.
func NewWatcher(root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:  root,
		fw:    fw,
		dirty: make(map[string]struct{}),
		done:  make(chan struct{}),
	}
	w.addWatches(root, 0)
	go w.loop()
	return w, nil
}

func (w *Watcher) addWatches(dir string, depth int) {
	if depth > sandbox.MaxDepth {
		return
	}
	if err := w.fw.Add(dir); err != nil {
		w.markStale()
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || sandbox.IsExcludedName(e.Name()) {
			continue
		}
		w.addWatches(filepath.Join(dir, e.Name()), depth+1)
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fw.Events:
			if !ok {
				w.markStale()
				return
			}
			w.handle(evt)
		case err, ok := <-w.fw.Errors:
			if !ok {
				w.markStale()
				return
			}
			log.Printf("index: watcher error: %v", err)
			w.markStale()
		}
	}
}

func (w *Watcher) handle(evt fsnotify.Event) {
	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		w.markStale()
		return
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || sandbox.IsExcludedPath(rel) || sandbox.IsReserved(rel) {
		return
	}

	switch {
	case evt.Op&fsnotify.Create != 0:
		w.markDirty(rel)
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			w.addWatches(evt.Name, strings.Count(rel, "/")+1)
		}
	case evt.Op&fsnotify.Write != 0:
		w.markDirty(rel)
	case evt.Op&fsnotify.Remove != 0, evt.Op&fsnotify.Rename != 0:
		// A removed or renamed directory invalidates everything below it;
		// a full rescan is cheaper than tracking the subtree.
		w.markStale()
	}
}

func (w *Watcher) markDirty(rel string) {
	w.mu.Lock()
	w.dirty[rel] = struct{}{}
	w.mu.Unlock()
}

func (w *Watcher) markStale() {
	w.mu.Lock()
	w.stale = true
	w.mu.Unlock()
}

// Drain returns and clears the accumulated dirty set and stale flag.
func (w *Watcher) Drain() (dirty []string, stale bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for rel := range w.dirty {
		dirty = append(dirty, rel)
	}
	w.dirty = make(map[string]struct{})
	stale = w.stale
	w.stale = false
	return dirty, stale
}

// Close stops the watch loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
