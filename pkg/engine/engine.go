// Package engine executes the five unified operations over a sandboxed
// directory tree, keeping the persistent semantic index and the disk in
// step. A single engine instance owns its index exclusively and serializes
// all public operations; independent instances over disjoint base
// directories are independent.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sorcerai/packfs/pkg/index"
	"github.com/sorcerai/packfs/pkg/intent"
	"github.com/sorcerai/packfs/pkg/retrieval"
)

// Engine is the operation engine. All public methods are safe for
// concurrent use; they are serialized internally so callers observe
// operations in acceptance order.
type Engine struct {
	mu      sync.Mutex
	fs      billy.Filesystem
	baseDir string // empty for memory-backed engines
	cfg     Config

	store   *index.Store
	idx     *index.Index
	watcher *index.Watcher
	ready   bool
}

// New opens a disk-backed engine rooted at baseDir. The base directory must
// exist; it is the sandbox root for every operation.
func New(baseDir string, cfg Config) (*Engine, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	cfg.applyDefaults()
	fs := osfs.New(abs)
	return &Engine{
		fs:      fs,
		baseDir: abs,
		cfg:     cfg,
		store:   index.NewStore(fs),
	}, nil
}

// NewMem builds a memory-backed engine over a fresh in-memory filesystem.
// Disk and memory backends are the same engine over different filesystems.
func NewMem(cfg Config) *Engine {
	cfg.applyDefaults()
	fs := memfs.New()
	return &Engine{
		fs:    fs,
		cfg:   cfg,
		store: index.NewStore(fs),
	}
}

// NewWithFilesystem builds an engine over a caller-supplied sandbox-rooted
// filesystem.
func NewWithFilesystem(fs billy.Filesystem, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{fs: fs, cfg: cfg, store: index.NewStore(fs)}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// BaseDir returns the disk base directory, or "" for memory backends.
func (e *Engine) BaseDir() string { return e.baseDir }

// EnableWatcher attaches a filesystem watcher so incremental
// reconciliation can consume change notifications instead of scanning.
// Only disk-backed engines can watch; the engine degrades to mtime scans
// when the watcher cannot be installed.
func (e *Engine) EnableWatcher() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseDir == "" {
		return errors.New("watcher requires a disk-backed engine")
	}
	if e.watcher != nil {
		return nil
	}
	w, err := index.NewWatcher(e.baseDir)
	if err != nil {
		return fmt.Errorf("install watcher: %w", err)
	}
	e.watcher = w
	return nil
}

// Close flushes the index and releases the watcher.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var err error
	if e.ready {
		err = e.store.Save(e.idx)
	}
	if e.watcher != nil {
		if werr := e.watcher.Close(); err == nil {
			err = werr
		}
		e.watcher = nil
	}
	return err
}

// ensureReady loads or rebuilds the index, then reconciles it with the
// tree. Callers hold e.mu.
func (e *Engine) ensureReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.ready {
		idx, ok := e.store.Load()
		if !ok {
			idx = index.New()
			index.NewIndexer(e.fs, idx).IndexTree()
			if err := e.store.Save(idx); err != nil {
				return err
			}
		}
		e.idx = idx
		e.ready = true
	}
	return e.reconcile(ctx)
}

// reconcile brings the index up to date with the tree: watcher dirty
// markers when available, a modification scan otherwise, and in both cases
// pruning of entries whose files vanished out-of-band.
func (e *Engine) reconcile(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ix := index.NewIndexer(e.fs, e.idx)

	if e.watcher != nil {
		dirty, stale := e.watcher.Drain()
		if stale {
			ix.IndexTree()
			ix.RemoveMissing()
			return e.store.Save(e.idx)
		}
		if len(dirty) == 0 {
			return nil
		}
		for _, rel := range dirty {
			if err := ix.UpdateFile(rel); err != nil {
				log.Printf("engine: reconcile %s: %v", rel, err)
			}
		}
		ix.RemoveMissing()
		return e.store.Save(e.idx)
	}

	if ix.NeedsUpdate(e.idx.LastUpdated) {
		ix.IndexTree()
		ix.RemoveMissing()
		return e.store.Save(e.idx)
	}
	if ix.RemoveMissing() > 0 {
		return e.store.Save(e.idx)
	}
	return nil
}

// RebuildIndex discards the index and rebuilds it from the tree.
func (e *Engine) RebuildIndex(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	idx := index.New()
	index.NewIndexer(e.fs, idx).IndexTree()
	if err := e.store.Save(idx); err != nil {
		return err
	}
	e.idx = idx
	e.ready = true
	return nil
}

// IndexedPaths returns a point-in-time snapshot of indexed paths for
// callers that display engine state. The index itself is never handed out.
func (e *Engine) IndexedPaths(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureReady(ctx); err != nil {
		return nil, err
	}
	return e.idx.Paths(), nil
}

// opContext applies the per-operation timeout, if any.
func opContext(ctx context.Context, opts intent.Options) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// opFS resolves the filesystem an operation runs against. A working
// directory override replaces the base for this one operation and bypasses
// the index entirely.
func (e *Engine) opFS(opts intent.Options) (fs billy.Filesystem, primary bool, err error) {
	if opts.WorkingDirectory == "" {
		return e.fs, true, nil
	}
	abs, err := filepath.Abs(opts.WorkingDirectory)
	if err != nil {
		return nil, false, fmt.Errorf("resolve working directory: %w", err)
	}
	return osfs.New(abs), false, nil
}

// retriever builds a retrieval engine over the current index snapshot.
func (e *Engine) retriever(maxResults int) *retrieval.Engine {
	if maxResults <= 0 {
		maxResults = e.cfg.DefaultMaxResults
	}
	return retrieval.New(e.fs, e.idx, maxResults)
}

// ctxMessage renders a context error per the error model: timeouts and
// cancellations are reported, never panicked.
func ctxMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "operation timed out"
	}
	return "operation cancelled"
}
