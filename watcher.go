// Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Edited by in 2025 olandr.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

// BUG(olandr): A file which is deleted and recreated under the same path within
// one poll interval is reported as a single Write, or not at all when the new
// modification time happens to match the old one. This is inherent to interval
// polling.

// BUG(olandr): Directories are never reported themselves, only the regular files
// they contain. Symbolic links are neither followed nor reported.

// Package pollwatch watches a directory tree for created, modified and deleted
// regular files by periodically listing it.
//
// Each watched directory is polled by its own goroutine which owns the record
// of the files it has seen, so the pollers never contend with each other.
// Events of a single directory are delivered in order, deletions first, but no
// ordering is guaranteed across directories.
package pollwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultDelay is the poll interval used when none is configured.
const DefaultDelay = time.Second

// Depth selects how much of the tree below the root is watched.
type Depth uint8

const (
	// Shallow watches the regular files directly inside the root.
	Shallow Depth = iota
	// Recursive watches every directory of the tree, each with its own poller.
	Recursive
)

func (d Depth) String() string {
	switch d {
	case Shallow:
		return "shallow"
	case Recursive:
		return "recursive"
	}
	return fmt.Sprintf("Depth(%d)", uint8(d))
}

// Options controls watcher behavior.
type Options struct {
	Depth Depth

	// CreateBase creates the root directory on Start when it is missing.
	CreateBase bool

	// StartImmediately makes New call Start on the root.
	StartImmediately bool

	// Delay is the poll interval, DefaultDelay when not positive.
	Delay time.Duration

	// FS is the filesystem the pollers list, OSFS() when nil.
	FS FS

	// Logger receives diagnostics. When nil the output is discarded, unless
	// the POLLWATCH_DEBUG environment variable is set.
	Logger *slog.Logger

	// ErrorHandler is called with a *CallbackError when a callback panics.
	// The poller carries on with the next file either way.
	ErrorHandler func(error)
}

// DefaultOptions returns the options of a shallow watch which creates its
// root directory and polls once a second.
func DefaultOptions() Options {
	return Options{
		Depth:      Shallow,
		CreateBase: true,
		Delay:      DefaultDelay,
	}
}

// Watcher polls a directory tree and reports changes through its Callbacks.
type Watcher struct {
	root         string
	callbacks    Callbacks
	depth        Depth
	fs           FS
	logger       *slog.Logger
	errorHandler func(error)
	delay        atomic.Int64
	metrics      counters

	// lifecycle serializes Start and Stop, including the wait for the pollers.
	lifecycle sync.Mutex
	mutex     sync.Mutex
	current   *run
}

// run is the state of a single Start-Stop cycle.
type run struct {
	root   string
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
	owned  map[string]struct{}
}

// New creates a Watcher for root. It starts polling right away only when
// options.StartImmediately is set, in which case the Start error is returned.
func New(root string, callbacks Callbacks, options Options) (*Watcher, error) {
	fsys := options.FS
	if fsys == nil {
		fsys = OSFS()
	}

	logger := options.Logger
	if logger == nil {
		logger = defaultLogger()
	}

	w := &Watcher{
		root:         root,
		callbacks:    callbacks,
		depth:        options.Depth,
		fs:           fsys,
		logger:       logger,
		errorHandler: options.ErrorHandler,
	}
	w.metrics.dropped = callbacks.dropped
	w.SetDelay(options.Delay)

	if options.StartImmediately {
		if err := w.Start(root, options.CreateBase); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Start snapshots the tree under path and spawns its pollers. Files which
// exist at this point are never reported as created.
//
// When createBase is true a missing path is created first, otherwise Start
// fails with an error matching ErrRootNotFound. A watcher which is already
// running returns ErrAlreadyRunning without touching the filesystem.
func (w *Watcher) Start(path string, createBase bool) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.current != nil {
		return ErrAlreadyRunning
	}

	if path == "" {
		path = w.root
	}
	root, err := canonical(path)
	if err != nil {
		return err
	}
	if createBase {
		if err := w.fs.MkdirAll(root); err != nil {
			return fmt.Errorf("create watch root %s: %w", root, err)
		}
		if root, err = canonical(root); err != nil {
			return err
		}
	}
	if !w.fs.Exists(root) {
		return fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	snapshot, err := w.snapshot(root)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", root, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		root:   root,
		ctx:    ctx,
		cancel: cancel,
		owned:  make(map[string]struct{}),
	}
	w.current = r
	w.setupLocked(r, root, snapshot)

	w.logger.Info("watch started",
		"root", root,
		"depth", w.depth.String(),
		"delay", w.Delay().String(),
		"pollers", len(r.owned))
	return nil
}

// snapshot records the modification time of every regular file the pollers
// are going to own, grouped by parent directory.
func (w *Watcher) snapshot(root string) (map[string]map[string]Timestamp, error) {
	var (
		entries []Entry
		err     error
	)
	if w.depth == Recursive {
		entries, err = w.fs.ListRecursive(root)
	} else {
		entries, err = w.fs.ListImmediate(root)
	}
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]map[string]Timestamp)
	for _, entry := range entries {
		if !entry.IsRegular {
			continue
		}
		ts, err := w.fs.ModTime(entry.Path)
		if err != nil {
			// Gone already; it is not part of the initial state.
			continue
		}
		dir := filepath.Dir(entry.Path)
		if snapshot[dir] == nil {
			snapshot[dir] = make(map[string]Timestamp)
		}
		snapshot[dir][entry.Path] = ts
	}
	return snapshot, nil
}

// setupLocked spawns the pollers of every subdirectory of dir before the
// poller of dir itself.
func (w *Watcher) setupLocked(r *run, dir string, snapshot map[string]map[string]Timestamp) {
	if w.depth == Recursive {
		entries, err := w.fs.ListImmediate(dir)
		if err != nil {
			w.logger.Debug("list failed during setup", "dir", dir, "error", err)
		}
		for _, entry := range entries {
			if entry.IsDir {
				w.setupLocked(r, entry.Path, snapshot)
			}
		}
	}
	w.spawnLocked(r, dir, snapshot[dir])
}

func (w *Watcher) spawnLocked(r *run, dir string, seed map[string]Timestamp) {
	if _, ok := r.owned[dir]; ok {
		return
	}
	r.owned[dir] = struct{}{}

	p := &poller{
		w:     w,
		run:   r,
		dir:   dir,
		root:  dir == r.root,
		store: newStore(seed),
	}
	w.metrics.pollers.Add(1)
	r.group.Go(func() error {
		defer w.metrics.pollers.Add(-1)
		p.loop()
		return nil
	})
	w.logger.Debug("poller spawned", "dir", dir, "files", len(seed))
}

// adopt spawns a poller for a directory discovered after Start.
func (w *Watcher) adopt(r *run, dir string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.current != r || r.ctx.Err() != nil {
		return
	}
	w.spawnLocked(r, dir, nil)
}

// release gives up the ownership of a directory whose poller has retired.
func (w *Watcher) release(r *run, dir string) {
	w.mutex.Lock()
	delete(r.owned, dir)
	w.mutex.Unlock()
	w.logger.Debug("poller retired", "dir", dir)
}

// Stop wakes every poller, waits until all of them have returned and drops
// their state. No callback is invoked once Stop returns. Calling Stop on a
// watcher which is not running is a no-op.
func (w *Watcher) Stop() {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	w.mutex.Lock()
	r := w.current
	w.current = nil
	w.mutex.Unlock()
	if r == nil {
		return
	}

	r.cancel()
	_ = r.group.Wait()
	w.logger.Info("watch stopped", "root", r.root)
}

// Close stops the watcher. It always returns nil.
func (w *Watcher) Close() error {
	w.Stop()
	return nil
}

// SetDelay changes the poll interval. Every poller picks it up when it goes
// to sleep next; a sleep already in progress is not shortened. A non-positive
// delay resets the interval to DefaultDelay.
func (w *Watcher) SetDelay(delay time.Duration) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	w.delay.Store(int64(delay))
}

// Delay returns the current poll interval.
func (w *Watcher) Delay() time.Duration {
	return time.Duration(w.delay.Load())
}

// Running reports whether the watcher has been started and not stopped.
func (w *Watcher) Running() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.current != nil
}

// Root returns the canonical root of the running watch, or the root given to
// New when the watcher is not running.
func (w *Watcher) Root() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.current != nil {
		return w.current.root
	}
	return w.root
}

// Pollers returns the number of directories currently polled.
func (w *Watcher) Pollers() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.current == nil {
		return 0
	}
	return len(w.current.owned)
}
