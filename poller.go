// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

// poller watches the regular files directly inside dir.
type poller struct {
	w     *Watcher
	run   *run
	dir   string
	root  bool
	store *store
}

func (p *poller) loop() {
	ctx := p.run.ctx
	timer := time.NewTimer(p.w.Delay())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if !p.poll(ctx) {
			return
		}
		timer.Reset(p.w.Delay())
	}
}

// poll runs a single cycle. It returns false when the poller retires because
// its directory is gone.
func (p *poller) poll(ctx context.Context) bool {
	p.w.metrics.cycles.Add(1)

	p.store.forEach(func(path string, _ Timestamp) bool {
		if ctx.Err() != nil {
			return false
		}
		// A file replaced by a directory or a link is gone as well.
		if p.w.fs.IsRegular(path) {
			return true
		}
		p.store.remove(path)
		p.w.emit(ctx, Remove, path)
		return true
	})
	if ctx.Err() != nil {
		return true
	}

	entries, err := p.w.fs.ListImmediate(p.dir)
	if err != nil {
		p.w.metrics.listErrors.Add(1)
		if !p.root && errors.Is(err, fs.ErrNotExist) && p.store.len() == 0 {
			p.w.release(p.run, p.dir)
			return false
		}
		p.w.logger.Debug("list failed", "dir", p.dir, "error", err)
		return true
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return true
		}
		switch {
		case entry.IsDir:
			if p.w.depth == Recursive {
				p.w.adopt(p.run, entry.Path)
			}
		case entry.IsRegular:
			p.diff(ctx, entry.Path)
		}
	}
	return true
}

func (p *poller) diff(ctx context.Context, path string) {
	ts, err := p.w.fs.ModTime(path)
	if err != nil {
		// Removed after the listing. If it was known, the next delete pass
		// reports it.
		if !errors.Is(err, fs.ErrNotExist) {
			p.w.logger.Debug("stat failed", "path", path, "error", err)
		}
		return
	}
	old, ok := p.store.get(path)
	switch {
	case !ok:
		p.store.set(path, ts)
		p.w.emit(ctx, Create, path)
	case old != ts:
		p.store.set(path, ts)
		p.w.emit(ctx, Write, path)
	}
}

// emit invokes the callback for e unless the run has been cancelled.
func (w *Watcher) emit(ctx context.Context, e Event, path string) {
	if ctx.Err() != nil {
		return
	}
	w.metrics.count(e)
	w.logger.Debug("event", "event", e.String(), "path", path)
	if fn := w.callbacks.lookup(e); fn != nil {
		w.invoke(fn, e, path)
	}
}

func (w *Watcher) invoke(fn func(string), e Event, path string) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err := &CallbackError{Path: path, Event: e, Value: v}
		w.metrics.callbackFailures.Add(1)
		w.logger.Error("callback failed", "path", path, "event", e.String(), "error", err)
		if w.errorHandler != nil {
			w.errorHandler(err)
		}
	}()
	fn(path)
}
