// File created by olandr (c) 2025.
// Contains code from Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// MockWatcher drives a Watcher over a temporary tree and checks the events it
// delivers through ChanCallbacks.
type MockWatcher struct {
	Watcher *Watcher
	C       chan EventInfo
	Timeout time.Duration

	t    *testing.T
	root string
}

func (w *MockWatcher) Close() error {
	return w.Watcher.Close()
}

func (w *MockWatcher) path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

func (w *MockWatcher) timeout() time.Duration {
	if w.Timeout != 0 {
		return w.Timeout
	}
	return timeout()
}

// settle is long enough for every poller to run a few cycles.
func (w *MockWatcher) settle() time.Duration {
	return 5 * w.Watcher.Delay()
}

func (w *MockWatcher) Fatal(v interface{}) {
	w.t.Fatalf("%s: %v", caller(), v)
}

func (w *MockWatcher) Fatalf(format string, v ...interface{}) {
	w.t.Fatalf("%s: %s", caller(), fmt.Sprintf(format, v...))
}

// ExpectAny requires, for each case, one of its events to be delivered.
// Cases without events must deliver nothing.
func (w *MockWatcher) ExpectAny(cases []FileOperation) {
Test:
	for i, cas := range cases {
		dbgprintf("ExpectAny: i=%d", i)
		cas.Action()
		if len(cas.Events) == 0 {
			if ei := drainall(w.C, w.settle()); len(ei) != 0 {
				w.Fatalf("unexpected dangling events: %v (i=%d)", ei, i)
			}
			continue
		}
		select {
		case ei := <-w.C:
			dbgprintf("received: path=%q, event=%v (i=%d)", ei.Path(), ei.Event(), i)
			for j, want := range cas.Events {
				if err := EqualEventInfo(want, ei); err != nil {
					dbgprintf("%v (j=%d)", err, j)
					continue
				}
				if ei := drainall(w.C, w.settle()); len(ei) != 0 {
					w.Fatalf("unexpected dangling events: %v (i=%d)", ei, i)
				}
				continue Test
			}
			w.Fatalf("ExpectAny received an event which does not match any of "+
				"the expected ones (i=%d): want one of %v; got %v", i, cas.Events, ei)
		case <-time.After(w.timeout()):
			w.Fatalf("timed out after %v waiting for one of %v (i=%d)", w.timeout(),
				cas.Events, i)
		}
	}
}

// ExpectAll requires all events of a case to be delivered, in any order, and
// nothing else.
func (w *MockWatcher) ExpectAll(cases []FileOperation) {
	for i, cas := range cases {
		dbgprintf("ExpectAll: i=%d", i)
		cas.Action()
		got := w.collect(len(cas.Events))
		if len(got) != len(cas.Events) {
			w.Fatalf("ExpectAll timed out after %v: want %v; got %v (i=%d)",
				w.timeout(), cas.Events, got, i)
		}
	Compare:
		for _, want := range cas.Events {
			for j, ei := range got {
				if EqualEventInfo(want, ei) == nil {
					got = append(got[:j], got[j+1:]...)
					continue Compare
				}
			}
			w.Fatalf("ExpectAll is missing %v@%s (i=%d)", want.Event(), want.Path(), i)
		}
		if ei := drainall(w.C, w.settle()); len(ei) != 0 {
			w.Fatalf("ExpectAll received unexpected events: %v (i=%d)", ei, i)
		}
	}
}

// ExpectOrder requires the events of each case to be delivered exactly in
// the given order.
func (w *MockWatcher) ExpectOrder(cases []FileOperation) {
	for i, cas := range cases {
		dbgprintf("ExpectOrder: i=%d", i)
		cas.Action()
		got := w.collect(len(cas.Events))
		if len(got) != len(cas.Events) {
			w.Fatalf("ExpectOrder timed out after %v: want %v; got %v (i=%d)",
				w.timeout(), cas.Events, got, i)
		}
		for j := range got {
			if err := EqualEventInfo(cas.Events[j], got[j]); err != nil {
				w.Fatalf("ExpectOrder: %v (i=%d, j=%d)", err, i, j)
			}
		}
	}
}

func (w *MockWatcher) collect(n int) []EventInfo {
	got := make([]EventInfo, 0, n)
	deadline := time.After(w.timeout())
	for len(got) < n {
		select {
		case ei := <-w.C:
			dbgprintf("received: path=%q, event=%v", ei.Path(), ei.Event())
			got = append(got, ei)
		case <-deadline:
			return got
		}
	}
	return got
}
