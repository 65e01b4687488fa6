// File created by olandr (c) 2025
// Contains code from Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"testing"
	"time"
)

const testDelay = 10 * time.Millisecond

func newWatcherTest(t *testing.T, depth Depth, tree ...string) *MockWatcher {
	t.Helper()
	root, err := canonical(t.TempDir())
	if err != nil {
		t.Fatalf("canonical(%q)=%v", root, err)
	}
	if err := tmptree(root, tree...); err != nil {
		t.Fatalf("tmptree(%q, %v)=%v", root, tree, err)
	}
	c := make(chan EventInfo, 512)
	w, err := New(root, ChanCallbacks(c), Options{Depth: depth, Delay: testDelay})
	if err != nil {
		t.Fatalf("New(%q)=%v", root, err)
	}
	return &MockWatcher{
		Watcher: w,
		C:       c,
		t:       t,
		root:    root,
	}
}

// NewWatcherTest creates the tree under a temporary root and starts watching
// it. The watcher is stopped when the test ends.
func NewWatcherTest(t *testing.T, depth Depth, tree ...string) *MockWatcher {
	t.Helper()
	w := newWatcherTest(t, depth, tree...)
	if err := w.Watcher.Start(w.root, false); err != nil {
		t.Fatalf("Start(%q)=%v", w.root, err)
	}
	t.Cleanup(func() { w.Close() })
	if ei := drainall(w.C, w.settle()); len(ei) != 0 {
		t.Fatalf("initial snapshot reported events: %v", ei)
	}
	return w
}
