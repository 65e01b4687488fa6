// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import "sync/atomic"

// Metrics reports watcher stats. Counters accumulate over the lifetime of the
// Watcher, across restarts.
type Metrics struct {
	ActivePollers    int
	Cycles           uint64
	Created          uint64
	Modified         uint64
	Deleted          uint64
	ListErrors       uint64
	CallbackFailures uint64
	// Dropped counts events a channel sink could not deliver because its
	// channel was full.
	Dropped uint64
}

type counters struct {
	pollers          atomic.Int64
	cycles           atomic.Uint64
	created          atomic.Uint64
	modified         atomic.Uint64
	deleted          atomic.Uint64
	listErrors       atomic.Uint64
	callbackFailures atomic.Uint64
	dropped          *atomic.Uint64
}

func (c *counters) count(e Event) {
	switch e {
	case Create:
		c.created.Add(1)
	case Write:
		c.modified.Add(1)
	case Remove:
		c.deleted.Add(1)
	}
}

// Metrics returns a snapshot of the watcher counters.
func (w *Watcher) Metrics() Metrics {
	if w == nil {
		return Metrics{}
	}
	var dropped uint64
	if w.metrics.dropped != nil {
		dropped = w.metrics.dropped.Load()
	}
	return Metrics{
		ActivePollers:    int(w.metrics.pollers.Load()),
		Cycles:           w.metrics.cycles.Load(),
		Created:          w.metrics.created.Load(),
		Modified:         w.metrics.modified.Load(),
		Deleted:          w.metrics.deleted.Load(),
		ListErrors:       w.metrics.listErrors.Load(),
		CallbackFailures: w.metrics.callbackFailures.Load(),
		Dropped:          dropped,
	}
}
