// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Callbacks are invoked synchronously from the poller which detected the
// change, so a slow callback delays the next cycle of its own directory
// only. A nil callback ignores the event. Callbacks must not call Stop, which
// waits for the poller running them.
type Callbacks struct {
	OnCreate func(path string)
	OnModify func(path string)
	OnDelete func(path string)

	// dropped counts the events a channel sink could not deliver.
	dropped *atomic.Uint64
}

func (c Callbacks) lookup(e Event) func(string) {
	switch e {
	case Create:
		return c.OnCreate
	case Write:
		return c.OnModify
	case Remove:
		return c.OnDelete
	}
	return nil
}

// CallbackError is reported to Options.ErrorHandler when a callback panics.
type CallbackError struct {
	Path  string
	Event Event
	Value interface{}
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%v callback for %s panicked: %v", e.Event, e.Path, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *CallbackError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// ChanCallbacks dispatches every event as an EventInfo to c.
//
// The c almost always is a buffered channel. The callbacks will not block
// sending to c - the caller must ensure that c has sufficient buffer space to
// keep up with the expected event rate. Events which do not fit are dropped
// and counted in Metrics.Dropped of the Watcher using the callbacks.
func ChanCallbacks(c chan<- EventInfo) Callbacks {
	dropped := new(atomic.Uint64)
	send := func(e Event) func(string) {
		return func(path string) {
			select {
			case c <- newEvent(path, e):
			default:
				dropped.Add(1)
			}
		}
	}
	return Callbacks{
		OnCreate: send(Create),
		OnModify: send(Write),
		OnDelete: send(Remove),
		dropped:  dropped,
	}
}

// FsnotifyCallbacks dispatches every event to c as an fsnotify.Event, for
// hosts which already consume fsnotify channels. Sends do not block and drops
// are counted, same as for ChanCallbacks.
func FsnotifyCallbacks(c chan<- fsnotify.Event) Callbacks {
	dropped := new(atomic.Uint64)
	send := func(e Event) func(string) {
		return func(path string) {
			select {
			case c <- fsnotify.Event{Name: path, Op: e.Op()}:
			default:
				dropped.Add(1)
			}
		}
	}
	return Callbacks{
		OnCreate: send(Create),
		OnModify: send(Write),
		OnDelete: send(Remove),
		dropped:  dropped,
	}
}
