// Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Edited by in 2025 olandr.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents the type of filesystem change detected by a poller.
type Event uint32

// Platform independent event values.
const (
	Create Event = 1 << iota
	Write
	Remove

	// All is a handy alias for all the event types.
	All = Create | Write | Remove
)

var estr = map[Event]string{
	Create: "pollwatch.Create",
	Write:  "pollwatch.Write",
	Remove: "pollwatch.Remove",
}

// String implements fmt.Stringer interface.
func (e Event) String() string {
	var s []string
	for _, ev := range []Event{Create, Write, Remove} {
		if e&ev != 0 {
			s = append(s, estr[ev])
		}
	}
	if len(s) == 0 {
		return "<unknown>"
	}
	return strings.Join(s, "|")
}

// Op translates the event into the fsnotify operation with the same meaning.
func (e Event) Op() fsnotify.Op {
	var op fsnotify.Op
	if e&Create != 0 {
		op |= fsnotify.Create
	}
	if e&Write != 0 {
		op |= fsnotify.Write
	}
	if e&Remove != 0 {
		op |= fsnotify.Remove
	}
	return op
}

// EventInfo describes an event reported by a poller.
type EventInfo interface {
	Event() Event     // event value for the filesystem action
	Path() string     // canonical absolute path of the file
	Sys() interface{} // the time the event was detected, as time.Time
}

type event struct {
	path     string
	event    Event
	detected time.Time
}

func newEvent(path string, e Event) *event {
	return &event{path: path, event: e, detected: time.Now()}
}

func (e *event) Event() Event     { return e.event }
func (e *event) Path() string     { return e.path }
func (e *event) Sys() interface{} { return e.detected }
func (e *event) String() string   { return e.event.String() + "@" + e.path }
