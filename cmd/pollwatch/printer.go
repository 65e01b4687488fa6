// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

var (
	createColor = color.New(color.FgGreen)
	writeColor  = color.New(color.FgYellow)
	removeColor = color.New(color.Bold, color.FgRed)
)

func formatEvent(ev fsnotify.Event) string {
	var op string
	switch {
	case ev.Has(fsnotify.Create):
		op = createColor.Sprint("create")
	case ev.Has(fsnotify.Write):
		op = writeColor.Sprint("write ")
	case ev.Has(fsnotify.Remove):
		op = removeColor.Sprint("remove")
	default:
		op = ev.Op.String()
	}
	return op + " " + ev.Name
}

// printEvents writes one line per event until ctx is done.
func printEvents(ctx context.Context, w io.Writer, c <-chan fsnotify.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c:
			fmt.Fprintln(w, formatEvent(ev))
		}
	}
}
