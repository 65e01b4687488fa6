// Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Edited by in 2025 olandr.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

//go:build linux
// +build linux

package pollwatch

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// modTime reads st_mtim directly so the nanosecond part is kept on every
// architecture.
func modTime(path string) (Timestamp, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Timestamp{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	sec, nsec := st.Mtim.Unix()
	return Timestamp{Sec: sec, Nsec: nsec}, nil
}
