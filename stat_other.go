// Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Edited by in 2025 olandr.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

//go:build !linux
// +build !linux

package pollwatch

import "os"

func modTime(path string) (Timestamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Timestamp{}, err
	}
	return timestampOf(fi.ModTime()), nil
}
