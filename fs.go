// Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Edited by in 2025 olandr.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrRootNotFound   = fmt.Errorf("watch root does not exist: %w", fs.ErrNotExist)
	ErrNotDirectory   = errors.New("watch root is not a directory")
	ErrAlreadyRunning = errors.New("watcher is already running")
)

// Timestamp is the last modification time of a regular file as reported by
// the platform. Two Timestamps are equal only if the file was not modified
// in between, as far as the filesystem resolution allows.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// IsZero reports whether ts carries no modification time.
func (ts Timestamp) IsZero() bool { return ts.Sec == 0 && ts.Nsec == 0 }

// Time converts ts to a time.Time.
func (ts Timestamp) Time() time.Time { return time.Unix(ts.Sec, ts.Nsec) }

func timestampOf(t time.Time) Timestamp {
	return Timestamp{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Entry is a single item of a directory listing.
type Entry struct {
	Path      string
	IsDir     bool
	IsRegular bool
}

// FS is the filesystem layer the pollers enumerate through. The watcher
// guarantees that every path passed to FS is absolute and clean.
//
// Implementations must be safe for concurrent use, since each directory is
// polled from its own goroutine.
type FS interface {
	// ListImmediate returns the direct children of dir.
	ListImmediate(dir string) ([]Entry, error)

	// ListRecursive returns every descendant of dir. It is used only for the
	// initial snapshot.
	ListRecursive(dir string) ([]Entry, error)

	// Exists reports whether path is still present.
	Exists(path string) bool

	// IsRegular reports whether path is still a regular file. A path which
	// cannot be inspected for another reason than its absence counts as
	// regular, so a transient failure is not mistaken for a deletion.
	IsRegular(path string) bool

	// ModTime returns the modification time of a regular file. A file which
	// vanished returns an error satisfying errors.Is(err, fs.ErrNotExist).
	ModTime(path string) (Timestamp, error)

	// MkdirAll creates dir together with any missing parents.
	MkdirAll(dir string) error
}

// OSFS returns the FS backed by the operating system.
func OSFS() FS { return osFS{} }

type osFS struct{}

func (osFS) ListImmediate(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, notDir(dir, err)
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		entries = append(entries, Entry{
			Path:      filepath.Join(dir, de.Name()),
			IsDir:     de.IsDir(),
			IsRegular: de.Type().IsRegular(),
		})
	}
	return entries, nil
}

func (osFS) ListRecursive(dir string) ([]Entry, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, &fs.PathError{Op: "walk", Path: dir, Err: ErrNotDirectory}
	}
	var entries []Entry
	err = filepath.WalkDir(dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are picked up by their pollers later on.
			if path != dir && de != nil && de.IsDir() {
				return fs.SkipDir
			}
			if path == dir {
				return err
			}
			return nil
		}
		if path == dir {
			return nil
		}
		entries = append(entries, Entry{
			Path:      path,
			IsDir:     de.IsDir(),
			IsRegular: de.Type().IsRegular(),
		})
		return nil
	})
	return entries, err
}

func (osFS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func (osFS) IsRegular(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist)
	}
	return fi.Mode().IsRegular()
}

func (osFS) ModTime(path string) (Timestamp, error) {
	return modTime(path)
}

func (osFS) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// notDir replaces a listing error with ErrNotDirectory when dir turns out to
// be something else than a directory.
func notDir(dir string, err error) error {
	if fi, serr := os.Stat(dir); serr == nil && !fi.IsDir() {
		return &fs.PathError{Op: "readdir", Path: dir, Err: ErrNotDirectory}
	}
	return err
}

// canonical returns an absolute, clean path with symlinks resolved. A path
// which does not exist yet is returned absolute and clean only.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return filepath.Clean(resolved), nil
}
