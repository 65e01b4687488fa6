// File created by olandr (c) 2025.
// Contains code from Copyright (c) 2014-2015 The Notify Authors. All rights reserved.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

var debug = os.Getenv("POLLWATCH_DEBUG") != ""

func dbgprintf(format string, v ...interface{}) {
	if debug {
		fmt.Fprintf(os.Stderr, "[D] "+format+"\n", v...)
	}
}

// fakename returns a random file name, or a directory name when isdir is set.
func fakename(isdir bool) string {
	name := gofakeit.LetterN(8)
	if !isdir {
		name = fmt.Sprintf("%v.%v", name, gofakeit.FileExtension())
	}
	return name
}

// fakepath returns a random slash separated path, level directories deep.
func fakepath(isdir bool, level int) string {
	var sb strings.Builder
	for range level {
		sb.WriteString(fakename(true))
		sb.WriteString("/")
	}
	sb.WriteString(fakename(isdir))
	if isdir {
		sb.WriteString("/")
	}
	return sb.String()
}

func nonil(err ...error) error {
	for _, err := range err {
		if err != nil {
			return err
		}
	}
	return nil
}

func isDir(path string) bool {
	r := path[len(path)-1]
	return r == '\\' || r == '/'
}

// tmpcreateall creates path under root with all of its parents. Paths ending
// with a slash are directories.
func tmpcreateall(root string, path string) error {
	isdir := isDir(path)
	path = filepath.Join(root, filepath.FromSlash(path))
	if isdir {
		return os.MkdirAll(path, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return nonil(f.Sync(), f.Close())
}

func tmpcreate(root, path string) (bool, error) {
	isdir := isDir(path)
	path = filepath.Join(root, filepath.FromSlash(path))
	if isdir {
		if err := os.Mkdir(path, 0755); err != nil {
			return false, err
		}
	} else {
		f, err := os.Create(path)
		if err != nil {
			return false, err
		}
		if err := nonil(f.Sync(), f.Close()); err != nil {
			return false, err
		}
	}
	return isdir, nil
}

// tmptree creates every path of list under root.
func tmptree(root string, list ...string) error {
	for _, path := range list {
		if err := tmpcreateall(root, path); err != nil {
			return err
		}
	}
	return nil
}

// replace appends p to the file at path, moving its modification time one
// second forward in a single step: the new content is prepared in a temporary
// file under tmpdir, which must be on the same filesystem and outside the
// watched tree, and renamed over path. A poller never sees an intermediate
// modification time.
func replace(tmpdir, path string, p []byte) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(tmpdir, ".pollwatch-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(append(old, p...))
	if err := nonil(err, f.Sync(), f.Close()); err != nil {
		os.Remove(tmp)
		return err
	}
	mtime := fi.ModTime().Add(time.Second)
	if err := os.Chtimes(tmp, mtime, mtime); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func callern(n int) string {
	_, file, line, ok := runtime.Caller(n)
	if !ok {
		return "<unknown>"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func caller() string {
	return callern(3)
}

func timeout() time.Duration {
	if s := os.Getenv("POLLWATCH_TIMEOUT"); s != "" {
		if t, err := time.ParseDuration(s); err == nil {
			return t
		}
	}
	return 2 * time.Second
}

func EqualEventInfo(want, got EventInfo) error {
	if got.Event() != want.Event() {
		return fmt.Errorf("want Event()=%v; got %v (path=%s)", want.Event(),
			got.Event(), want.Path())
	}
	path := strings.TrimRight(filepath.FromSlash(want.Path()), `/\`)
	if !strings.HasSuffix(got.Path(), path) {
		return fmt.Errorf("want Path()=%s; got %s (event=%v)", path, got.Path(),
			want.Event())
	}
	return nil
}

// drainall collects whatever is buffered in c after waiting for wait.
func drainall(c chan EventInfo, wait time.Duration) (ei []EventInfo) {
	time.Sleep(wait)
	for {
		select {
		case e := <-c:
			ei = append(ei, e)
			runtime.Gosched()
		default:
			return
		}
	}
}
