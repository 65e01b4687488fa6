// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"sort"
	"sync"
)

// store keeps the last observed modification time of every regular file in
// a single directory. Each poller owns exactly one store.
type store struct {
	mu    sync.Mutex
	times map[string]Timestamp
}

func newStore(seed map[string]Timestamp) *store {
	s := &store{times: make(map[string]Timestamp, len(seed))}
	for p, ts := range seed {
		s.times[p] = ts
	}
	return s
}

func (s *store) get(path string) (Timestamp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.times[path]
	return ts, ok
}

func (s *store) set(path string, ts Timestamp) {
	s.mu.Lock()
	s.times[path] = ts
	s.mu.Unlock()
}

func (s *store) remove(path string) {
	s.mu.Lock()
	delete(s.times, path)
	s.mu.Unlock()
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.times)
}

// forEach calls fn for every entry in path order. The entries are copied
// before the first call, so fn is free to call remove or set. Iteration
// stops as soon as fn returns false.
func (s *store) forEach(fn func(path string, ts Timestamp) bool) {
	s.mu.Lock()
	paths := make([]string, 0, len(s.times))
	for p := range s.times {
		paths = append(paths, p)
	}
	times := make([]Timestamp, len(paths))
	sort.Strings(paths)
	for i, p := range paths {
		times[i] = s.times[p]
	}
	s.mu.Unlock()
	for i, p := range paths {
		if !fn(p, times[i]) {
			return
		}
	}
}
