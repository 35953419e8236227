package vault

import (
	"sort"
	"sync"
)

// pathLock is a mutex shared by the callers currently holding or waiting
// for one path.
type pathLock struct {
	sync.Mutex
	refs int
}

// pathLocks hands out one mutex per path and forgets it once no caller
// needs it.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*pathLock)}
}

// lock acquires the mutexes for paths in sorted order and returns the
// function that releases them.
func (p *pathLocks) lock(paths ...string) func() {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var held []string
	for i, path := range sorted {
		if i > 0 && sorted[i-1] == path {
			continue
		}
		p.mu.Lock()
		l, ok := p.locks[path]
		if !ok {
			l = &pathLock{}
			p.locks[path] = l
		}
		l.refs++
		p.mu.Unlock()

		l.Lock()
		held = append(held, path)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			p.release(held[i])
		}
	}
}

func (p *pathLocks) release(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l := p.locks[path]
	l.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(p.locks, path)
	}
}
