// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locked

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kortschak/goroutine"
)

// RecursiveMutex is a re-entrant mutual exclusion lock. The goroutine holding
// the lock may lock it again without blocking; the lock is released when
// each Lock has been matched by an Unlock from the same goroutine.
//
// The zero value is an unlocked mutex with no deadlock grace period.
type RecursiveMutex struct {
	lock chan struct{}
	once sync.Once

	// owner is the goid of the holding goroutine or zero.
	owner atomic.Int64
	// depth is only accessed by the owner.
	depth int

	grace time.Duration
	file  string
	line  int
	ok    bool
}

// NewRecursiveMutex returns a RecursiveMutex that panics if a Lock call waits
// for longer than grace, indicating the position of the last successful
// outermost lock call. If grace is zero or negative, Lock waits indefinitely.
func NewRecursiveMutex(grace time.Duration) *RecursiveMutex {
	return &RecursiveMutex{lock: make(chan struct{}, 1), grace: grace}
}

// Lock locks m. If the calling goroutine already holds m, Lock increments
// the hold count and returns immediately.
func (m *RecursiveMutex) Lock() {
	id := goroutine.ID()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.once.Do(m.makeLock)
	if m.grace <= 0 {
		m.lock <- struct{}{}
	} else {
		timer := time.NewTimer(m.grace)
		select {
		case <-timer.C:
			panic(fmt.Sprintf("last successful lock at %s:%d valid=%t", m.file, m.line, m.ok))
		case m.lock <- struct{}{}:
			timer.Stop()
		}
	}
	m.owner.Store(id)
	m.depth = 1
	_, m.file, m.line, m.ok = runtime.Caller(1)
}

func (m *RecursiveMutex) makeLock() {
	if m.lock == nil {
		m.lock = make(chan struct{}, 1)
	}
}

// Unlock unlocks m. It is a run-time error if the calling goroutine does not
// hold m.
func (m *RecursiveMutex) Unlock() {
	if m.owner.Load() != goroutine.ID() {
		panic("unlock of recursive mutex not held by caller")
	}
	m.depth--
	if m.depth != 0 {
		return
	}
	m.owner.Store(0)
	select {
	default:
		panic("unlock of unlocked mutex")
	case <-m.lock:
	}
}

// Held reports whether the calling goroutine holds m.
func (m *RecursiveMutex) Held() bool {
	return m.owner.Load() == goroutine.ID()
}
