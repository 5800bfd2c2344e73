// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locked

import (
	"sync"
	"testing"
	"time"
)

func TestRecursiveMutexReentrant(t *testing.T) {
	for _, test := range []struct {
		name string
		mu   *RecursiveMutex
	}{
		{name: "zero", mu: &RecursiveMutex{}},
		{name: "grace", mu: NewRecursiveMutex(time.Second)},
	} {
		t.Run(test.name, func(t *testing.T) {
			done := make(chan struct{})
			go func() {
				defer close(done)
				test.mu.Lock()
				test.mu.Lock()
				test.mu.Lock()
				if !test.mu.Held() {
					t.Error("expected lock to be held")
				}
				test.mu.Unlock()
				test.mu.Unlock()
				if !test.mu.Held() {
					t.Error("expected lock to be held after partial unlock")
				}
				test.mu.Unlock()
				if test.mu.Held() {
					t.Error("unexpected lock held after full unlock")
				}
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("deadlock on re-entrant lock")
			}
		})
	}
}

func TestRecursiveMutexExclusion(t *testing.T) {
	var (
		mu      RecursiveMutex
		wg      sync.WaitGroup
		counter int
		inside  int
	)
	const n = 50
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				mu.Lock()
				mu.Lock()
				inside++
				if inside != 1 {
					t.Errorf("unexpected number of holders: %d", inside)
				}
				counter++
				inside--
				mu.Unlock()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if counter != n*100 {
		t.Errorf("unexpected count: got:%d want:%d", counter, n*100)
	}
}

func TestRecursiveMutexBlocksOthers(t *testing.T) {
	var mu RecursiveMutex
	mu.Lock()
	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
		mu.Unlock()
	}()
	select {
	case <-acquired:
		t.Fatal("lock acquired by second goroutine while held")
	case <-time.After(50 * time.Millisecond):
	}
	mu.Unlock()
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("lock not acquired after release")
	}
}

func TestRecursiveMutexUnlockNotHeld(t *testing.T) {
	var mu RecursiveMutex
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unlock of unheld mutex")
		}
	}()
	mu.Unlock()
}

func TestRecursiveMutexUnlockOtherGoroutine(t *testing.T) {
	var mu RecursiveMutex
	mu.Lock()
	defer mu.Unlock()
	panicked := make(chan bool)
	go func() {
		defer func() {
			panicked <- recover() != nil
		}()
		mu.Unlock()
	}()
	if !<-panicked {
		t.Error("expected panic on unlock by non-owner")
	}
}

func TestRecursiveMutexGrace(t *testing.T) {
	mu := NewRecursiveMutex(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	panicked := make(chan any)
	go func() {
		defer func() {
			panicked <- recover()
		}()
		mu.Lock()
	}()
	select {
	case p := <-panicked:
		if p == nil {
			t.Error("expected deadlock panic")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("grace period did not expire")
	}
}
