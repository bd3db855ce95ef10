/*
 *
 * Copyright 2025 Occlum authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package events

import (
	"math"
	"sync"
	"sync/atomic"
)

// WaiterQueue is the ordered set of waiters parked at one wait site. The
// zero value is ready to use.
//
// The waiter count is kept in an atomic beside the lock so wake paths can
// skip the lock when nobody is parked. That shortcut is sound only for
// callers that follow the waiting discipline: enqueue first, then re-check
// the condition, then park. A waiter that parks without re-checking can miss
// a wakeup that raced with its enqueue.
type WaiterQueue struct {
	count atomic.Int64

	mu      sync.Mutex
	waiters []*Waiter
}

// IsEmpty reports whether no waiter is currently enqueued.
func (q *WaiterQueue) IsEmpty() bool { return q.count.Load() == 0 }

// ResetAndEnqueue discards any stale membership and pending wakeup of w,
// then appends it to the queue. Both happen under one lock acquisition so
// a waiter looping through park-and-retry rounds is never enqueued twice.
func (q *WaiterQueue) ResetAndEnqueue(w *Waiter) {
	q.mu.Lock()
	for i, cur := range q.waiters {
		if cur == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			break
		}
	}
	w.Reset()
	q.waiters = append(q.waiters, w)
	q.count.Store(int64(len(q.waiters)))
	q.mu.Unlock()
}

// DequeueAndWakeAll removes every parked waiter and wakes each one. It
// returns the number of waiters woken.
func (q *WaiterQueue) DequeueAndWakeAll() int {
	return q.DequeueAndWake(math.MaxInt)
}

// DequeueAndWake removes and wakes up to max waiters in FIFO order and
// returns the number woken.
func (q *WaiterQueue) DequeueAndWake(max int) int {
	if max <= 0 || q.count.Load() == 0 {
		return 0
	}

	q.mu.Lock()
	n := min(max, len(q.waiters))
	woken := make([]*Waiter, n)
	copy(woken, q.waiters[:n])
	rest := copy(q.waiters, q.waiters[n:])
	clear(q.waiters[rest:])
	q.waiters = q.waiters[:rest]
	q.count.Store(int64(rest))
	q.mu.Unlock()

	for _, w := range woken {
		w.Wake()
	}
	return n
}
