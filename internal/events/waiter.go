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
	"time"

	"github.com/guzongmin/occlum/internal/errno"
)

// Waiter parks the calling goroutine until some other goroutine wakes it.
//
// A wakeup token is buffered: Wake before Wait satisfies the next Wait
// immediately. Wakeups are permitted to be spurious with respect to the
// condition the caller cares about, so a woken goroutine must re-check its
// condition and, if need be, park again.
type Waiter struct {
	token chan struct{}
}

// NewWaiter returns a Waiter with no wakeup pending.
func NewWaiter() *Waiter {
	return &Waiter{token: make(chan struct{}, 1)}
}

// Reset discards any pending wakeup so a token left over from an earlier
// round cannot satisfy the next Wait prematurely.
func (w *Waiter) Reset() {
	select {
	case <-w.token:
	default:
	}
}

// Wake unparks the waiter. It never blocks. The return reports whether this
// call delivered the token; false means a wakeup was already pending.
func (w *Waiter) Wake() bool {
	select {
	case w.token <- struct{}{}:
		return true
	default:
		return false
	}
}

// Wait blocks until the waiter is woken.
func (w *Waiter) Wait() {
	<-w.token
}

// WaitTimeout is Wait bounded by d. It fails with ETIMEDOUT when d elapses
// before a wakeup arrives.
func (w *Waiter) WaitTimeout(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-w.token:
		return nil
	case <-timer.C:
		return errno.New(errno.ETIMEDOUT, "wait timed out")
	}
}
