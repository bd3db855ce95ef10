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

package channel

import (
	"sync"
	"sync/atomic"

	"github.com/guzongmin/occlum/internal/events"
)

// endpoint carries what the two halves of a channel have in common: the
// exclusively owned ring half behind its lock, the shared shutdown state,
// the notifier this side's readiness events are announced on, the observer
// whose queue this side's blocked goroutines park on, and the non-blocking
// flag.
type endpoint[H any] struct {
	mu    sync.Mutex
	inner H

	state       *state
	observer    *events.WaiterQueueObserver[IoEvents]
	notifier    IoNotifier
	nonblocking atomic.Bool
}

func newEndpoint[H any](inner H, st *state) *endpoint[H] {
	return &endpoint[H]{
		inner:    inner,
		state:    st,
		observer: events.NewWaiterQueueObserver[IoEvents](),
	}
}

// Notifier returns the notifier this endpoint announces its readiness
// events on. Pollers register their observers here.
func (ep *endpoint[H]) Notifier() *IoNotifier { return &ep.notifier }

// IsNonblocking reports whether operations fail with EAGAIN instead of
// blocking. Endpoints start out blocking.
func (ep *endpoint[H]) IsNonblocking() bool { return ep.nonblocking.Load() }

// SetNonblocking switches the endpoint's blocking mode. Turning
// non-blocking mode on wakes every goroutine parked on this endpoint so it
// can observe the new mode rather than block indefinitely.
func (ep *endpoint[H]) SetNonblocking(nonblocking bool) {
	ep.nonblocking.Store(nonblocking)
	if nonblocking {
		ep.observer.Queue().DequeueAndWakeAll()
	}
}

// waitFor runs attempt until it reaches a terminal outcome, parking the
// calling goroutine on queue between tries. The first try runs without
// touching the queue, so the uncontended path allocates no waiter. From the
// second try on, the waiter is enqueued before the condition is re-checked;
// a wakeup that fires between a failed check and the park is then consumed
// by the next round instead of being lost.
func waitFor(queue *events.WaiterQueue, attempt func() (done bool, err error)) error {
	if done, err := attempt(); done {
		return err
	}
	w := events.NewWaiter()
	for {
		queue.ResetAndEnqueue(w)
		if done, err := attempt(); done {
			return err
		}
		w.Wait()
	}
}
