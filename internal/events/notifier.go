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

// Package events provides the notification machinery the fd subsystem is
// built on: notifiers fan readiness events out to registered observers, and
// waiter queues turn those deliveries into wakeups for goroutines parked in
// the middle of a blocking operation.
package events

import "sync"

// Notifier fans each broadcast event out to its registered observers in
// registration order. The zero value is ready to use.
//
// Delivery happens with the notifier locked, so observers must not register,
// unregister, or broadcast on the same notifier from inside OnEvent.
type Notifier[E any] struct {
	mu   sync.Mutex
	subs []subscription[E]
}

type subscription[E any] struct {
	observer Observer[E]
	filter   Filter[E] // nil matches every event
	key      any
}

// expirable is implemented by registration handles that can lapse, such as
// the weak handles returned by WaiterQueueObserver.Weak. Broadcast drops
// lapsed subscriptions instead of delivering to them.
type expirable interface {
	expired() bool
}

// Register subscribes observer to future broadcasts. A nil filter receives
// every event. key is handed back verbatim on each delivery, letting one
// observer serve several registrations.
func (n *Notifier[E]) Register(observer Observer[E], filter Filter[E], key any) {
	n.mu.Lock()
	n.subs = append(n.subs, subscription[E]{observer: observer, filter: filter, key: key})
	n.mu.Unlock()
}

// Unregister removes every subscription of observer, compared by interface
// equality with the value Register received.
func (n *Notifier[E]) Unregister(observer Observer[E]) {
	n.mu.Lock()
	orig := n.subs
	kept := orig[:0]
	for _, s := range orig {
		if s.observer != observer {
			kept = append(kept, s)
		}
	}
	clear(orig[len(kept):]) // drop references held by the vacated tail
	n.subs = kept
	n.mu.Unlock()
}

// Broadcast delivers event to every subscription whose filter matches.
// Subscriptions whose observer has expired are removed.
func (n *Notifier[E]) Broadcast(event E) {
	n.mu.Lock()
	orig := n.subs
	kept := orig[:0]
	for _, s := range orig {
		if x, ok := s.observer.(expirable); ok && x.expired() {
			continue
		}
		kept = append(kept, s)
		if s.filter == nil || s.filter.Filter(event) {
			s.observer.OnEvent(event, s.key)
		}
	}
	clear(orig[len(kept):])
	n.subs = kept
	n.mu.Unlock()
}
