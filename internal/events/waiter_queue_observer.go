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

import "weak"

// WaiterQueueObserver bridges event delivery to goroutine wakeup: every
// matching broadcast wakes the whole waiter queue it owns. The event value
// is not inspected; woken goroutines re-check their own conditions.
type WaiterQueueObserver[E any] struct {
	queue WaiterQueue
}

// NewWaiterQueueObserver returns an observer with an empty queue.
func NewWaiterQueueObserver[E any]() *WaiterQueueObserver[E] {
	return &WaiterQueueObserver[E]{}
}

// Queue returns the waiter queue this observer wakes.
func (o *WaiterQueueObserver[E]) Queue() *WaiterQueue { return &o.queue }

// OnEvent implements Observer by waking every parked waiter.
func (o *WaiterQueueObserver[E]) OnEvent(E, any) {
	o.queue.DequeueAndWakeAll()
}

// Weak returns a registration handle that delivers to o without keeping o
// reachable. Once o is collected the handle expires and the notifier it was
// registered on drops the subscription at the next broadcast.
func (o *WaiterQueueObserver[E]) Weak() Observer[E] {
	return weakObserver[E]{ptr: weak.Make(o)}
}

type weakObserver[E any] struct {
	ptr weak.Pointer[WaiterQueueObserver[E]]
}

func (w weakObserver[E]) OnEvent(event E, key any) {
	if o := w.ptr.Value(); o != nil {
		o.OnEvent(event, key)
	}
}

func (w weakObserver[E]) expired() bool { return w.ptr.Value() == nil }
