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

// Package channel implements the bounded, unidirectional channel that backs
// pipe-like and socket-like files inside the libos.
//
// A channel couples one Producer endpoint to one Consumer endpoint through a
// fixed-capacity ring buffer, reproducing POSIX pipe semantics entirely in
// user space: blocking and non-blocking transfers, partial slice I/O,
// independent shutdown of either end, and epoll-style readiness events for
// the poll emulation layers.
//
// Blocking operations never spin. A goroutine that finds the buffer full
// (push) or empty (pop) parks itself on its endpoint's waiter queue and is
// woken by the peer making progress, by either end shutting down, or by its
// endpoint switching to non-blocking mode. The park path re-checks the
// condition after enqueueing itself and again after every wakeup, which
// closes the classic window between observing "no progress possible" and
// going to sleep.
//
// Each endpoint owns a notifier that broadcasts the endpoint's readiness
// transitions: a successful push announces EventIn (data to read), a
// successful pop announces EventOut (space to write), and shutdown announces
// EventHup or EventRdHup. The two endpoints of a channel register on each
// other's notifiers at construction so that progress on one side wakes
// goroutines parked on the other. Those cross-registrations are weak; an
// endpoint dropped by its owner does not stay reachable through its peer.
//
// Item mutation is always published before the event that announces it: an
// operation updates the ring under the endpoint's lock, releases the lock,
// and only then broadcasts. An observer that polls the channel from inside
// its event handler therefore always sees the state the event advertised.
package channel
