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
	"io"

	"github.com/guzongmin/occlum/internal/errno"
	"github.com/guzongmin/occlum/internal/ringbuf"
)

// Consumer is the reading endpoint of a channel. A Consumer may be shared
// by several goroutines; its lock serializes their buffer access.
type Consumer[T any] struct {
	*endpoint[*ringbuf.Consumer[T]]
}

func newConsumer[T any](inner *ringbuf.Consumer[T], st *state) *Consumer[T] {
	return &Consumer[T]{endpoint: newEndpoint(inner, st)}
}

// Pop removes and returns the oldest buffered item. While the buffer is
// empty it blocks, or fails with EAGAIN if the endpoint is non-blocking.
// Once the producing end has shut down and the buffer has drained, Pop
// returns io.EOF. A consumer that itself has shut down fails with EPIPE
// even while items remain buffered.
func (c *Consumer[T]) Pop() (T, error) {
	var item T
	err := waitFor(c.observer.Queue(), func() (bool, error) {
		c.mu.Lock()
		if c.state.isConsumerShutdown() {
			c.mu.Unlock()
			return true, errno.New(errno.EPIPE, "channel: consumer endpoint shut down")
		}
		if popped, ok := c.inner.Pop(); ok {
			c.mu.Unlock()
			c.notifier.Broadcast(EventOut)
			item = popped
			return true, nil
		}
		if c.state.isProducerShutdown() {
			c.mu.Unlock()
			return true, io.EOF
		}
		nonblocking := c.IsNonblocking()
		c.mu.Unlock()
		if nonblocking {
			return true, errno.New(errno.EAGAIN, "channel: pop would block")
		}
		return false, nil
	})
	return item, err
}

// PopSlice fills items with up to len(items) buffered items and returns the
// count, at least one unless items is empty. An empty buffer blocks (or
// fails with EAGAIN when non-blocking) until items arrive, and yields io.EOF
// once the producing end has shut down and the buffer has drained.
func (c *Consumer[T]) PopSlice(items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	count := 0
	err := waitFor(c.observer.Queue(), func() (bool, error) {
		c.mu.Lock()
		if c.state.isConsumerShutdown() {
			c.mu.Unlock()
			return true, errno.New(errno.EPIPE, "channel: consumer endpoint shut down")
		}
		if n := c.inner.PopSlice(items); n > 0 {
			c.mu.Unlock()
			c.notifier.Broadcast(EventOut)
			count = n
			return true, nil
		}
		if c.state.isProducerShutdown() {
			c.mu.Unlock()
			return true, io.EOF
		}
		nonblocking := c.IsNonblocking()
		c.mu.Unlock()
		if nonblocking {
			return true, errno.New(errno.EAGAIN, "channel: pop would block")
		}
		return false, nil
	})
	return count, err
}

// Poll reports the endpoint's readiness without blocking: EventIn while
// items are buffered, EventRdHup once this end has shut down, and EventHup
// once the producing end has.
func (c *Consumer[T]) Poll() IoEvents {
	c.mu.Lock()
	readable := !c.inner.IsEmpty()
	c.mu.Unlock()

	var revents IoEvents
	if readable {
		revents |= EventIn
	}
	if c.state.isConsumerShutdown() {
		revents |= EventRdHup
	}
	if c.state.isProducerShutdown() {
		revents |= EventHup
	}
	return revents
}

// Shutdown closes the reading end. Further pops fail with EPIPE and pushes
// by the peer fail likewise. Shutdown is idempotent. Goroutines blocked on
// either endpoint observe the new state promptly.
func (c *Consumer[T]) Shutdown() {
	// The flag flips under the buffer lock so no pop can interleave
	// between a passed shutdown check and its buffer read.
	c.mu.Lock()
	c.state.setConsumerShutdown()
	c.mu.Unlock()

	c.notifier.Broadcast(EventRdHup)
	c.observer.Queue().DequeueAndWakeAll()
}

// IsSelfShutdown reports whether this reading end has shut down.
func (c *Consumer[T]) IsSelfShutdown() bool { return c.state.isConsumerShutdown() }

// IsPeerShutdown reports whether the producing end has shut down.
func (c *Consumer[T]) IsPeerShutdown() bool { return c.state.isProducerShutdown() }

// Len returns the number of items currently buffered.
func (c *Consumer[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}

// Capacity returns the channel's fixed capacity.
func (c *Consumer[T]) Capacity() int { return c.inner.Capacity() }
