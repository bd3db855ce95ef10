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
	"github.com/guzongmin/occlum/internal/errno"
	"github.com/guzongmin/occlum/internal/ringbuf"
)

// Producer is the writing endpoint of a channel. A Producer may be shared
// by several goroutines; its lock serializes their buffer access.
type Producer[T any] struct {
	*endpoint[*ringbuf.Producer[T]]
}

func newProducer[T any](inner *ringbuf.Producer[T], st *state) *Producer[T] {
	return &Producer[T]{endpoint: newEndpoint(inner, st)}
}

// Push appends item to the channel. While the buffer is full it blocks, or
// fails with EAGAIN if the endpoint is non-blocking. It fails with EPIPE
// once either end has shut down. On failure the caller still owns item and
// may retry with it.
func (p *Producer[T]) Push(item T) error {
	return waitFor(p.observer.Queue(), func() (bool, error) {
		p.mu.Lock()
		if p.state.isProducerShutdown() || p.state.isConsumerShutdown() {
			p.mu.Unlock()
			return true, errno.New(errno.EPIPE, "channel: one or both endpoints shut down")
		}
		if p.inner.Push(item) {
			p.mu.Unlock()
			p.notifier.Broadcast(EventIn)
			return true, nil
		}
		nonblocking := p.IsNonblocking()
		p.mu.Unlock()
		if nonblocking {
			return true, errno.New(errno.EAGAIN, "channel: push would block")
		}
		return false, nil
	})
}

// PushSlice copies as many leading items of items as currently fit and
// returns the count, at least one unless items is empty. A full buffer
// blocks (or fails with EAGAIN when non-blocking) until space appears;
// shutdown of either end fails with EPIPE.
func (p *Producer[T]) PushSlice(items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	count := 0
	err := waitFor(p.observer.Queue(), func() (bool, error) {
		p.mu.Lock()
		if p.state.isProducerShutdown() || p.state.isConsumerShutdown() {
			p.mu.Unlock()
			return true, errno.New(errno.EPIPE, "channel: one or both endpoints shut down")
		}
		if n := p.inner.PushSlice(items); n > 0 {
			p.mu.Unlock()
			p.notifier.Broadcast(EventIn)
			count = n
			return true, nil
		}
		nonblocking := p.IsNonblocking()
		p.mu.Unlock()
		if nonblocking {
			return true, errno.New(errno.EAGAIN, "channel: push would block")
		}
		return false, nil
	})
	return count, err
}

// Poll reports the endpoint's readiness without blocking: EventOut while
// the buffer has free space, EventHup once this end has shut down, and
// EventRdHup once the consuming end has.
func (p *Producer[T]) Poll() IoEvents {
	p.mu.Lock()
	writable := !p.inner.IsFull()
	p.mu.Unlock()

	var revents IoEvents
	if writable {
		revents |= EventOut
	}
	if p.state.isProducerShutdown() {
		revents |= EventHup
	}
	if p.state.isConsumerShutdown() {
		revents |= EventRdHup
	}
	return revents
}

// Shutdown closes the writing end. Items already buffered remain readable;
// further pushes fail with EPIPE. Shutdown is idempotent. Goroutines
// blocked on either endpoint observe the new state promptly.
func (p *Producer[T]) Shutdown() {
	// The flag flips under the buffer lock so no push can interleave
	// between a passed shutdown check and its buffer write.
	p.mu.Lock()
	p.state.setProducerShutdown()
	p.mu.Unlock()

	p.notifier.Broadcast(EventHup)
	p.observer.Queue().DequeueAndWakeAll()
}

// IsSelfShutdown reports whether this writing end has shut down.
func (p *Producer[T]) IsSelfShutdown() bool { return p.state.isProducerShutdown() }

// IsPeerShutdown reports whether the consuming end has shut down.
func (p *Producer[T]) IsPeerShutdown() bool { return p.state.isConsumerShutdown() }

// Len returns the number of items currently buffered.
func (p *Producer[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Len()
}

// Capacity returns the channel's fixed capacity.
func (p *Producer[T]) Capacity() int { return p.inner.Capacity() }
