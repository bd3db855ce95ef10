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

// Package ringbuf implements the fixed-capacity single-producer
// single-consumer ring buffer backing the fd subsystem's channels.
//
// The ring is lock-free for its intended use: one goroutine driving the
// Producer half and one driving the Consumer half, concurrently. Neither
// half ever blocks; full and empty are reported to the caller, and any
// waiting policy lives above this package.
package ringbuf

import (
	"errors"
	"sync/atomic"
)

// ring is the storage shared by the two halves. The write and read cursors
// grow monotonically and are reduced modulo len(buf) only when indexing, so
// used = w - r stays correct across wraparound. len(buf) is a power of two
// at least as large as the logical capacity; fullness is judged against the
// logical capacity, not the allocation.
type ring[T any] struct {
	w atomic.Uint64 // next write position, advanced only by the Producer
	r atomic.Uint64 // next read position, advanced only by the Consumer

	buf      []T
	mask     uint64
	capacity uint64
}

// Producer is the writing half of a ring. Its methods may race with the
// Consumer's but not with each other.
type Producer[T any] struct {
	ring *ring[T]
}

// Consumer is the reading half of a ring. Its methods may race with the
// Producer's but not with each other.
type Consumer[T any] struct {
	ring *ring[T]
}

// New allocates a ring holding at most capacity items and returns its two
// halves.
func New[T any](capacity int) (*Producer[T], *Consumer[T], error) {
	if capacity < 1 {
		return nil, nil, errors.New("ringbuf: capacity must be positive")
	}
	n := roundUpPowerOfTwo(uint64(capacity))
	rg := &ring[T]{
		buf:      make([]T, n),
		mask:     n - 1,
		capacity: uint64(capacity),
	}
	return &Producer[T]{ring: rg}, &Consumer[T]{ring: rg}, nil
}

// roundUpPowerOfTwo returns the smallest power of two >= n.
func roundUpPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

func (rg *ring[T]) used() uint64 {
	return rg.w.Load() - rg.r.Load()
}

// Capacity returns the fixed number of items the ring can hold.
func (p *Producer[T]) Capacity() int { return int(p.ring.capacity) }

// Len returns the number of items currently buffered.
func (p *Producer[T]) Len() int { return int(p.ring.used()) }

// Free returns how many more items fit right now.
func (p *Producer[T]) Free() int { return int(p.ring.capacity - p.ring.used()) }

// IsFull reports whether no more items fit.
func (p *Producer[T]) IsFull() bool { return p.ring.used() >= p.ring.capacity }

// Push appends item to the ring. It reports false, leaving the ring
// untouched, when the ring is full.
func (p *Producer[T]) Push(item T) bool {
	rg := p.ring
	w := rg.w.Load()
	if w-rg.r.Load() >= rg.capacity {
		return false
	}
	rg.buf[w&rg.mask] = item
	rg.w.Store(w + 1)
	return true
}

// PushSlice copies as many leading items as fit into the ring and returns
// the count, zero when the ring is full.
func (p *Producer[T]) PushSlice(items []T) int {
	rg := p.ring
	w := rg.w.Load()
	free := rg.capacity - (w - rg.r.Load())
	n := uint64(len(items))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	// At most two copies: up to the end of the backing array, then the rest
	// from its start.
	start := w & rg.mask
	first := uint64(len(rg.buf)) - start
	if first > n {
		first = n
	}
	copy(rg.buf[start:], items[:first])
	copy(rg.buf, items[first:n])

	rg.w.Store(w + n)
	return int(n)
}

// Capacity returns the fixed number of items the ring can hold.
func (c *Consumer[T]) Capacity() int { return int(c.ring.capacity) }

// Len returns the number of items currently buffered.
func (c *Consumer[T]) Len() int { return int(c.ring.used()) }

// IsEmpty reports whether nothing is buffered.
func (c *Consumer[T]) IsEmpty() bool { return c.ring.used() == 0 }

// Pop removes and returns the oldest item. ok is false when the ring is
// empty.
func (c *Consumer[T]) Pop() (item T, ok bool) {
	rg := c.ring
	r := rg.r.Load()
	if rg.w.Load() == r {
		return item, false
	}

	idx := r & rg.mask
	item = rg.buf[idx]
	var zero T
	rg.buf[idx] = zero // release the slot's reference before handing it back

	rg.r.Store(r + 1)
	return item, true
}

// PopSlice moves up to len(items) buffered items into items and returns the
// count, zero when the ring is empty.
func (c *Consumer[T]) PopSlice(items []T) int {
	rg := c.ring
	r := rg.r.Load()
	n := rg.w.Load() - r
	if m := uint64(len(items)); n > m {
		n = m
	}
	if n == 0 {
		return 0
	}

	start := r & rg.mask
	first := uint64(len(rg.buf)) - start
	if first > n {
		first = n
	}
	copy(items, rg.buf[start:start+first])
	copy(items[first:n], rg.buf[:n-first])
	clear(rg.buf[start : start+first])
	clear(rg.buf[:n-first])

	rg.r.Store(r + n)
	return int(n)
}
