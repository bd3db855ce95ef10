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

// Channel is a bounded, unidirectional conduit from one Producer to one
// Consumer. It is the building block for pipes (one channel) and Unix
// domain sockets (one channel per direction).
type Channel[T any] struct {
	producer *Producer[T]
	consumer *Consumer[T]
}

// New creates a channel buffering at most capacity items. It fails with
// EINVAL when capacity < 1.
func New[T any](capacity int) (*Channel[T], error) {
	rbProducer, rbConsumer, err := ringbuf.New[T](capacity)
	if err != nil {
		return nil, errno.Errorf(errno.EINVAL, "channel: %v", err)
	}

	st := &state{}
	producer := newProducer(rbProducer, st)
	consumer := newConsumer(rbConsumer, st)

	// Cross-register so each side's readiness events wake goroutines parked
	// on the other side. The registrations are weak: an endpoint dropped by
	// its owner must not stay alive through its peer's notifier.
	producer.Notifier().Register(consumer.observer.Weak(), nil, nil)
	consumer.Notifier().Register(producer.observer.Weak(), nil, nil)

	return &Channel[T]{producer: producer, consumer: consumer}, nil
}

// Split hands out the channel's two endpoints for independent ownership,
// typically by two different file objects. The Channel must not be used
// after Split.
func (ch *Channel[T]) Split() (*Producer[T], *Consumer[T]) {
	producer, consumer := ch.producer, ch.consumer
	ch.producer, ch.consumer = nil, nil
	return producer, consumer
}

// Push appends item through the producing end. See Producer.Push.
func (ch *Channel[T]) Push(item T) error { return ch.producer.Push(item) }

// PushSlice copies items in through the producing end. See
// Producer.PushSlice.
func (ch *Channel[T]) PushSlice(items []T) (int, error) { return ch.producer.PushSlice(items) }

// Pop removes the oldest item through the consuming end. See Consumer.Pop.
func (ch *Channel[T]) Pop() (T, error) { return ch.consumer.Pop() }

// PopSlice drains items out through the consuming end. See
// Consumer.PopSlice.
func (ch *Channel[T]) PopSlice(items []T) (int, error) { return ch.consumer.PopSlice(items) }

// Shutdown closes both ends at once.
func (ch *Channel[T]) Shutdown() {
	ch.producer.Shutdown()
	ch.consumer.Shutdown()
}

// Len returns the number of items currently buffered.
func (ch *Channel[T]) Len() int { return ch.consumer.Len() }

// Capacity returns the channel's fixed capacity.
func (ch *Channel[T]) Capacity() int { return ch.producer.Capacity() }
