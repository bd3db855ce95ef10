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
	"errors"
	"io"
	"testing"

	"golang.org/x/sys/unix"
)

// A producer shutdown leaves buffered items readable; the consumer drains
// them and only then sees end of stream.
func TestProducerShutdownDrainsThenEOF(t *testing.T) {
	producer, consumer := newSplit[int](t, 8)

	for i := 0; i < 3; i++ {
		if err := producer.Push(i); err != nil {
			t.Fatalf("Push(%d) failed: %v", i, err)
		}
	}
	producer.Shutdown()

	for i := 0; i < 3; i++ {
		item, err := consumer.Pop()
		if err != nil {
			t.Fatalf("Pop %d after shutdown failed: %v", i, err)
		}
		if item != i {
			t.Errorf("Pop %d = %d, want %d", i, item, i)
		}
	}

	// Drained: clean end of stream, not a failure errno.
	if _, err := consumer.Pop(); !errors.Is(err, io.EOF) {
		t.Fatalf("Pop on drained shut-down channel = %v, want io.EOF", err)
	}
	if _, err := consumer.Pop(); !errors.Is(err, io.EOF) {
		t.Fatal("end of stream is not sticky across repeated pops")
	}
}

// End of stream must arrive immediately, without blocking, even when
// nothing was ever pushed.
func TestProducerShutdownEmptyBufferImmediateEOF(t *testing.T) {
	producer, consumer := newSplit[int](t, 8)
	producer.Shutdown()

	if _, err := consumer.Pop(); !errors.Is(err, io.EOF) {
		t.Fatalf("Pop = %v, want io.EOF", err)
	}

	n, err := consumer.PopSlice(make([]int, 4))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("PopSlice = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestPushAfterProducerShutdownFailsEPIPE(t *testing.T) {
	producer, _ := newSplit[int](t, 8)
	producer.Shutdown()

	if err := producer.Push(1); !errors.Is(err, unix.EPIPE) {
		t.Fatalf("Push after own shutdown = %v, want EPIPE", err)
	}
	n, err := producer.PushSlice([]int{1, 2})
	if n != 0 || !errors.Is(err, unix.EPIPE) {
		t.Fatalf("PushSlice after own shutdown = (%d, %v), want (0, EPIPE)", n, err)
	}
}

// Pushing into a channel whose consumer is gone fails with EPIPE no matter
// how much free capacity remains.
func TestPushAfterConsumerShutdownFailsEPIPE(t *testing.T) {
	producer, consumer := newSplit[int](t, 8)
	consumer.Shutdown()

	if err := producer.Push(1); !errors.Is(err, unix.EPIPE) {
		t.Fatalf("Push after consumer shutdown = %v, want EPIPE", err)
	}
}

// Reading from a shut-down reader is an error even while items remain
// buffered; the data is simply lost, as with a closed pipe read end.
func TestPopAfterOwnShutdownFailsEPIPEEvenWithData(t *testing.T) {
	producer, consumer := newSplit[int](t, 8)

	if err := producer.Push(42); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	consumer.Shutdown()

	_, err := consumer.Pop()
	if !errors.Is(err, unix.EPIPE) {
		t.Fatalf("Pop after own shutdown = %v, want EPIPE", err)
	}
	if errors.Is(err, io.EOF) {
		t.Fatal("reader-side shutdown must not masquerade as end of stream")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	producer, consumer := newSplit[int](t, 4)

	producer.Shutdown()
	producer.Shutdown()
	consumer.Shutdown()
	consumer.Shutdown()

	if !producer.IsSelfShutdown() || !consumer.IsSelfShutdown() {
		t.Error("shutdown state lost after repeated Shutdown calls")
	}
}

// A second Shutdown still broadcasts its hang-up event to observers.
func TestRepeatedShutdownStillBroadcasts(t *testing.T) {
	producer, _ := newSplit[int](t, 4)
	producer.Shutdown()

	obs := &countingObserver{}
	producer.Notifier().Register(obs, IoEventsFilter(EventHup), nil)

	producer.Shutdown()
	if got := obs.count(); got != 1 {
		t.Fatalf("observer saw %d hang-up events from repeated Shutdown, want 1", got)
	}
}

func TestShutdownVisibilityAcrossEndpoints(t *testing.T) {
	producer, consumer := newSplit[int](t, 4)

	if producer.IsSelfShutdown() || producer.IsPeerShutdown() ||
		consumer.IsSelfShutdown() || consumer.IsPeerShutdown() {
		t.Fatal("fresh channel reports a shut-down endpoint")
	}

	producer.Shutdown()
	if !producer.IsSelfShutdown() {
		t.Error("producer.IsSelfShutdown() = false after its Shutdown")
	}
	if !consumer.IsPeerShutdown() {
		t.Error("consumer.IsPeerShutdown() = false after producer Shutdown")
	}
	if producer.IsPeerShutdown() || consumer.IsSelfShutdown() {
		t.Error("consumer-side flags flipped by producer Shutdown")
	}

	consumer.Shutdown()
	if !producer.IsPeerShutdown() || !consumer.IsSelfShutdown() {
		t.Error("consumer Shutdown not visible on both endpoints")
	}
}

func TestChannelShutdownClosesBothEnds(t *testing.T) {
	ch, err := New[int](4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ch.Shutdown()

	if err := ch.Push(1); !errors.Is(err, unix.EPIPE) {
		t.Errorf("Push after channel Shutdown = %v, want EPIPE", err)
	}
	// The consumer's own shutdown dominates the drained-peer case.
	if _, err := ch.Pop(); !errors.Is(err, unix.EPIPE) {
		t.Errorf("Pop after channel Shutdown = %v, want EPIPE", err)
	}
}

func TestPollFreshChannel(t *testing.T) {
	producer, consumer := newSplit[int](t, 2)

	if got := producer.Poll(); got != EventOut {
		t.Errorf("producer.Poll() = %v, want OUT", got)
	}
	if got := consumer.Poll(); got != 0 {
		t.Errorf("consumer.Poll() = %v, want 0", got)
	}
}

func TestPollTracksBufferFill(t *testing.T) {
	producer, consumer := newSplit[int](t, 2)

	if err := producer.Push(1); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if got := consumer.Poll(); got != EventIn {
		t.Errorf("consumer.Poll() with data = %v, want IN", got)
	}
	if got := producer.Poll(); got != EventOut {
		t.Errorf("producer.Poll() below capacity = %v, want OUT", got)
	}

	if err := producer.Push(2); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if got := producer.Poll(); got != 0 {
		t.Errorf("producer.Poll() at capacity = %v, want 0", got)
	}

	if _, err := consumer.Pop(); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if got := producer.Poll(); got != EventOut {
		t.Errorf("producer.Poll() after pop = %v, want OUT", got)
	}
}

func TestPollAfterProducerShutdown(t *testing.T) {
	producer, consumer := newSplit[int](t, 2)
	if err := producer.Push(1); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	producer.Shutdown()

	if got := producer.Poll(); got != EventOut|EventHup {
		t.Errorf("producer.Poll() = %v, want OUT|HUP", got)
	}
	// Buffered data stays readable alongside the peer hang-up.
	if got := consumer.Poll(); got != EventIn|EventHup {
		t.Errorf("consumer.Poll() = %v, want IN|HUP", got)
	}
}

func TestPollAfterConsumerShutdown(t *testing.T) {
	producer, consumer := newSplit[int](t, 2)
	consumer.Shutdown()

	if got := producer.Poll(); got != EventOut|EventRdHup {
		t.Errorf("producer.Poll() = %v, want OUT|RDHUP", got)
	}
	if got := consumer.Poll(); got != EventRdHup {
		t.Errorf("consumer.Poll() = %v, want RDHUP", got)
	}
}
