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
	"testing"

	"golang.org/x/sys/unix"
)

// The event bits are part of the emulated ABI: they must line up with the
// kernel's poll bit values so the poll/epoll emulation can pass them
// through without translation.
func TestEventBitsMatchPollABI(t *testing.T) {
	cases := []struct {
		event IoEvents
		abi   IoEvents
		name  string
	}{
		{EventIn, IoEvents(unix.POLLIN), "IN"},
		{EventPri, IoEvents(unix.POLLPRI), "PRI"},
		{EventOut, IoEvents(unix.POLLOUT), "OUT"},
		{EventErr, IoEvents(unix.POLLERR), "ERR"},
		{EventHup, IoEvents(unix.POLLHUP), "HUP"},
		{EventNVal, IoEvents(unix.POLLNVAL), "NVAL"},
		{EventRdHup, IoEvents(unix.POLLRDHUP), "RDHUP"},
	}
	for _, c := range cases {
		if c.event != c.abi {
			t.Errorf("%s = %#x, want ABI value %#x", c.name, uint32(c.event), uint32(c.abi))
		}
	}
}

func TestIoEventsString(t *testing.T) {
	cases := []struct {
		events IoEvents
		want   string
	}{
		{0, "0"},
		{EventIn, "IN"},
		{EventIn | EventOut, "IN|OUT"},
		{EventIn | EventHup | EventRdHup, "IN|HUP|RDHUP"},
		{IoEvents(0x8000), "0x8000"},
		{EventOut | IoEvents(0x8000), "OUT|0x8000"},
	}
	for _, c := range cases {
		if got := c.events.String(); got != c.want {
			t.Errorf("String(%#x) = %q, want %q", uint32(c.events), got, c.want)
		}
	}
}

func TestIoEventsFilter(t *testing.T) {
	f := IoEventsFilter(EventIn | EventHup)

	if !f.Filter(EventIn) {
		t.Error("filter rejected IN")
	}
	if !f.Filter(EventIn | EventOut) {
		t.Error("filter rejected a set intersecting its mask")
	}
	if f.Filter(EventOut) {
		t.Error("filter accepted OUT outside its mask")
	}
	if f.Filter(0) {
		t.Error("filter accepted the empty set")
	}
}

// Readiness broadcasts are observable by external pollers registered on an
// endpoint's notifier, filtered by their mask.
func TestEndpointBroadcastsReachObservers(t *testing.T) {
	producer, consumer := newSplit[int](t, 2)

	pushes := &countingObserver{}
	pops := &countingObserver{}
	producer.Notifier().Register(pushes, IoEventsFilter(EventIn), nil)
	consumer.Notifier().Register(pops, IoEventsFilter(EventOut), nil)

	if err := producer.Push(1); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if err := producer.Push(2); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if _, err := consumer.Pop(); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}

	if got := pushes.count(); got != 2 {
		t.Errorf("observer saw %d readable events, want 2", got)
	}
	if got := pops.count(); got != 1 {
		t.Errorf("observer saw %d writable events, want 1", got)
	}
}
