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
	"fmt"
	"strings"

	"github.com/guzongmin/occlum/internal/events"
)

// IoEvents is a set of readiness events on a file. The bit values match the
// Linux epoll ABI so the poll, select, and epoll emulation layers can pass
// them through unchanged.
type IoEvents uint32

const (
	EventIn    IoEvents = 0x0001 // data available for reading
	EventPri   IoEvents = 0x0002 // exceptional condition
	EventOut   IoEvents = 0x0004 // space available for writing
	EventErr   IoEvents = 0x0008 // error condition
	EventHup   IoEvents = 0x0010 // writing side hung up
	EventNVal  IoEvents = 0x0020 // file not open
	EventRdHup IoEvents = 0x2000 // reading side hung up
)

var eventNames = []struct {
	bit  IoEvents
	name string
}{
	{EventIn, "IN"},
	{EventPri, "PRI"},
	{EventOut, "OUT"},
	{EventErr, "ERR"},
	{EventHup, "HUP"},
	{EventNVal, "NVAL"},
	{EventRdHup, "RDHUP"},
}

// String renders the set as "IN|OUT" style for diagnostics.
func (e IoEvents) String() string {
	if e == 0 {
		return "0"
	}
	var b strings.Builder
	rest := e
	for _, n := range eventNames {
		if rest&n.bit == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(n.name)
		rest &^= n.bit
	}
	if rest != 0 {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%#x", uint32(rest))
	}
	return b.String()
}

// IoNotifier broadcasts IoEvents to registered observers.
type IoNotifier = events.Notifier[IoEvents]

// IoObserver receives IoEvents broadcasts.
type IoObserver = events.Observer[IoEvents]

// IoEventsFilter passes only events that intersect its mask.
type IoEventsFilter IoEvents

// Filter implements events.Filter.
func (f IoEventsFilter) Filter(e IoEvents) bool { return e&IoEvents(f) != 0 }
