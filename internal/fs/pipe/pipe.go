/*
 *
 * Copyright 2026 Occlum authors.
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

// Package pipe adapts a byte channel into the reader/writer pair behind
// pipe(2)-style descriptors.
package pipe

import (
	"github.com/guzongmin/occlum/internal/fs/channel"
)

// New returns the two ends of a pipe buffering at most capacity bytes.
func New(capacity int) (*Reader, *Writer, error) {
	ch, err := channel.New[byte](capacity)
	if err != nil {
		return nil, nil, err
	}
	producer, consumer := ch.Split()
	return &Reader{consumer: consumer}, &Writer{producer: producer}, nil
}

// Reader is the reading end of a pipe. It implements io.ReadCloser.
type Reader struct {
	consumer *channel.Consumer[byte]
}

// Read fills p with at least one byte, blocking while the pipe is empty.
// It returns io.EOF once the writer has closed and the buffer has drained,
// EAGAIN when the reader is non-blocking and the pipe is empty, and EPIPE
// if the reader itself has been closed.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return r.consumer.PopSlice(p)
}

// Close shuts down the reading end: the writer's next write fails with
// EPIPE. Close is idempotent and never fails.
func (r *Reader) Close() error {
	r.consumer.Shutdown()
	return nil
}

// SetNonblocking switches the reading end's blocking mode.
func (r *Reader) SetNonblocking(nonblocking bool) {
	r.consumer.SetNonblocking(nonblocking)
}

// Poll reports the reading end's readiness.
func (r *Reader) Poll() channel.IoEvents { return r.consumer.Poll() }

// Notifier exposes the reading end's readiness notifier for pollers.
func (r *Reader) Notifier() *channel.IoNotifier { return r.consumer.Notifier() }

// Writer is the writing end of a pipe. It implements io.WriteCloser.
type Writer struct {
	producer *channel.Producer[byte]
}

// Write queues all of p, blocking for buffer space as needed. A
// non-blocking writer stops at the first full-buffer condition and reports
// the bytes written so far with EAGAIN; a closed pipe fails the remainder
// with EPIPE. Write only returns n < len(p) together with an error.
func (w *Writer) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.producer.PushSlice(p[written:])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Close shuts down the writing end: the reader drains what is buffered and
// then sees io.EOF. Close is idempotent and never fails.
func (w *Writer) Close() error {
	w.producer.Shutdown()
	return nil
}

// SetNonblocking switches the writing end's blocking mode.
func (w *Writer) SetNonblocking(nonblocking bool) {
	w.producer.SetNonblocking(nonblocking)
}

// Poll reports the writing end's readiness.
func (w *Writer) Poll() channel.IoEvents { return w.producer.Poll() }

// Notifier exposes the writing end's readiness notifier for pollers.
func (w *Writer) Notifier() *channel.IoNotifier { return w.producer.Notifier() }
