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

// Package errno tags errors with the POSIX error number an emulated syscall
// must surface. Every fault that crosses the libos boundary carries an errno
// plus a context message; errors.Is sees through both to the underlying
// unix.Errno value.
package errno

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Error numbers raised by the fd subsystem, aliased so call sites read like
// their kernel counterparts.
const (
	EINVAL    = unix.EINVAL
	EAGAIN    = unix.EAGAIN
	EPIPE     = unix.EPIPE
	ETIMEDOUT = unix.ETIMEDOUT
)

// Error is an errno-tagged error.
type Error struct {
	errno unix.Errno
	msg   string
}

// New returns an Error tagging msg with e.
func New(e unix.Errno, msg string) *Error {
	return &Error{errno: e, msg: msg}
}

// Errorf is New with the message built by fmt.Sprintf.
func Errorf(e unix.Errno, format string, args ...any) *Error {
	return &Error{errno: e, msg: fmt.Sprintf(format, args...)}
}

// Errno returns the POSIX error number carried by e.
func (e *Error) Errno() unix.Errno { return e.errno }

func (e *Error) Error() string {
	if e.msg == "" {
		return e.errno.Error()
	}
	return e.msg + ": " + e.errno.Error()
}

// Unwrap exposes the underlying errno to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.errno }

// Of extracts the error number carried anywhere in err's chain. The second
// return is false when err carries no errno at all.
func Of(err error) (unix.Errno, bool) {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.errno, true
	}
	var raw unix.Errno
	if errors.As(err, &raw) {
		return raw, true
	}
	return 0, false
}
