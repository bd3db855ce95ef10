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
	"sync/atomic"
	"testing"
	"time"
)

// countingObserver counts event deliveries. Safe for concurrent broadcasts.
type countingObserver struct {
	n atomic.Int64
}

func (o *countingObserver) OnEvent(IoEvents, any) { o.n.Add(1) }

func (o *countingObserver) count() int { return int(o.n.Load()) }

// popOutcome carries one Pop's result out of a helper goroutine.
type popOutcome[T any] struct {
	item T
	err  error
}

// waitSignal fails the test unless ch is closed (or sent to) within d.
func waitSignal(t *testing.T, ch <-chan struct{}, d time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(d):
		t.Fatalf("timed out after %v waiting for %s", d, what)
	}
}
