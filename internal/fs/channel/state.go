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

import "sync/atomic"

// state records which ends of a channel have shut down. Both endpoints
// share one state and consult it on every operation. The flags are
// monotonic: set once, never cleared.
type state struct {
	producerShutdown atomic.Bool
	consumerShutdown atomic.Bool
}

func (s *state) isProducerShutdown() bool { return s.producerShutdown.Load() }
func (s *state) isConsumerShutdown() bool { return s.consumerShutdown.Load() }

func (s *state) setProducerShutdown() { s.producerShutdown.Store(true) }
func (s *state) setConsumerShutdown() { s.consumerShutdown.Store(true) }
