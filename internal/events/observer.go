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

package events

// Observer receives the events broadcast by a Notifier it is registered on.
//
// Observer values are compared by interface equality when unregistering, so
// the dynamic type must be comparable (pointers and small structs are; func
// values are not).
type Observer[E any] interface {
	// OnEvent is called once per matching broadcast, together with the key
	// supplied at registration time.
	OnEvent(event E, key any)
}

// Filter restricts which broadcasts a registration receives.
type Filter[E any] interface {
	Filter(event E) bool
}
