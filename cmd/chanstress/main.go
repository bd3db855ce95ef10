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

// Command chanstress exercises the fd channel primitives from outside the
// test suite: a producer/consumer pair racing through a small buffer, the
// non-blocking backpressure path, and a byte pipe driven by io.Copy. Useful
// for eyeballing throughput and for reproducing wakeup bugs under load.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/guzongmin/occlum/internal/fs/channel"
	"github.com/guzongmin/occlum/internal/fs/pipe"
)

func main() {
	capacity := flag.Int("capacity", 64, "channel capacity in items")
	count := flag.Int("count", 1_000_000, "items to transfer")
	jitter := flag.Duration("jitter", 0, "max random delay injected into each side")
	nonblocking := flag.Bool("nonblocking", false, "spin on EAGAIN instead of parking")
	pipeBytes := flag.Int("pipe-bytes", 16*1024*1024, "bytes to move through the pipe stage")
	flag.Parse()

	if err := runChannelStage(*capacity, *count, *jitter, *nonblocking); err != nil {
		log.Fatalf("channel stage failed: %v", err)
	}
	if err := runBackpressureStage(*capacity); err != nil {
		log.Fatalf("backpressure stage failed: %v", err)
	}
	if err := runPipeStage(*pipeBytes); err != nil {
		log.Fatalf("pipe stage failed: %v", err)
	}
}

func runChannelStage(capacity, count int, jitter time.Duration, nonblocking bool) error {
	fmt.Printf("=== Channel Transfer ===\n")
	fmt.Printf("capacity: %d items, count: %d, jitter: %v, nonblocking: %v\n",
		capacity, count, jitter, nonblocking)

	ch, err := channel.New[uint64](capacity)
	if err != nil {
		return err
	}
	producer, consumer := ch.Split()
	if nonblocking {
		producer.SetNonblocking(true)
		consumer.SetNonblocking(true)
	}

	start := time.Now()
	pushRetries := make(chan uint64, 1)
	go func() {
		var retries uint64
		for i := 0; i < count; i++ {
			for {
				err := producer.Push(uint64(i))
				if err == nil {
					break
				}
				if !errors.Is(err, unix.EAGAIN) {
					log.Fatalf("push %d failed: %v", i, err)
				}
				retries++
				runtime.Gosched()
			}
			sleepJitter(jitter)
		}
		producer.Shutdown()
		pushRetries <- retries
	}()

	var popRetries uint64
	received := 0
	for {
		item, err := consumer.Pop()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, unix.EAGAIN) {
				popRetries++
				runtime.Gosched()
				continue
			}
			return fmt.Errorf("pop %d: %w", received, err)
		}
		if item != uint64(received) {
			return fmt.Errorf("pop %d returned %d, want %d", received, item, received)
		}
		received++
		sleepJitter(jitter)
	}
	if received != count {
		return fmt.Errorf("received %d items, want %d", received, count)
	}

	elapsed := time.Since(start)
	fmt.Printf("transferred %d items in %v (%.0f items/s)\n",
		count, elapsed.Round(time.Millisecond), float64(count)/elapsed.Seconds())
	fmt.Printf("push retries: %d, pop retries: %d\n", <-pushRetries, popRetries)
	return nil
}

// sleepJitter sleeps a random duration up to max. Sleeping every iteration
// would serialize the two sides completely, so only a sparse fraction of
// iterations pay it.
func sleepJitter(max time.Duration) {
	if max <= 0 {
		return
	}
	if rand.IntN(64) == 0 {
		time.Sleep(time.Duration(rand.Int64N(int64(max))))
	}
}

func runBackpressureStage(capacity int) error {
	fmt.Printf("\n=== Backpressure ===\n")

	ch, err := channel.New[uint64](capacity)
	if err != nil {
		return err
	}
	producer, consumer := ch.Split()
	producer.SetNonblocking(true)

	pushed := 0
	for {
		if err := producer.Push(uint64(pushed)); err != nil {
			if !errors.Is(err, unix.EAGAIN) {
				return fmt.Errorf("push %d: %w", pushed, err)
			}
			break
		}
		pushed++
	}
	fmt.Printf("accepted %d items before EAGAIN (capacity %d)\n", pushed, capacity)
	if pushed != capacity {
		return fmt.Errorf("buffer admitted %d items, capacity is %d", pushed, capacity)
	}

	if _, err := consumer.Pop(); err != nil {
		return fmt.Errorf("drain pop: %w", err)
	}
	if err := producer.Push(uint64(pushed)); err != nil {
		return fmt.Errorf("push after pop: %w", err)
	}
	fmt.Printf("one pop reopened exactly one slot\n")
	return nil
}

func runPipeStage(total int) error {
	fmt.Printf("\n=== Pipe Copy ===\n")

	r, w, err := pipe.New(64 * 1024)
	if err != nil {
		return err
	}

	payload := make([]byte, total)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	start := time.Now()
	writeErr := make(chan error, 1)
	go func() {
		_, err := w.Write(payload)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		writeErr <- err
	}()

	var sink bytes.Buffer
	copied, err := io.Copy(&sink, r)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err := <-writeErr; err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if copied != int64(total) || !bytes.Equal(sink.Bytes(), payload) {
		return fmt.Errorf("pipe moved %d bytes, want %d intact", copied, total)
	}

	elapsed := time.Since(start)
	fmt.Printf("copied %d MiB in %v (%.1f MiB/s)\n",
		total>>20, elapsed.Round(time.Millisecond),
		float64(total)/(1<<20)/elapsed.Seconds())
	return nil
}
