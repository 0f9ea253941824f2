package galaxy

import (
	"sync"
	"time"
)

// Scheduler runs frame callbacks, one frame at a time. Callbacks requested
// while a frame is running fire on the next frame.
type Scheduler interface {
	RequestFrame(func())
}

// ManualScheduler queues callbacks until Step is called. It is used by tests
// and by the CLI, which renders frames as fast as possible.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) RequestFrame(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, cb)
}

// Step fires all callbacks queued before the call and returns their number.
func (s *ManualScheduler) Step() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, cb := range queue {
		cb()
	}
	return len(queue)
}

// Run steps up to frames times and stops early once nothing is queued. It
// returns the number of callbacks fired.
func (s *ManualScheduler) Run(frames int) int {
	fired := 0
	for i := 0; i < frames; i++ {
		n := s.Step()
		if n == 0 {
			break
		}
		fired += n
	}
	return fired
}

func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// TickerScheduler fires queued callbacks serially from a single goroutine at
// a fixed interval, mimicking a display refresh.
type TickerScheduler struct {
	mu     sync.Mutex
	queue  []func()
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	s := &TickerScheduler{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// NewTickerSchedulerFPS is a convenience wrapper around NewTickerScheduler.
func NewTickerSchedulerFPS(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return NewTickerScheduler(time.Second / time.Duration(fps))
}

func (s *TickerScheduler) RequestFrame(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, cb)
}

func (s *TickerScheduler) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.mu.Lock()
			queue := s.queue
			s.queue = nil
			s.mu.Unlock()
			for _, cb := range queue {
				cb()
			}
		}
	}
}

// Stop ends the frame loop and waits for a running frame to finish. Queued
// callbacks are dropped. It is safe to call Stop more than once, but not from
// within a frame callback.
func (s *TickerScheduler) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.ticker.Stop()
		s.mu.Lock()
		s.queue = nil
		s.mu.Unlock()
	})
}
