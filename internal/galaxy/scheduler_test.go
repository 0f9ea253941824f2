package galaxy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestManualScheduler_Step(t *testing.T) {
	s := NewManualScheduler()
	calls := []string{}
	s.RequestFrame(func() {
		calls = append(calls, "a")
		s.RequestFrame(func() { calls = append(calls, "c") })
	})
	s.RequestFrame(func() { calls = append(calls, "b") })
	assert := assert.New(t)
	assert.Equal(2, s.Pending())
	assert.Equal(2, s.Step())
	assert.Equal([]string{"a", "b"}, calls, "callbacks requested during a frame wait for the next one")
	assert.Equal(1, s.Pending())
	assert.Equal(1, s.Step())
	assert.Equal([]string{"a", "b", "c"}, calls)
	assert.Equal(0, s.Step())
}

func TestManualScheduler_Run(t *testing.T) {
	s := NewManualScheduler()
	n := 0
	var cb func()
	cb = func() {
		n++
		if n < 5 {
			s.RequestFrame(cb)
		}
	}
	s.RequestFrame(cb)
	assert := assert.New(t)
	assert.Equal(5, s.Run(100), "stops once nothing is queued")
	assert.Equal(5, n)
	assert.Equal(0, s.Run(3))
}

func TestTickerScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewTickerScheduler(time.Millisecond)
	fired := make(chan int, 3)
	for i := 0; i < 3; i++ {
		i := i
		s.RequestFrame(func() { fired <- i })
	}
	assert := assert.New(t)
	for i := 0; i < 3; i++ {
		select {
		case n := <-fired:
			assert.Equal(i, n, "callbacks fire in order")
		case <-time.After(5 * time.Second):
			t.Fatal("callback did not fire")
		}
	}
	s.Stop()
	s.Stop()
	s.RequestFrame(func() { t.Error("must not fire after Stop") })
	time.Sleep(5 * time.Millisecond)
}

func TestNewTickerSchedulerFPS(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewTickerSchedulerFPS(0)
	done := make(chan struct{})
	s.RequestFrame(func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback did not fire")
	}
	s.Stop()
}
