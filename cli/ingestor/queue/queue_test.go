package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
)

func stamped(sec int) *fix.Fix {
	return &fix.Fix{Timestamp: time.Date(2024, time.January, 15, 12, 0, sec, 0, time.UTC)}
}

func TestPushDropsOldestAtCapacity(t *testing.T) {
	q := New(3)

	for i := 0; i < 4; i++ {
		q.Push(stamped(i))
	}

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, uint64(1), q.Dropped())

	// The oldest fix was evicted; arrival order is preserved for the rest.
	f, ok := q.Pop()
	if assert.True(t, ok) {
		assert.Equal(t, stamped(1).Timestamp, f.Timestamp)
	}
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := New(10)

	done := make(chan *fix.Fix)
	go func() {
		f, ok := q.Pop()
		assert.True(t, ok)
		done <- f
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before any Push")
	case <-time.After(50 * time.Millisecond):
	}

	q.Push(stamped(7))
	select {
	case f := <-done:
		assert.Equal(t, stamped(7).Timestamp, f.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("Pop did not observe the Push")
	}
}

func TestCloseDrainsBeforeEndOfStream(t *testing.T) {
	q := New(10)
	q.Push(stamped(0))
	q.Push(stamped(1))
	q.Close()

	f, ok := q.Pop()
	if assert.True(t, ok) {
		assert.Equal(t, stamped(0).Timestamp, f.Timestamp)
	}
	f, ok = q.Pop()
	if assert.True(t, ok) {
		assert.Equal(t, stamped(1).Timestamp, f.Timestamp)
	}

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestCloseUnblocksPendingPop(t *testing.T) {
	q := New(10)

	done := make(chan bool)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock Pop")
	}
}

func TestPushAfterCloseIsDiscarded(t *testing.T) {
	q := New(10)
	q.Close()
	q.Push(stamped(0))
	assert.Equal(t, 0, q.Len())
}

func TestConcurrentProducerConsumer(t *testing.T) {
	q := New(8)
	const total = 500

	var consumed int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			_, ok := q.Pop()
			if !ok {
				return
			}
			consumed++
		}
	}()

	for i := 0; i < total; i++ {
		q.Push(stamped(i % 60))
	}
	q.Close()
	wg.Wait()

	// Everything is either consumed or accounted for by the drop counter.
	assert.Equal(t, total, consumed+int(q.Dropped()))
}
