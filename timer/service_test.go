package timer

import (
	"bytes"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/galley/internal/logging"
)

func TestAfterDelivers(t *testing.T) {
	events := make(chan Event, 1)
	s := NewService(events, logging.Discard())

	id := s.After(time.Millisecond)

	select {
	case ev := <-events:
		assert.Equal(t, id, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	assert.Zero(t, s.Active())
}

func TestCancelBeforeFire(t *testing.T) {
	events := make(chan Event, 1)
	s := NewService(events, logging.Discard())

	id := s.After(50 * time.Millisecond)
	require.Equal(t, 1, s.Active())
	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id), "second cancel finds nothing")

	select {
	case ev := <-events:
		t.Fatalf("cancelled timer delivered %d", ev.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelAll(t *testing.T) {
	events := make(chan Event, 4)
	s := NewService(events, logging.Discard())

	s.After(30 * time.Millisecond)
	s.After(30 * time.Millisecond)
	s.CancelAll()
	assert.Zero(t, s.Active())

	select {
	case <-events:
		t.Fatal("no timer should fire after CancelAll")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestIDsAreUnique(t *testing.T) {
	s := NewService(make(chan Event, 2), logging.Discard())
	a := s.After(time.Hour)
	b := s.After(time.Hour)
	assert.NotEqual(t, a, b)
	s.CancelAll()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFullChannelLogsDrop(t *testing.T) {
	var out syncBuffer
	events := make(chan Event) // nobody receives
	s := NewService(events, log.New(&out))

	id := s.After(time.Millisecond)

	require.Eventually(t, func() bool { return s.Dropped() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, s.Active())
	assert.Contains(t, out.String(), "timer dropped")
	assert.Contains(t, out.String(), "id="+strconv.Itoa(id))
}
