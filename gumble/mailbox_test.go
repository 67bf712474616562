package gumble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_PostRunsTasksInOrder(t *testing.T) {
	m := newMailbox()
	go m.run()
	defer m.stop()

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		m.post(func() { order = append(order, i) })
	}
	m.post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tasks never drained")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestMailbox_PostAfterStopIsSilentlyDropped(t *testing.T) {
	m := newMailbox()
	go m.run()
	m.stop()

	ran := false
	m.post(func() { ran = true })
	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran)
}

func TestMailbox_StopIsIdempotent(t *testing.T) {
	m := newMailbox()
	go m.run()
	require.NotPanics(t, func() {
		m.stop()
		m.stop()
		m.stop()
	})
}
