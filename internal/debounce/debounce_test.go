package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer(t *testing.T) {
	t.Run("burst emits only the last value", func(t *testing.T) {
		clock := NewManualClock()
		got := []string{}
		d := New(300*time.Millisecond, clock, func(v string) { got = append(got, v) })

		d.Push("1")
		d.Push("12")
		d.Push("123")
		require.Equal(t, 1, clock.Active())

		clock.Fire()
		require.Equal(t, []string{"123"}, got)
		require.False(t, d.Pending())
	})

	t.Run("separate bursts emit separately", func(t *testing.T) {
		clock := NewManualClock()
		got := []int{}
		d := New(100*time.Millisecond, clock, func(v int) { got = append(got, v) })

		d.Push(1)
		clock.Fire()
		d.Push(2)
		d.Push(3)
		clock.Fire()

		require.Equal(t, []int{1, 3}, got)
	})

	t.Run("flush emits immediately and cancels the timer", func(t *testing.T) {
		clock := NewManualClock()
		got := []int{}
		d := New(100*time.Millisecond, clock, func(v int) { got = append(got, v) })

		d.Push(7)
		d.Flush()
		require.Equal(t, 0, clock.Fire())
		require.Equal(t, []int{7}, got)
	})

	t.Run("take returns the pending value without emitting", func(t *testing.T) {
		clock := NewManualClock()
		got := []int{}
		d := New(100*time.Millisecond, clock, func(v int) { got = append(got, v) })

		d.Push(4)
		v, ok := d.Take()
		require.True(t, ok)
		require.Equal(t, 4, v)

		_, ok = d.Take()
		require.False(t, ok)
		require.Equal(t, 0, clock.Fire())
		require.Empty(t, got)
	})

	t.Run("stop drops pending value", func(t *testing.T) {
		clock := NewManualClock()
		got := []int{}
		d := New(100*time.Millisecond, clock, func(v int) { got = append(got, v) })

		d.Push(1)
		d.Stop()
		d.Push(2)
		clock.Fire()

		require.Empty(t, got)
	})

	t.Run("real clock", func(t *testing.T) {
		done := make(chan int, 1)
		d := New(10*time.Millisecond, nil, func(v int) { done <- v })
		d.Push(1)
		d.Push(2)

		select {
		case v := <-done:
			require.Equal(t, 2, v)
		case <-time.After(2 * time.Second):
			t.Fatal("debouncer never fired")
		}
	})
}
