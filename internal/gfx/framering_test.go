package gfx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRingWraps(t *testing.T) {
	ring := newFrameRing(3)
	var seen []int
	for i := 0; i < 5; i++ {
		seen = append(seen, ring.current)
		ring.advance()
	}
	require.Equal(t, []int{0, 1, 0, 1, 0}, seen)
}

func TestFrameRingStartsUnowned(t *testing.T) {
	ring := newFrameRing(3)
	require.Equal(t, []int{noFrame, noFrame, noFrame}, ring.owners)

	prev, wait := ring.claim(1)
	require.Equal(t, noFrame, prev)
	require.False(t, wait)
	require.Equal(t, 0, ring.owners[1])
}

func TestFrameRingWaitsOnOtherSlot(t *testing.T) {
	ring := newFrameRing(2)

	ring.claim(0)
	ring.advance()

	// frame 1 reacquires image 0 while frame 0 may still be rendering it
	prev, wait := ring.claim(0)
	require.Equal(t, 0, prev)
	require.True(t, wait)
	require.Equal(t, 1, ring.owners[0])

	ring.advance()
	ring.advance()

	// frame 1 again; its own fence was already waited on
	prev, wait = ring.claim(0)
	require.Equal(t, 1, prev)
	require.False(t, wait)
}
