package renderer

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "resize pending", ResizePending.String())
	assert.Equal(t, "terminated", Terminated.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestRenderRequiresReady(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := &Renderer{log: log}

	err := r.Render()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uninitialized")
}

func TestShutdownWithoutDeviceUnwinds(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	r := &Renderer{log: log, state: Ready}

	released := false
	r.cleanup.push("window surface", func() { released = true })

	require.NoError(t, r.Shutdown())
	assert.True(t, released)
	assert.Equal(t, Terminated, r.State())

	entries := len(hook.AllEntries())
	require.NoError(t, r.Shutdown())
	assert.Len(t, hook.AllEntries(), entries)
}
