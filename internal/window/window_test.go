package window

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHandleEventQuit(t *testing.T) {
	w := &Window{log: quietLogger()}
	assert.False(t, w.ShouldClose())

	w.handleEvent(&sdl.QuitEvent{})
	assert.True(t, w.ShouldClose())
}

func TestHandleEventResize(t *testing.T) {
	tests := []struct {
		name    string
		event   uint8
		resized bool
		closed  bool
	}{
		{"resized", sdl.WINDOWEVENT_RESIZED, true, false},
		{"size changed", sdl.WINDOWEVENT_SIZE_CHANGED, true, false},
		{"minimized", sdl.WINDOWEVENT_MINIMIZED, true, false},
		{"restored", sdl.WINDOWEVENT_RESTORED, true, false},
		{"close", sdl.WINDOWEVENT_CLOSE, false, true},
		{"focus", sdl.WINDOWEVENT_FOCUS_GAINED, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Window{log: quietLogger()}
			w.handleEvent(&sdl.WindowEvent{Event: tt.event})
			assert.Equal(t, tt.resized, w.WasResized())
			assert.Equal(t, tt.closed, w.ShouldClose())
		})
	}
}

func TestResetResized(t *testing.T) {
	w := &Window{log: quietLogger()}
	w.handleEvent(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED})
	assert.True(t, w.WasResized())

	w.ResetResized()
	assert.False(t, w.WasResized())
}
