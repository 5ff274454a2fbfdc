package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"
	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/rrenderer/rrenderer/internal/gfx"
)

const (
	animationFrames = 100
	animationStart  = 30
	// AnimationStep is how much time one animation frame lasts.
	AnimationStep = time.Second / 60
)

// Scene is the flat list of objects drawn each frame. It owns their ids.
type Scene struct {
	ids     IDAllocator
	objects []*RenderObject

	clock *Clock
	frame int
}

func New(clock *Clock) *Scene {
	return &Scene{clock: clock, frame: animationStart}
}

func (s *Scene) Add(mesh *gfx.Mesh, color mgl32.Vec3, transform geom.Transform2D) *RenderObject {
	obj := &RenderObject{
		id:        s.ids.Next(),
		Mesh:      mesh,
		Color:     color,
		transform: transform,
		dirty:     true,
	}
	s.objects = append(s.objects, obj)
	return obj
}

// AddInstances places count copies of mesh in a column, each a little bluer
// than the one above it.
func (s *Scene) AddInstances(mesh *gfx.Mesh, count int) {
	for i := 0; i < count; i++ {
		s.Add(mesh, instanceColor(i), geom.IdentityTransform())
	}
	s.layout()
}

func (s *Scene) Objects() []*RenderObject {
	return s.objects
}

// Frame is the current animation frame in [0, 100).
func (s *Scene) Frame() int {
	return s.frame
}

// Update advances the animation by however many steps the clock says have
// elapsed.
func (s *Scene) Update() {
	ticks := s.clock.Ticks()
	if ticks == 0 {
		return
	}
	s.frame = (s.frame + ticks) % animationFrames
	s.layout()
}

func (s *Scene) layout() {
	for i, obj := range s.objects {
		obj.SetTranslation(instanceOffset(s.frame, i))
	}
}

func instanceOffset(frame, i int) mgl32.Vec2 {
	return mgl32.Vec2{-0.5 + float32(frame)*0.02, -0.4 + float32(i)*0.25}
}

func instanceColor(i int) mgl32.Vec3 {
	return mgl32.Vec3{0, 0, 0.2 + 0.2*float32(i)}
}

// Clock counts fixed animation steps against a monotonic time source.
type Clock struct {
	step time.Duration
	now  func() time.Duration
	last time.Duration
}

func NewClock(step time.Duration) *Clock {
	return newClock(step, hrtime.Now)
}

func newClock(step time.Duration, now func() time.Duration) *Clock {
	return &Clock{step: step, now: now, last: now()}
}

// Ticks returns the number of whole steps since the previous call. Leftover
// time carries over.
func (c *Clock) Ticks() int {
	elapsed := c.now() - c.last
	ticks := int(elapsed / c.step)
	c.last += time.Duration(ticks) * c.step
	return ticks
}
