package scene

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTime struct {
	t time.Duration
}

func (f *fakeTime) now() time.Duration { return f.t }

func TestIDAllocatorIsMonotonic(t *testing.T) {
	var ids IDAllocator
	assert.Equal(t, ID(0), ids.Next())
	assert.Equal(t, ID(1), ids.Next())
	assert.Equal(t, ID(2), ids.Next())
}

func TestScenesAllocateIndependently(t *testing.T) {
	a := New(newClock(AnimationStep, (&fakeTime{}).now))
	b := New(newClock(AnimationStep, (&fakeTime{}).now))

	a.Add(nil, mgl32.Vec3{}, geom.IdentityTransform())
	second := a.Add(nil, mgl32.Vec3{}, geom.IdentityTransform())
	first := b.Add(nil, mgl32.Vec3{}, geom.IdentityTransform())

	assert.Equal(t, ID(1), second.ID())
	assert.Equal(t, ID(0), first.ID())
}

func TestRenderObjectMatrixIsLazy(t *testing.T) {
	s := New(newClock(AnimationStep, (&fakeTime{}).now))
	obj := s.Add(nil, mgl32.Vec3{1, 1, 1}, geom.IdentityTransform())
	require.True(t, obj.dirty)

	assert.True(t, obj.Matrix().ApproxEqual(mgl32.Ident2()))
	assert.False(t, obj.dirty)

	obj.SetTranslation(mgl32.Vec2{0.5, 0.5})
	assert.False(t, obj.dirty, "translation is not part of the matrix")

	obj.SetRotation(math.Pi)
	assert.True(t, obj.dirty)
	m := obj.Matrix()
	assert.InDelta(t, -1, m.At(0, 0), 1e-5)
	assert.InDelta(t, -1, m.At(1, 1), 1e-5)
	assert.False(t, obj.dirty)

	obj.SetScale(mgl32.Vec2{2, 2})
	assert.True(t, obj.dirty)
	assert.InDelta(t, -2, obj.Matrix().At(0, 0), 1e-5)
}

func TestAddInstancesLayout(t *testing.T) {
	s := New(newClock(AnimationStep, (&fakeTime{}).now))
	s.AddInstances(nil, 4)

	objects := s.Objects()
	require.Len(t, objects, 4)
	for i, obj := range objects {
		pc := obj.PushConstants()
		assert.InDelta(t, -0.5+30*0.02, pc.Offset.X(), 1e-5)
		assert.InDelta(t, -0.4+float64(i)*0.25, pc.Offset.Y(), 1e-5)
		assert.InDelta(t, 0.2+0.2*float64(i), pc.Color.Z(), 1e-5)
		assert.Equal(t, ID(i), obj.ID())
	}
}

func TestUpdateFollowsClock(t *testing.T) {
	ft := &fakeTime{}
	s := New(newClock(AnimationStep, ft.now))
	s.AddInstances(nil, 1)

	s.Update()
	assert.Equal(t, 30, s.Frame())

	ft.t = AnimationStep*3 + AnimationStep/2
	s.Update()
	assert.Equal(t, 33, s.Frame())
	assert.InDelta(t, -0.5+33*0.02, s.Objects()[0].PushConstants().Offset.X(), 1e-5)

	// the leftover half step counts toward the next tick
	ft.t = AnimationStep * 4
	s.Update()
	assert.Equal(t, 34, s.Frame())
}

func TestUpdateWraps(t *testing.T) {
	ft := &fakeTime{}
	s := New(newClock(AnimationStep, ft.now))

	ft.t = AnimationStep * 75
	s.Update()
	assert.Equal(t, 5, s.Frame())
}
