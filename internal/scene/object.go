// Package scene holds the render objects drawn every frame and the clock that
// animates them.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/rrenderer/rrenderer/internal/gfx"
)

// ID identifies a render object within its scene.
type ID uint64

// IDAllocator hands out increasing ids, starting at zero.
type IDAllocator struct {
	next ID
}

func (a *IDAllocator) Next() ID {
	id := a.next
	a.next++
	return id
}

// RenderObject is one draw of a shared mesh with its own color and transform.
type RenderObject struct {
	id    ID
	Mesh  *gfx.Mesh
	Color mgl32.Vec3

	transform geom.Transform2D
	matrix    mgl32.Mat2
	dirty     bool
}

func (o *RenderObject) ID() ID {
	return o.id
}

func (o *RenderObject) Transform() geom.Transform2D {
	return o.transform
}

func (o *RenderObject) SetTranslation(v mgl32.Vec2) {
	o.transform.Translation = v
}

func (o *RenderObject) SetScale(v mgl32.Vec2) {
	o.transform.Scale = v
	o.dirty = true
}

func (o *RenderObject) SetRotation(radians float32) {
	o.transform.Rotation = radians
	o.dirty = true
}

// Matrix returns the rotation-scale matrix, recomputing it only after the
// rotation or scale changed.
func (o *RenderObject) Matrix() mgl32.Mat2 {
	if o.dirty {
		o.matrix = o.transform.Mat2()
		o.dirty = false
	}
	return o.matrix
}

// PushConstants is the per-draw data for this object.
func (o *RenderObject) PushConstants() gfx.PushConstants {
	return gfx.PushConstants{
		Offset: o.transform.Translation,
		Color:  o.Color,
	}
}
