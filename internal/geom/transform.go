package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform2D places an object in normalized device space.
type Transform2D struct {
	Translation mgl32.Vec2
	Scale       mgl32.Vec2
	Rotation    float32
}

func IdentityTransform() Transform2D {
	return Transform2D{Scale: mgl32.Vec2{1, 1}}
}

// Mat2 composes rotation after scale.
func (t Transform2D) Mat2() mgl32.Mat2 {
	s := float32(math.Sin(float64(t.Rotation)))
	c := float32(math.Cos(float64(t.Rotation)))
	// column major: columns {c, s} and {-s, c}
	rot := mgl32.Mat2{c, s, -s, c}
	scale := mgl32.Mat2{t.Scale.X(), 0, 0, t.Scale.Y()}
	return rot.Mul2(scale)
}
