package geom

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexStride(t *testing.T) {
	assert.Equal(t, 20, VertexStride)
}

func TestTriangle(t *testing.T) {
	tri := Triangle()
	require.Len(t, tri.Vertices, 3)
	assert.Empty(t, tri.Indices)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, tri.Vertices[0].Color)
}

func TestTransformMat2(t *testing.T) {
	tr := IdentityTransform()
	assert.True(t, tr.Mat2().ApproxEqual(mgl32.Ident2()))

	tr.Scale = mgl32.Vec2{2, 3}
	tr.Rotation = math.Pi / 2
	got := tr.Mat2().Mul2x1(mgl32.Vec2{1, 0})
	assert.InDelta(t, 0, got.X(), 1e-5)
	assert.InDelta(t, 2, got.Y(), 1e-5)

	got = tr.Mat2().Mul2x1(mgl32.Vec2{0, 1})
	assert.InDelta(t, -3, got.X(), 1e-5)
	assert.InDelta(t, 0, got.Y(), 1e-5)
}

const quadOBJ = `
o quad
v -0.5 -0.5 0.0
v 0.5 -0.5 0.0
v 0.5 0.5 0.0
v -0.5 0.5 0.0
f 1 2 3 4
`

func TestLoadOBJTriangulatesFaces(t *testing.T) {
	mesh, err := LoadOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Equal(t, mgl32.Vec2{0.5, 0.5}, mesh.Vertices[2].Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, mesh.Vertices[3].Color)
}

func TestLoadOBJWithoutFaces(t *testing.T) {
	_, err := LoadOBJ(strings.NewReader("o empty\nv 0 0 0\n"))
	require.Error(t, err)
}
