// Package geom holds CPU-side geometry: vertices, mesh data and 2D transforms.
package geom

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec3
}

// MeshData is vertex data ready for upload. Indices is empty for non-indexed
// meshes.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// VertexStride is the tightly packed size of one Vertex on the GPU.
var VertexStride = binary.Size(Vertex{})

// Triangle is the built-in mesh drawn when no model is configured.
func Triangle() MeshData {
	return MeshData{
		Vertices: []Vertex{
			{Position: mgl32.Vec2{0.0, -0.5}, Color: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec2{0.5, 0.5}, Color: mgl32.Vec3{0, 1, 0}},
			{Position: mgl32.Vec2{-0.5, 0.5}, Color: mgl32.Vec3{0, 0, 1}},
		},
	}
}
