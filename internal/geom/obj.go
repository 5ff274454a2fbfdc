package geom

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// LoadOBJ decodes a Wavefront OBJ stream into an indexed mesh. Only the x and y
// coordinates are kept, faces are fan-triangulated and every vertex is white.
// Materials are ignored.
func LoadOBJ(r io.Reader) (MeshData, error) {
	decoder, err := obj.DecodeReader(r, strings.NewReader(""))
	if err != nil {
		return MeshData{}, errors.Wrap(err, "decode obj")
	}

	var mesh MeshData
	unique := make(map[int]uint32)

	add := func(face obj.Face, corner int) error {
		vertInd := face.Vertices[corner]
		if vertInd < 0 || vertInd*3+2 >= len(decoder.Vertices) {
			return errors.Newf("obj: vertex index %d out of range", vertInd)
		}

		index, ok := unique[vertInd]
		if !ok {
			index = uint32(len(mesh.Vertices))
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: mgl32.Vec2{decoder.Vertices[vertInd*3], decoder.Vertices[vertInd*3+1]},
				Color:    mgl32.Vec3{1, 1, 1},
			})
			unique[vertInd] = index
		}
		mesh.Indices = append(mesh.Indices, index)
		return nil
	}

	for _, object := range decoder.Objects {
		for _, face := range object.Faces {
			for i := 2; i < len(face.Vertices); i++ {
				for _, corner := range [3]int{0, i - 1, i} {
					if err := add(face, corner); err != nil {
						return MeshData{}, err
					}
				}
			}
		}
	}

	if len(mesh.Indices) == 0 {
		return MeshData{}, errors.New("obj: no faces")
	}
	return mesh, nil
}
