package gfx

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/vkngwrapper/core/core1_0"
)

// Mesh is vertex (and optionally index) data in device-local memory. Several
// render objects may draw the same mesh.
type Mesh struct {
	vertexBuffer core1_0.Buffer
	vertexMemory core1_0.DeviceMemory
	vertexCount  int

	indexBuffer core1_0.Buffer
	indexMemory core1_0.DeviceMemory
	indexCount  int
}

// NewMesh uploads data through a host-visible staging buffer.
func NewMesh(device *Device, pool *CommandPool, data geom.MeshData) (*Mesh, error) {
	if len(data.Vertices) == 0 {
		return nil, errors.New("mesh has no vertices")
	}

	m := &Mesh{vertexCount: len(data.Vertices), indexCount: len(data.Indices)}

	var err error
	m.vertexBuffer, m.vertexMemory, err = uploadBuffer(device, pool, core1_0.BufferUsageVertexBuffer, data.Vertices)
	if err != nil {
		m.Destroy()
		return nil, errors.Wrap(err, "upload vertices")
	}

	if m.indexCount > 0 {
		m.indexBuffer, m.indexMemory, err = uploadBuffer(device, pool, core1_0.BufferUsageIndexBuffer, data.Indices)
		if err != nil {
			m.Destroy()
			return nil, errors.Wrap(err, "upload indices")
		}
	}

	return m, nil
}

func uploadBuffer(device *Device, pool *CommandPool, usage core1_0.BufferUsageFlags, data any) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	size := binary.Size(data)

	stagingBuffer, stagingMemory, err := device.createBuffer(size, core1_0.BufferUsageTransferSrc, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if stagingBuffer != nil {
		defer stagingBuffer.Destroy(nil)
	}
	if stagingMemory != nil {
		defer stagingMemory.Free(nil)
	}
	if err != nil {
		return nil, nil, err
	}

	if err = writeData(stagingMemory, 0, data); err != nil {
		return nil, nil, err
	}

	buffer, memory, err := device.createBuffer(size, core1_0.BufferUsageTransferDst|usage, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return buffer, memory, err
	}

	err = pool.RunOnce(func(cb core1_0.CommandBuffer) error {
		return cb.CmdCopyBuffer(stagingBuffer, buffer, []core1_0.BufferCopy{
			{
				SrcOffset: 0,
				DstOffset: 0,
				Size:      size,
			},
		})
	})
	return buffer, memory, err
}

func (m *Mesh) Bind(buffer *CommandBuffer) {
	buffer.handle.CmdBindVertexBuffers(0, []core1_0.Buffer{m.vertexBuffer}, []int{0})
	if m.indexCount > 0 {
		buffer.handle.CmdBindIndexBuffer(m.indexBuffer, 0, core1_0.IndexTypeUInt32)
	}
}

func (m *Mesh) Draw(buffer *CommandBuffer) {
	if m.indexCount > 0 {
		buffer.handle.CmdDrawIndexed(m.indexCount, 1, 0, 0, 0)
		return
	}
	buffer.handle.CmdDraw(m.vertexCount, 1, 0, 0)
}

func (m *Mesh) Destroy() {
	if m.indexBuffer != nil {
		m.indexBuffer.Destroy(nil)
		m.indexBuffer = nil
	}
	if m.indexMemory != nil {
		m.indexMemory.Free(nil)
		m.indexMemory = nil
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Destroy(nil)
		m.vertexBuffer = nil
	}
	if m.vertexMemory != nil {
		m.vertexMemory.Free(nil)
		m.vertexMemory = nil
	}
}
