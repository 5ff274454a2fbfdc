package renderer

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	next      int
	freed     [][]int
	allocated []int
	err       error
}

func (p *fakePool) free(buffers []int) {
	p.freed = append(p.freed, buffers)
}

func (p *fakePool) allocate(count int) ([]int, error) {
	p.allocated = append(p.allocated, count)
	if p.err != nil {
		return nil, p.err
	}
	buffers := make([]int, count)
	for i := range buffers {
		buffers[i] = p.next
		p.next++
	}
	return buffers, nil
}

func TestReconcileBuffersKeepsMatchingCount(t *testing.T) {
	pool := &fakePool{}
	current := []int{7, 8, 9}

	buffers, reallocated, err := reconcileBuffers(current, 3, pool.free, pool.allocate)
	require.NoError(t, err)
	assert.False(t, reallocated)
	assert.Equal(t, current, buffers)
	assert.Empty(t, pool.freed)
	assert.Empty(t, pool.allocated)
}

func TestReconcileBuffersReallocatesOnCountChange(t *testing.T) {
	pool := &fakePool{next: 10}
	current := []int{7, 8}

	buffers, reallocated, err := reconcileBuffers(current, 3, pool.free, pool.allocate)
	require.NoError(t, err)
	assert.True(t, reallocated)
	assert.Equal(t, []int{10, 11, 12}, buffers)
	assert.Equal(t, [][]int{{7, 8}}, pool.freed)
	assert.Equal(t, []int{3}, pool.allocated)
}

func TestReconcileBuffersAllocationFailure(t *testing.T) {
	boom := errors.New("out of memory")
	pool := &fakePool{err: boom}

	buffers, reallocated, err := reconcileBuffers([]int{1}, 2, pool.free, pool.allocate)
	require.ErrorIs(t, err, boom)
	assert.True(t, reallocated)
	assert.Nil(t, buffers)
	assert.Len(t, pool.freed, 1)
}

func TestCleanupStackUnwindsInReverse(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(&out)
	log.SetLevel(logrus.DebugLevel)

	var order []string
	var stack cleanupStack
	for _, name := range []string{"instance", "surface", "device", "swapchain"} {
		name := name
		stack.push(name, func() { order = append(order, name) })
	}
	require.Equal(t, 4, stack.len())

	stack.unwind(log)
	assert.Equal(t, []string{"swapchain", "device", "surface", "instance"}, order)
	assert.Zero(t, stack.len())
	assert.Contains(t, out.String(), "resource=swapchain")

	stack.unwind(log)
	assert.Len(t, order, 4)
}

func TestCleanupStackReleasesCurrentValue(t *testing.T) {
	var stack cleanupStack
	current := "first"
	var released string
	stack.push("swapchain", func() { released = current })

	current = "second"
	stack.unwind(logrus.New())
	assert.Equal(t, "second", released)
}
