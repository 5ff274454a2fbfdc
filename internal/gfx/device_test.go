package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueFamilies(t *testing.T) {
	for graphics := 0; graphics < 3; graphics++ {
		for present := 0; present < 3; present++ {
			indices := QueueFamilyIndices{GraphicsFamily: intPtr(graphics), PresentFamily: intPtr(present)}
			unique := indices.UniqueFamilies()

			if graphics == present {
				assert.Equal(t, []int{graphics}, unique)
				assert.True(t, indices.SameQueue())
			} else {
				assert.Equal(t, []int{graphics, present}, unique)
				assert.False(t, indices.SameQueue())
			}
		}
	}
}

func TestQueueFamilyIndicesIncomplete(t *testing.T) {
	indices := QueueFamilyIndices{GraphicsFamily: intPtr(0)}
	assert.False(t, indices.IsComplete())
	assert.False(t, indices.SameQueue())
	assert.Equal(t, []int{0}, indices.UniqueFamilies())
}
