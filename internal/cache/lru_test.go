package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_EvictsLeastRecent(t *testing.T) {
	c := New[string, int](2)

	assert.False(t, c.Add("a", 1))
	assert.False(t, c.Add("b", 2))

	// Touch a so b becomes the eviction candidate.
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, c.Add("c", 3))
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_UpdateInPlace(t *testing.T) {
	c := New[string, int](1)
	c.Add("a", 1)
	assert.False(t, c.Add("a", 9))

	v, _ := c.Get("a")
	assert.Equal(t, 9, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_PanicsOnZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int, int](0) })
}
