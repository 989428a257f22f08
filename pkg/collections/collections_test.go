package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListClearKeepsCapacity(t *testing.T) {
	var l List[*int]
	one, two := 1, 2
	l.Append(&one, &two)
	capBefore := l.Cap()

	l.Clear()

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, capBefore, l.Cap())
	// Cleared slots no longer reference the old elements
	assert.Nil(t, l.Items()[:capBefore][0])
}

func TestSetZeroValueUsable(t *testing.T) {
	var s Set[string]
	assert.False(t, s.Has("a"))
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.Equal(t, 1, s.Len())

	s.Remove("a")
	assert.Equal(t, 0, s.Len())

	s.Add("b")
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestDictOperations(t *testing.T) {
	var d Dict[string, int]
	d.Put("a", 1)
	d.Put("b", 2)

	v, ok := d.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	visited := 0
	d.Range(func(string, int) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)

	d.Delete("a")
	assert.Equal(t, 1, d.Len())
	d.Clear()
	assert.Equal(t, 0, d.Len())
}
