package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderIsStableUnderInsertionOrder(t *testing.T) {
	a := NewOperationSet()
	a.Add(NewRead(2))
	a.Add(NewRead(1))

	b := NewOperationSet()
	b.Add(NewRead(1))
	b.Add(NewRead(2))

	assert.Equal(t, a.Render(), b.Render())
}

func TestRenderReflectsRemoval(t *testing.T) {
	op := NewRead(1)
	a := buildStore(op)
	b := buildStore(op)
	b.Remove(op)

	assert.NotEqual(t, a.Render(), b.Render())
}
