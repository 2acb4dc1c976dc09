package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareOrdersByTimestampFirst(t *testing.T) {
	a := NewRead(1)
	b := NewRead(2)
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
}

func TestCompareTieBreaksByKindRank(t *testing.T) {
	create := NewCreate(50, Patch{{Op: "add", Path: "", Value: float64(1)}})
	read := NewRead(50)
	update := NewUpdate(50, Patch{{Op: "replace", Path: "/n", Value: float64(1)}})
	del := NewDelete(50)

	assert.True(t, Less(create, read))
	assert.True(t, Less(read, update))
	assert.True(t, Less(update, del))
}

func TestCompareTieBreaksByCanonicalPatchText(t *testing.T) {
	a := NewUpdate(50, Patch{{Op: "replace", Path: "/a", Value: float64(1)}})
	b := NewUpdate(50, Patch{{Op: "replace", Path: "/b", Value: float64(1)}})
	// Same timestamp and kind, so the canonical patch text decides:
	// "/a" sorts before "/b", and the order is antisymmetric.
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, -Compare(a, b), Compare(b, a))
}

func TestCompareIsZeroForEqualOperations(t *testing.T) {
	a := NewRead(7)
	b := NewRead(7)
	assert.Equal(t, 0, Compare(a, b))
}
