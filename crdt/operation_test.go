package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationAccessors(t *testing.T) {
	c := NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}})
	assert.True(t, c.IsCreated())
	assert.False(t, c.IsDeleted())
	assert.Equal(t, uint64(10), c.Timestamp())
	assert.Equal(t, KindCreate, c.Kind())

	d := NewDelete(30)
	assert.True(t, d.IsDeleted())
	assert.Nil(t, d.Patch())
}

func TestOperationCopyIsIndependent(t *testing.T) {
	orig := NewUpdate(5, Patch{{Op: "replace", Path: "/n", Value: float64(2)}})
	clone := orig.Copy()

	clone.patch[0].Value = float64(99)

	assert.Equal(t, float64(2), orig.Patch()[0].Value)
	assert.True(t, orig.Equal(NewUpdate(5, Patch{{Op: "replace", Path: "/n", Value: float64(2)}})))
}

func TestOperationEqualityIsStructural(t *testing.T) {
	a := NewUpdate(5, Patch{{Op: "replace", Path: "/n", Value: float64(2)}})
	b := NewUpdate(5, Patch{{Op: "replace", Path: "/n", Value: float64(2)}})
	c := NewUpdate(5, Patch{{Op: "replace", Path: "/n", Value: float64(3)}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestProcessCreateSeedsEmptyDocument(t *testing.T) {
	op := NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}})
	doc, err := op.Process(nil)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1)}, *doc)
}

func TestProcessCreateIsNoOpWhenDocumentPresent(t *testing.T) {
	existing := Json(map[string]any{"n": float64(7)})
	op := NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}})
	doc, err := op.Process(&existing)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(7)}, *doc)
}

func TestProcessUpdateDroppedWhenDocumentAbsent(t *testing.T) {
	op := NewUpdate(10, Patch{{Op: "replace", Path: "/n", Value: float64(2)}})
	doc, err := op.Process(nil)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestProcessReadIsObservationalOnly(t *testing.T) {
	existing := Json(map[string]any{"n": float64(7)})
	op := NewRead(11)
	doc, err := op.Process(&existing)
	assert.NoError(t, err)
	assert.Equal(t, &existing, doc)
}

func TestProcessDeleteIsAlwaysAbsent(t *testing.T) {
	existing := Json(map[string]any{"n": float64(7)})
	op := NewDelete(30)
	doc, err := op.Process(&existing)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}
