package crdt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 — basic lifecycle.
func TestScenarioBasicLifecycle(t *testing.T) {
	s := NewOperationSet()

	s.Add(NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}))
	doc := s.Document()
	require.NotNil(t, doc)
	assert.Equal(t, map[string]any{"n": float64(1)}, *doc)

	s.Add(NewUpdate(20, Patch{{Op: "replace", Path: "/n", Value: float64(2)}}))
	doc = s.Document()
	require.NotNil(t, doc)
	assert.Equal(t, map[string]any{"n": float64(2)}, *doc)

	s.Add(NewDelete(30))
	assert.Nil(t, s.Document())

	s.Add(NewUpdate(40, Patch{{Op: "replace", Path: "/n", Value: float64(3)}}))
	assert.Nil(t, s.Document())
}

// S2 — time travel over the same log as S1.
func TestScenarioTimeTravel(t *testing.T) {
	s := buildStore(
		NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}),
		NewUpdate(20, Patch{{Op: "replace", Path: "/n", Value: float64(2)}}),
		NewDelete(30),
		NewUpdate(40, Patch{{Op: "replace", Path: "/n", Value: float64(3)}}),
	)

	at15 := s.DocumentAt(15)
	require.NotNil(t, at15)
	assert.Equal(t, map[string]any{"n": float64(1)}, *at15)

	at25 := s.DocumentAt(25)
	require.NotNil(t, at25)
	assert.Equal(t, map[string]any{"n": float64(2)}, *at25)

	assert.Nil(t, s.DocumentAt(35))
	assert.Nil(t, s.DocumentAt(45))
}

// S3 — commutative merge across replicas.
func TestScenarioCommutativeMergeAcrossReplicas(t *testing.T) {
	replicaA := buildStore(
		NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"a": float64(1)}}}),
		NewUpdate(20, Patch{{Op: "replace", Path: "/a", Value: float64(2)}}),
	)
	replicaB := buildStore(
		NewUpdate(25, Patch{{Op: "add", Path: "/b", Value: float64(3)}}),
	)

	aMergeB := replicaA.Copy()
	aMergeB.Merge(replicaB)

	bMergeA := replicaB.Copy()
	bMergeA.Merge(replicaA)

	want := map[string]any{"a": float64(2), "b": float64(3)}
	assert.Equal(t, want, *aMergeB.Document())
	assert.Equal(t, want, *bMergeA.Document())
}

// S4 — remove dominates add.
func TestScenarioRemoveDominates(t *testing.T) {
	s := NewOperationSet()
	s.Add(NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}))
	update := NewUpdate(20, Patch{{Op: "replace", Path: "/n", Value: float64(2)}})
	s.Add(update)
	s.Remove(update)

	doc := s.Document()
	require.NotNil(t, doc)
	assert.Equal(t, map[string]any{"n": float64(1)}, *doc)
}

// S5 — tie-break ordering at equal timestamps.
func TestScenarioTieBreakOrdering(t *testing.T) {
	s := NewOperationSet()
	s.Add(NewCreate(50, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}))
	s.Add(NewUpdate(50, Patch{{Op: "replace", Path: "/n", Value: float64(5)}}))
	doc := s.DocumentAt(50)
	require.NotNil(t, doc)
	assert.Equal(t, map[string]any{"n": float64(5)}, *doc)

	s.Add(NewUpdate(60, Patch{{Op: "replace", Path: "/n", Value: float64(6)}}))
	s.Add(NewDelete(60))
	assert.Nil(t, s.DocumentAt(60))
}

// S6 — idempotent append.
func TestScenarioIdempotentAppend(t *testing.T) {
	s := NewOperationSet()
	create := NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}})
	s.Add(create)
	s.Add(create.Copy())

	assert.Equal(t, 1, s.Count(KindCreate))
}

func TestDocumentIsShorthandForMaxTimestamp(t *testing.T) {
	s := buildStore(NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}))
	assert.Equal(t, *s.DocumentAt(math.MaxUint64), *s.Document())
}

func TestEmptyEffectiveSetYieldsAbsentDocument(t *testing.T) {
	s := NewOperationSet()
	assert.Nil(t, s.Document())
}

func TestMultipleDeletesOnlyFirstSeals(t *testing.T) {
	s := buildStore(
		NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}),
		NewDelete(20),
		NewDelete(30),
	)
	assert.Nil(t, s.Document())
	assert.Nil(t, s.DocumentAt(25))
}

func TestPatchApplyFailureIsRecordedAndSkipped(t *testing.T) {
	s := NewOperationSet()
	s.Add(NewCreate(10, Patch{{Op: "add", Path: "", Value: map[string]any{"n": float64(1)}}}))
	// "test" op against a missing path fails to apply.
	s.Add(NewUpdate(20, Patch{{Op: "test", Path: "/missing", Value: float64(1)}}))
	s.Add(NewUpdate(30, Patch{{Op: "replace", Path: "/n", Value: float64(9)}}))

	diag := NewDiagnostics(10)
	doc := s.FoldWithDiagnostics(math.MaxUint64, diag)

	require.NotNil(t, doc)
	assert.Equal(t, map[string]any{"n": float64(9)}, *doc)
	require.Len(t, diag.Issues(), 1)
	assert.Equal(t, KindUpdate, diag.Issues()[0].Kind)
	assert.Equal(t, uint64(20), diag.Issues()[0].Timestamp)
}
