package crdt

import (
	"sort"
)

// OperationSet is the two-set operation store: an add-set and
// a remove-set, whose effective content is add \ rem, always computed
// on demand. It is backed by sorted slices under Compare's order
// rather than a balanced tree — for the small per-document logs this
// engine targets, a sorted slice with binary-search insertion is the
// idiomatic choice and needs no extra dependency.
type OperationSet struct {
	add []Operation
	rem []Operation
}

// NewOperationSet returns an empty store.
func NewOperationSet() *OperationSet {
	return &OperationSet{}
}

// Add inserts op into the add-set. It reports whether the set changed
// (false if op was already present).
func (s *OperationSet) Add(op Operation) bool {
	return insertSorted(&s.add, op)
}

// Remove inserts op into the remove-set. It does not require op to
// already be a member of the add-set, tolerating out-of-order
// delivery. It reports whether the set changed.
func (s *OperationSet) Remove(op Operation) bool {
	return insertSorted(&s.rem, op)
}

// Clear empties both sets.
func (s *OperationSet) Clear() {
	s.add = nil
	s.rem = nil
}

// IsEmpty reports whether the effective set is empty.
func (s *OperationSet) IsEmpty() bool {
	return len(s.Effective()) == 0
}

// Count returns the number of operations of the given kind in the
// effective set.
func (s *OperationSet) Count(kind Kind) int {
	n := 0
	for _, op := range s.Effective() {
		if op.kind == kind {
			n++
		}
	}
	return n
}

// Effective returns add \ rem, in Compare order. The result is a
// fresh slice; mutating it does not affect the store.
func (s *OperationSet) Effective() []Operation {
	out := make([]Operation, 0, len(s.add))
	for _, op := range s.add {
		if !containsSorted(s.rem, op) {
			out = append(out, op)
		}
	}
	return out
}

// Merge folds other's add-set and remove-set into s, set-union style.
// Merge is commutative, associative, and idempotent: the result
// depends only on the union of both stores' add-sets and the union of
// both stores' remove-sets.
func (s *OperationSet) Merge(other *OperationSet) {
	for _, op := range other.add {
		insertSorted(&s.add, op)
	}
	for _, op := range other.rem {
		insertSorted(&s.rem, op)
	}
}

// Copy returns a deep copy of s.
func (s *OperationSet) Copy() *OperationSet {
	out := &OperationSet{
		add: make([]Operation, len(s.add)),
		rem: make([]Operation, len(s.rem)),
	}
	for i, op := range s.add {
		out.add[i] = op.Copy()
	}
	for i, op := range s.rem {
		out.rem[i] = op.Copy()
	}
	return out
}

// insertSorted inserts op into the Compare-ordered slice pointed to by
// set, unless op is already present (by Equal, not Compare — Compare
// can tie on distinct patches that canonicalize identically only when
// they really are value-equal, so the two agree here). It reports
// whether the slice changed.
func insertSorted(set *[]Operation, op Operation) bool {
	s := *set
	i := sort.Search(len(s), func(i int) bool { return Compare(s[i], op) >= 0 })
	if i < len(s) && s[i].Equal(op) {
		return false
	}
	s = append(s, Operation{})
	copy(s[i+1:], s[i:])
	s[i] = op
	*set = s
	return true
}

// containsSorted reports whether a Compare-ordered slice contains an
// operation value-equal to op.
func containsSorted(set []Operation, op Operation) bool {
	i := sort.Search(len(set), func(i int) bool { return Compare(set[i], op) >= 0 })
	for ; i < len(set) && Compare(set[i], op) == 0; i++ {
		if set[i].Equal(op) {
			return true
		}
	}
	return false
}
