// Package crdt implements the operation-log CRDT engine: a two-set
// operation store whose elements are timestamped, typed JSON-patch
// operations, and the deterministic fold that materializes them into a
// JSON document.
package crdt

import (
	"crdtdoc/patchio"
)

// Json is a JSON value, as produced by encoding/json.
type Json = patchio.Json

// Patch is an RFC-6902 sequence of patch entries.
type Patch = patchio.Patch

// Kind identifies which of the four operation variants an Operation is.
// The numeric values double as the tie-break rank in Compare: at equal
// timestamp, CREATE sorts before READ, before UPDATE, before DELETE.
type Kind int

const (
	KindCreate Kind = iota
	KindRead
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindRead:
		return "read"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is an immutable, timestamped CRDT log entry. It is a
// closed sum of four variants (Create, Read, Update, Delete); callers
// construct one through NewCreate/NewRead/NewUpdate/NewDelete rather
// than through struct literals, so the invariant "patch is nil for
// READ and DELETE" can't be violated from outside the package.
type Operation struct {
	kind      Kind
	timestamp uint64
	patch     Patch
}

// NewCreate returns an operation that seeds the document from the
// empty value by applying patch.
func NewCreate(ts uint64, patch Patch) Operation {
	return Operation{kind: KindCreate, timestamp: ts, patch: clonePatch(patch)}
}

// NewRead returns a purely observational operation.
func NewRead(ts uint64) Operation {
	return Operation{kind: KindRead, timestamp: ts}
}

// NewUpdate returns an operation that transforms the current document
// by applying patch.
func NewUpdate(ts uint64, patch Patch) Operation {
	return Operation{kind: KindUpdate, timestamp: ts, patch: clonePatch(patch)}
}

// NewDelete returns an operation that, once folded, seals the document
// as absent.
func NewDelete(ts uint64) Operation {
	return Operation{kind: KindDelete, timestamp: ts}
}

// Timestamp returns the operation's caller-assigned logical timestamp.
func (o Operation) Timestamp() uint64 { return o.timestamp }

// Kind returns which of the four variants this operation is.
func (o Operation) Kind() Kind { return o.kind }

// Patch returns the operation's patch payload, or nil for READ/DELETE.
func (o Operation) Patch() Patch { return o.patch }

// IsCreated reports whether this operation is a CREATE.
func (o Operation) IsCreated() bool { return o.kind == KindCreate }

// IsDeleted reports whether this operation is a DELETE.
func (o Operation) IsDeleted() bool { return o.kind == KindDelete }

// Copy returns a structural clone of o; its patch slice shares no
// backing array with the original.
func (o Operation) Copy() Operation {
	return Operation{kind: o.kind, timestamp: o.timestamp, patch: clonePatch(o.patch)}
}

// Equal reports whether o and other are value-equal: same kind, same
// timestamp, same patch content.
func (o Operation) Equal(other Operation) bool {
	if o.kind != other.kind || o.timestamp != other.timestamp {
		return false
	}
	oc, errO := patchio.Canonical(o.patch)
	nc, errN := patchio.Canonical(other.patch)
	if errO != nil || errN != nil {
		return len(o.patch) == len(other.patch)
	}
	return string(oc) == string(nc)
}

// Process applies the single fold step this operation represents to
// doc and returns the resulting document. It never errors out of the
// engine's control flow: a patch-apply failure is reported through
// the error result as a *PatchApplyError so the caller can log or accumulate
// it, while the returned document is doc unchanged (the operation is
// treated as a no-op for this fold), matching the "recover locally"
// policy.
func (o Operation) Process(doc *Json) (*Json, error) {
	switch o.kind {
	case KindDelete:
		return nil, nil

	case KindRead:
		return doc, nil

	case KindCreate:
		if doc != nil {
			// Only the first CREATE in fold order is observed; a
			// later one applied against a present document is
			// silently absorbed.
			return doc, nil
		}
		result, err := patchio.Apply(nil, o.patch)
		if err != nil {
			return nil, &PatchApplyError{Op: o, Cause: err}
		}
		return &result, nil

	case KindUpdate:
		if doc == nil {
			// No document to update against; dropped.
			return nil, nil
		}
		result, err := patchio.Apply(*doc, o.patch)
		if err != nil {
			return doc, &PatchApplyError{Op: o, Cause: err}
		}
		return &result, nil

	default:
		return doc, nil
	}
}

func clonePatch(p Patch) Patch {
	if p == nil {
		return nil
	}
	out := make(Patch, len(p))
	copy(out, p)
	return out
}
