// Package manager binds the CRDT fold engine (package crdt) to a
// native value schema, producing operations from language-native
// values and reconstructing native values from the engine's JSON
// snapshots. This is the "typed manager façade" of the spec this
// engine implements: the engine itself never knows about T.
package manager

import (
	"math"

	"crdtdoc/crdt"
	"crdtdoc/internal/crdtlog"
	"crdtdoc/patchio"
)

var managerLogger = crdtlog.Named("manager")

// CrdtManager binds one OperationSet to one Schema[T]. It owns its
// store exclusively; the store owns its operations. A CrdtManager has
// no persistent identity beyond what the caller supplies through its
// schema's Name — it is created empty and mutated by Append/Retract
// for as long as the hosting process keeps it alive. It performs no
// internal locking: sharing one across goroutines needs an external
// mutex around every call.
type CrdtManager[T any] struct {
	schema       Schema[T]
	schemaID     SchemaID
	store        *crdt.OperationSet
	options      *Options
	diag         *crdt.Diagnostics
	mapperIssues []*MapperError
}

// NewCrdtManager constructs an empty manager bound to schema. A nil
// opts uses DefaultOptions().
func NewCrdtManager[T any](schema Schema[T], opts *Options) *CrdtManager[T] {
	opts = opts.orDefault()
	return &CrdtManager[T]{
		schema:   schema,
		schemaID: NewSchemaID(schema.Name()),
		store:    crdt.NewOperationSet(),
		options:  opts,
		diag:     crdt.NewDiagnostics(opts.DiagnosticsCapacity),
	}
}

// SchemaID returns the manager's schema identity.
func (m *CrdtManager[T]) SchemaID() SchemaID { return m.schemaID }

// Diagnostics returns the manager's recorded fold issues (patch-apply
// failures encountered while materializing its document).
func (m *CrdtManager[T]) Diagnostics() []crdt.FoldIssue { return m.diag.Issues() }

// MapperIssues returns the manager's recorded mapper (JSON-to-native
// conversion) failures, populated only when Options.Strict is set.
func (m *CrdtManager[T]) MapperIssues() []*MapperError {
	out := make([]*MapperError, len(m.mapperIssues))
	copy(out, m.mapperIssues)
	return out
}

// Equal reports whether m and other hold equal stores and matching
// schema identities.
func (m *CrdtManager[T]) Equal(other *CrdtManager[T]) bool {
	if m.schemaID != other.schemaID {
		return false
	}
	return m.store.Render() == other.store.Render()
}

// Append places op in the store's add-set.
func (m *CrdtManager[T]) Append(op crdt.Operation) bool { return m.store.Add(op) }

// Retract places op in the store's remove-set, tombstoning it.
func (m *CrdtManager[T]) Retract(op crdt.Operation) bool { return m.store.Remove(op) }

// Clear empties the manager's store.
func (m *CrdtManager[T]) Clear() { m.store.Clear() }

// Merge folds other's store into m's.
func (m *CrdtManager[T]) Merge(other *CrdtManager[T]) { m.store.Merge(other.store) }

// Count returns the number of effective operations of the given kind.
func (m *CrdtManager[T]) Count(kind crdt.Kind) int { return m.store.Count(kind) }

// IsEmpty reports whether the manager's effective set is empty.
func (m *CrdtManager[T]) IsEmpty() bool { return m.store.IsEmpty() }

// IsCreated reports whether the manager's document has ever been
// created (an effective CREATE exists).
func (m *CrdtManager[T]) IsCreated() bool { return m.store.Count(crdt.KindCreate) > 0 }

// IsDeleted reports whether the manager's current document is absent
// because of a sealing DELETE.
func (m *CrdtManager[T]) IsDeleted() bool { return m.store.Count(crdt.KindDelete) > 0 }

// Document materializes the raw JSON document at the latest timestamp.
func (m *CrdtManager[T]) Document() *crdt.Json {
	return m.store.FoldWithDiagnostics(math.MaxUint64, m.diag)
}

// DocumentAt materializes the raw JSON document bounded by ts.
func (m *CrdtManager[T]) DocumentAt(ts uint64) *crdt.Json {
	return m.store.FoldWithDiagnostics(ts, m.diag)
}

// Value materializes the document and converts it to T. It returns
// false if the document is absent or the conversion fails; a
// MapperError is never fatal and never propagated here.
func (m *CrdtManager[T]) Value() (T, bool) {
	return m.valueAt(m.Document())
}

// ValueAt is Value bounded by ts.
func (m *CrdtManager[T]) ValueAt(ts uint64) (T, bool) {
	return m.valueAt(m.DocumentAt(ts))
}

func (m *CrdtManager[T]) valueAt(doc *crdt.Json) (T, bool) {
	var zero T
	if doc == nil {
		return zero, false
	}
	v, err := m.schema.FromTree(*doc)
	if err != nil {
		m.recordMapperError(err)
		return zero, false
	}
	return v, true
}

func (m *CrdtManager[T]) recordMapperError(cause error) {
	wrapped := &MapperError{SchemaName: m.schema.Name(), Cause: cause}
	if m.options.LogMapperErrors {
		managerLogger.Warnw("mapper conversion failed", "schema", m.schema.Name(), "err", cause)
	}
	if m.options.Strict {
		m.mapperIssues = append(m.mapperIssues, wrapped)
		if limit := m.options.DiagnosticsCapacity; limit > 0 && len(m.mapperIssues) > limit {
			m.mapperIssues = m.mapperIssues[len(m.mapperIssues)-limit:]
		}
	}
}

// MakeCreate returns a freshly allocated CREATE operation that seeds
// the document with value, computed by diffing the empty document
// against value's JSON tree.
func (m *CrdtManager[T]) MakeCreate(ts uint64, value T) (crdt.Operation, error) {
	tree, err := m.schema.ToTree(value)
	if err != nil {
		return crdt.Operation{}, &MapperError{SchemaName: m.schema.Name(), Cause: err}
	}
	patch := patchio.Diff(nil, tree)
	return crdt.NewCreate(ts, patch), nil
}

// MakeCreateDefault returns a CREATE operation seeded from the
// schema's default value. Returns a *ConstructionError, and no
// operation, if the schema has no default constructor.
func (m *CrdtManager[T]) MakeCreateDefault(ts uint64) (crdt.Operation, error) {
	value, err := m.schema.Default()
	if err != nil {
		return crdt.Operation{}, err
	}
	return m.MakeCreate(ts, value)
}

// MakeRead returns a purely observational READ operation.
func (m *CrdtManager[T]) MakeRead(ts uint64) crdt.Operation {
	return crdt.NewRead(ts)
}

// MakeUpdate returns an UPDATE operation whose patch is the structural
// diff between the manager's current materialized JSON and value's
// JSON tree.
func (m *CrdtManager[T]) MakeUpdate(ts uint64, value T) (crdt.Operation, error) {
	tree, err := m.schema.ToTree(value)
	if err != nil {
		return crdt.Operation{}, &MapperError{SchemaName: m.schema.Name(), Cause: err}
	}
	current := m.Document()
	var before crdt.Json
	if current != nil {
		before = *current
	}
	patch := patchio.Diff(before, tree)
	return crdt.NewUpdate(ts, patch), nil
}

// MakeDelete returns a DELETE operation.
func (m *CrdtManager[T]) MakeDelete(ts uint64) crdt.Operation {
	return crdt.NewDelete(ts)
}
