package manager

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"crdtdoc/crdt"
)

// schemaNamespace is a fixed namespace UUID used to derive a
// deterministic SchemaID from a schema's human-readable name, the way
// luvjson/common.SessionID wraps a UUID for replica identity — except
// here the UUID is derived, not random, so two managers built against
// the same schema name always compare equal without sharing state.
var schemaNamespace = uuid.MustParse("6f5908b3-8a02-4f7e-9a2e-6e9a9f8d9b6c")

// SchemaID is an opaque token identifying a native value shape. Two
// SchemaIDs are equal iff they were derived from the same name.
type SchemaID uuid.UUID

// NewSchemaID derives the SchemaID for a schema named name.
func NewSchemaID(name string) SchemaID {
	return SchemaID(uuid.NewSHA1(schemaNamespace, []byte(name)))
}

func (s SchemaID) String() string { return uuid.UUID(s).String() }

// Schema binds a native value shape T to the JSON tree the engine
// folds, replacing the reflective "instantiate T by default
// constructor" the teacher relied on with an explicit
// capability the caller provides.
type Schema[T any] interface {
	// ToTree converts v to the JSON tree representation the engine
	// stores and folds. Total for any v the caller presents.
	ToTree(v T) (crdt.Json, error)

	// FromTree reconstructs a T from a JSON tree. May fail with a
	// shape mismatch, reported as *MapperError by the caller.
	FromTree(tree crdt.Json) (T, error)

	// Default returns the zero-argument construction of T, or a
	// *ConstructionError if the schema provides none.
	Default() (T, error)

	// Name identifies the schema for SchemaID derivation and for
	// error messages.
	Name() string
}

// JSONSchema is a Schema[T] built entirely from encoding/json and
// mapstructure, suitable for any T that round-trips through JSON tags.
// ToTree/FromTree are the default conversion path a caller gets by
// calling NewJSONSchema instead of hand-writing a Schema[T].
type JSONSchema[T any] struct {
	name      string
	defaultFn func() (T, error)
}

// NewJSONSchema returns a Schema[T] named name that converts through
// encoding/json (ToTree) and mapstructure (FromTree, which tolerates
// the loosely-typed map[string]any trees ToTree/Diff produce better
// than a second json.Unmarshal round-trip would). defaultFn may be nil,
// in which case Default() always reports ErrNoDefaultConstructor.
func NewJSONSchema[T any](name string, defaultFn func() (T, error)) *JSONSchema[T] {
	return &JSONSchema[T]{name: name, defaultFn: defaultFn}
}

func (j *JSONSchema[T]) Name() string { return j.name }

func (j *JSONSchema[T]) ToTree(v T) (crdt.Json, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree crdt.Json
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (j *JSONSchema[T]) FromTree(tree crdt.Json) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if err := decoder.Decode(tree); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (j *JSONSchema[T]) Default() (T, error) {
	if j.defaultFn != nil {
		return j.defaultFn()
	}
	var zero T
	return zero, &ConstructionError{SchemaName: j.name, Cause: ErrNoDefaultConstructor}
}
