package manager

import (
	"errors"
	"fmt"
)

// ErrMapperShape is the sentinel wrapped by MapperError.
var ErrMapperShape = errors.New("manager: document does not match schema")

// MapperError records a failed JSON-to-native conversion. This
// is never fatal: Value/ValueAt return the zero value and false, and
// the raw JSON stays reachable through Document/DocumentAt.
type MapperError struct {
	SchemaName string
	Cause      error
}

func (e *MapperError) Error() string {
	return fmt.Sprintf("manager: %s: %v", e.SchemaName, e.Cause)
}

func (e *MapperError) Is(target error) bool { return target == ErrMapperShape }

func (e *MapperError) Unwrap() error { return e.Cause }

// ErrNoDefaultConstructor is the sentinel wrapped by ConstructionError.
var ErrNoDefaultConstructor = errors.New("manager: schema has no default constructor")

// ConstructionError is returned to the caller when MakeCreateDefault is
// asked to synthesize a default value but the schema's Default()
// reports it cannot. Unlike MapperError, this is surfaced directly: no
// operation is constructed.
type ConstructionError struct {
	SchemaName string
	Cause      error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("manager: %s: no default value available: %v", e.SchemaName, e.Cause)
}

func (e *ConstructionError) Is(target error) bool { return target == ErrNoDefaultConstructor }

func (e *ConstructionError) Unwrap() error { return e.Cause }
