package crdt

import (
	"errors"
	"fmt"
)

// ErrPatchApply is the sentinel wrapped by PatchApplyError, for
// errors.Is checks that don't need the structured detail.
var ErrPatchApply = errors.New("crdt: patch failed to apply")

// PatchApplyError records a CREATE/UPDATE whose patch failed to apply
// to the current document. Per the engine's recover-locally policy,
// this error is never returned to a caller of Document/DocumentAt; it
// is only surfaced through an optional diagnostics channel.
type PatchApplyError struct {
	Op    Operation
	Cause error
}

func (e *PatchApplyError) Error() string {
	return fmt.Sprintf("crdt: %s operation at ts=%d failed to apply: %v", e.Op.Kind(), e.Op.Timestamp(), e.Cause)
}

func (e *PatchApplyError) Is(target error) bool { return target == ErrPatchApply }

func (e *PatchApplyError) Unwrap() error { return e.Cause }
